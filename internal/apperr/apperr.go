// Package apperr определяет классификацию ошибок уровня запроса.
//
// Четыре вида соответствуют типовым отказам API: невалидные данные,
// нарушение уникальности, запрет доступа и отсутствие сущности.
// Обработчики сопоставляют вид с HTTP-статусом, хранилище и сервисы
// помечают ошибки нужным видом.
package apperr

import (
	"errors"
	"fmt"
)

// Kind вид ошибки уровня запроса.
type Kind int

const (
	// KindValidation невалидные или неполные входные данные.
	KindValidation Kind = iota + 1
	// KindConflict нарушение уникальности.
	KindConflict
	// KindPermission запрет доступа.
	KindPermission
	// KindNotFound сущность или связь не найдена.
	KindNotFound
)

// Error ошибка с видом и человеко-читаемым сообщением.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation возвращает ошибку вида KindValidation с форматированным сообщением.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Conflict возвращает ошибку вида KindConflict с форматированным сообщением.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Permission возвращает ошибку вида KindPermission с форматированным сообщением.
func Permission(format string, args ...any) error {
	return &Error{Kind: KindPermission, Msg: fmt.Sprintf(format, args...)}
}

// NotFound возвращает ошибку вида KindNotFound с форматированным сообщением.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Wrap помечает существующую ошибку видом, сохраняя её в цепочке Unwrap.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf возвращает вид ошибки или 0, если ошибка не классифицирована.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
