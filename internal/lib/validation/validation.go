// Package validation собирает экземпляр валидатора с доменными правилами.
package validation

import (
	"regexp"

	"github.com/go-playground/validator"
)

// допустимые символы никнейма: буквы, цифры и @/./+/-/_
var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// New возвращает валидатор с зарегистрированным правилом username.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}
