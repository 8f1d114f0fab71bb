// Package imagestore отвечает за хранение изображений, принятых в виде
// закодированной строки data:image/...;base64,... из JSON-запроса.
//
// Save декодирует полезную нагрузку и сохраняет файл на диск, возвращая
// относительный путь для хранения в базе. URL собирает из пути ссылку,
// по которой файл раздаётся сервером. Клиент никогда не получает обратно
// закодированную строку — только URL.
package imagestore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
)

// Store хранилище изображений на локальном диске.
type Store struct {
	dir     string
	baseURL string
}

// расширения для поддерживаемых типов из заголовка data:image/<type>
var extensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"jpg":  ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// New создаёт хранилище, при необходимости создавая каталог.
func New(dir, baseURL string) (*Store, error) {
	const op = "imagestore.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save декодирует строку вида data:image/png;base64,... и записывает файл.
// Возвращает относительный путь файла. Некорректная полезная нагрузка —
// ошибка валидации, а не внутренняя.
func (s *Store) Save(payload string) (string, error) {
	const op = "imagestore.Save"

	header, data, ok := strings.Cut(payload, ",")
	if !ok {
		return "", apperr.Validation("image must be a base64-encoded data url")
	}
	if !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return "", apperr.Validation("image must be a base64-encoded data url")
	}
	imgType := strings.TrimSuffix(strings.TrimPrefix(header, "data:image/"), ";base64")
	ext, known := extensions[imgType]
	if !known {
		return "", apperr.Validation("unsupported image type: %s", imgType)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", apperr.Validation("image payload is not valid base64")
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return name, nil
}

// Remove удаляет файл по относительному пути. Отсутствие файла не считается ошибкой.
func (s *Store) Remove(path string) error {
	const op = "imagestore.Remove"
	if path == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// URL возвращает ссылку, по которой раздаётся файл. Пустой путь — пустая ссылка.
func (s *Store) URL(path string) string {
	if path == "" {
		return ""
	}
	return s.baseURL + "/" + path
}
