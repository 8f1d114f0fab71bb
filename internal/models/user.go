// Package models содержит доменные структуры рецептурного сервиса,
// а также вспомогательные типы для работы с данными из JSON-запросов.
package models

import "time"

// User основная модель пользователя, используемая в бизнес-логике и хранилище.
// AvatarPath хранит относительный путь к файлу аватара, пустая строка — аватара нет.
type User struct {
	UID          string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	AvatarPath   string
	CreatedAt    time.Time
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
// Никнейм может содержать только буквы, цифры и символы @/./+/-/_.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8"`
}

// LoginRequest используется для приёма данных входа из JSON-запроса.
// Для аутентификации используется email.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AvatarRequest используется для приёма закодированного аватара из JSON-запроса.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// UserView представление пользователя для ответа клиенту.
// IsSubscribed вычисляется относительно запрашивающего и всегда false
// для анонимного запроса и для собственного профиля.
type UserView struct {
	UID          string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Avatar       string `json:"avatar"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// AuthorWithRecipes представление автора из списка подписок:
// поверх UserView добавляет общее число рецептов и их сокращённый список.
type AuthorWithRecipes struct {
	UserView
	RecipesCount int               `json:"recipes_count"`
	Recipes      []RecipeShortView `json:"recipes"`
}
