package models

import "time"

// Recipe основная модель рецепта, используемая в бизнес-логике и хранилище.
// Ingredients хранит строки рецепта в порядке вставки.
type Recipe struct {
	ID          int
	AuthorUID   string
	Name        string
	ImagePath   string
	Text        string
	CookingTime int
	PubDate     time.Time
	Ingredients []IngredientLine
}

// IngredientLine строка рецепта: ссылка на ингредиент и его количество.
type IngredientLine struct {
	IngredientID    int
	Name            string
	MeasurementUnit string
	Amount          int
}

// IngredientAmount элемент списка ингредиентов из JSON-запроса на запись рецепта.
// Минимальное количество проверяется бизнес-логикой по настройке, не тегом.
type IngredientAmount struct {
	ID     int `json:"id" validate:"required"`
	Amount int `json:"amount" validate:"required"`
}

// RecipeWriteRequest используется для приёма данных рецепта из JSON-запроса.
// Автор никогда не принимается от клиента и всегда назначается сервером.
/// Image содержит закодированное изображение (data:image/...;base64,...);
// при обновлении поле может отсутствовать — тогда изображение сохраняется прежним.
type RecipeWriteRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"required"`
}

// RecipeView представление рецепта для ответа клиенту.
// Флаги IsFavorited и IsInShoppingCart вычисляются относительно запрашивающего.
type RecipeView struct {
	ID               int                  `json:"id"`
	Author           UserView             `json:"author"`
	Ingredients      []IngredientLineView `json:"ingredients"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
}

// IngredientLineView строка рецепта в представлении для клиента.
type IngredientLineView struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeShortView сокращённое представление рецепта: используется в ответах
// на добавление в избранное/корзину и в списке подписок.
type RecipeShortView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}
