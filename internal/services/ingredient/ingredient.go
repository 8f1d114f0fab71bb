// Package services содержит бизнес-логику справочника ингредиентов.
// Справочник заполняется миграциями и доступен только для чтения.
package services

import (
	"context"

	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// IngredientRepository определяет методы чтения справочника в хранилище.
type IngredientRepository interface {
	// ListIngredients возвращает ингредиенты, отфильтрованные по началу названия.
	ListIngredients(ctx context.Context, name string, limit, offset int) ([]models.Ingredient, error)
	// ReadIngredient возвращает запись справочника по ID.
	ReadIngredient(ctx context.Context, id int) (*models.Ingredient, error)
}

// IngredientService реализует чтение справочника ингредиентов.
type IngredientService struct {
	ingredients IngredientRepository
}

// NewIngredientService создает новый экземпляр IngredientService.
func NewIngredientService(ingredients IngredientRepository) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

// List возвращает ингредиенты справочника. Непустой name сужает выборку
// до названий, начинающихся с этой строки, без учёта регистра.
func (s *IngredientService) List(ctx context.Context, name string, limit, offset int) ([]models.Ingredient, error) {
	return s.ingredients.ListIngredients(ctx, name, limit, offset)
}

// Read возвращает запись справочника по ID.
func (s *IngredientService) Read(ctx context.Context, id int) (*models.Ingredient, error) {
	return s.ingredients.ReadIngredient(ctx, id)
}
