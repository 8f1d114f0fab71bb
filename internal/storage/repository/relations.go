package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
)

// Избранное и список покупок устроены одинаково: отметка (пользователь, рецепт)
// с уникальной парой. Гонка одновременных добавлений разрешается уникальным
// ограничением базы, проигравший вызов получает ошибку конфликта.

// AddFavorite добавляет рецепт в избранное пользователя.
func (s *Storage) AddFavorite(ctx context.Context, userUID string, recipeID int) error {
	const op = "storage.AddFavorite"
	return s.addRelation(ctx, op,
		`INSERT INTO favorites (user_uid, recipe_id) VALUES ($1, $2)`,
		userUID, recipeID, "recipe is already in favorites")
}

// RemoveFavorite удаляет рецепт из избранного пользователя.
func (s *Storage) RemoveFavorite(ctx context.Context, userUID string, recipeID int) error {
	const op = "storage.RemoveFavorite"
	return s.removeRelation(ctx, op,
		`DELETE FROM favorites WHERE user_uid = $1 AND recipe_id = $2`,
		userUID, recipeID, "recipe is not in favorites")
}

// IsFavorited сообщает, добавлен ли рецепт в избранное пользователя.
func (s *Storage) IsFavorited(ctx context.Context, userUID string, recipeID int) (bool, error) {
	const op = "storage.IsFavorited"
	return s.relationExists(ctx, op,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE user_uid = $1 AND recipe_id = $2)`,
		userUID, recipeID)
}

// AddCartItem добавляет рецепт в список покупок пользователя.
func (s *Storage) AddCartItem(ctx context.Context, userUID string, recipeID int) error {
	const op = "storage.AddCartItem"
	return s.addRelation(ctx, op,
		`INSERT INTO shopping_cart (user_uid, recipe_id) VALUES ($1, $2)`,
		userUID, recipeID, "recipe is already in shopping cart")
}

// RemoveCartItem удаляет рецепт из списка покупок пользователя.
func (s *Storage) RemoveCartItem(ctx context.Context, userUID string, recipeID int) error {
	const op = "storage.RemoveCartItem"
	return s.removeRelation(ctx, op,
		`DELETE FROM shopping_cart WHERE user_uid = $1 AND recipe_id = $2`,
		userUID, recipeID, "recipe is not in shopping cart")
}

// IsInCart сообщает, добавлен ли рецепт в список покупок пользователя.
func (s *Storage) IsInCart(ctx context.Context, userUID string, recipeID int) (bool, error) {
	const op = "storage.IsInCart"
	return s.relationExists(ctx, op,
		`SELECT EXISTS(SELECT 1 FROM shopping_cart WHERE user_uid = $1 AND recipe_id = $2)`,
		userUID, recipeID)
}

func (s *Storage) addRelation(ctx context.Context, op, query, userUID string, recipeID int, conflictMsg string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, query, userUID, recipeID); err != nil {
		switch {
		case isUniqueViolation(err):
			return apperr.Conflict("%s", conflictMsg)
		case isForeignKeyViolation(err):
			return apperr.NotFound("recipe not found")
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) removeRelation(ctx context.Context, op, query, userUID string, recipeID int, notFoundMsg string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, query, userUID, recipeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("%s", notFoundMsg)
	}
	return nil
}

func (s *Storage) relationExists(ctx context.Context, op, query, userUID string, recipeID int) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, recipeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
