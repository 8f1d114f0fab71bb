package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// ListIngredients возвращает ингредиенты справочника с пагинацией.
// Непустой name сужает выборку до названий, начинающихся с этой строки.
func (s *Storage) ListIngredients(ctx context.Context, name string, limit, offset int) ([]models.Ingredient, error) {
	const op = "storage.ListIngredients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, measurement_unit
			  FROM ingredients
			  WHERE ($1 = '' OR name ILIKE $1 || '%')
			  ORDER BY name
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, name, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Ingredient
	for rows.Next() {
		var item models.Ingredient
		if err := rows.Scan(&item.ID, &item.Name, &item.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadIngredient возвращает запись справочника по ID.
func (s *Storage) ReadIngredient(ctx context.Context, id int) (*models.Ingredient, error) {
	const op = "storage.ReadIngredient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`
	var item models.Ingredient
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name, &item.MeasurementUnit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}
