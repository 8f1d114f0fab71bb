package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// CreateRecipe вставляет рецепт вместе со строками ингредиентов одной
// транзакцией и возвращает его ID. При любой ошибке транзакция откатывается,
// частично созданный рецепт никогда не наблюдаем.
func (s *Storage) CreateRecipe(ctx context.Context, recipe models.Recipe) (int, error) {
	const op = "storage.CreateRecipe"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int
	query := `INSERT INTO recipes (author_uid, name, image_path, text, cooking_time)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	if err := tx.QueryRowContext(ctx, query,
		recipe.AuthorUID, recipe.Name, recipe.ImagePath, recipe.Text,
		recipe.CookingTime).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertRecipeLines(ctx, tx, newID, recipe.Ingredients); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateRecipe обновляет поля рецепта и полностью заменяет его строки
// ингредиентов (удаление старых, вставка новых) в одной транзакции:
// неудавшаяся вставка не оставляет рецепт без прежних строк.
// Пустой ImagePath означает «изображение не менять».
func (s *Storage) UpdateRecipe(ctx context.Context, recipe models.Recipe) error {
	const op = "storage.UpdateRecipe"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE recipes
			  SET name = $1, text = $2, cooking_time = $3,
			      image_path = CASE WHEN $4 = '' THEN image_path ELSE $4 END
			  WHERE id = $5`
	result, err := tx.ExecContext(ctx, query,
		recipe.Name, recipe.Text, recipe.CookingTime, recipe.ImagePath, recipe.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("recipe not found")
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipe.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := insertRecipeLines(ctx, tx, recipe.ID, recipe.Ingredients); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveRecipe удаляет рецепт по ID; зависимые строки, избранное и корзина
// удаляются каскадом базы данных.
func (s *Storage) RemoveRecipe(ctx context.Context, id int) error {
	const op = "storage.RemoveRecipe"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("recipe not found")
	}
	return nil
}

// ReadRecipe возвращает рецепт по ID вместе со строками ингредиентов.
func (s *Storage) ReadRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	const op = "storage.ReadRecipe"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, name, image_path, text, cooking_time, pub_date
			  FROM recipes WHERE id = $1`
	var recipe models.Recipe
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&recipe.ID, &recipe.AuthorUID,
		&recipe.Name, &recipe.ImagePath, &recipe.Text, &recipe.CookingTime, &recipe.PubDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines, err := s.listRecipeLines(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	recipe.Ingredients = lines
	return &recipe, nil
}

// GetRecipeAuthor возвращает UID автора рецепта.
func (s *Storage) GetRecipeAuthor(ctx context.Context, id int) (string, error) {
	const op = "storage.GetRecipeAuthor"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var authorUID string
	err := s.DB.QueryRowContext(ctx, `SELECT author_uid FROM recipes WHERE id = $1`, id).Scan(&authorUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("recipe not found")
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return authorUID, nil
}

// ListRecipes возвращает рецепты по фильтрам, от новых к старым, с пагинацией.
// Пустые поля фильтра не применяются; фильтры независимы и коммутируют.
func (s *Storage) ListRecipes(ctx context.Context, filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error) {
	const op = "storage.ListRecipes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.id, r.author_uid, r.name, r.image_path, r.text, r.cooking_time, r.pub_date
			  FROM recipes r
			  WHERE ($1 = '' OR r.author_uid::text = $1)
			    AND ($2 = '' OR EXISTS (
			        SELECT 1 FROM favorites f
			        WHERE f.recipe_id = r.id AND f.user_uid::text = $2))
			    AND ($3 = '' OR EXISTS (
			        SELECT 1 FROM shopping_cart c
			        WHERE c.recipe_id = r.id AND c.user_uid::text = $3))
			  ORDER BY r.pub_date DESC, r.id DESC
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.AuthorUID, filter.FavoritedBy, filter.InCartOf, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Recipe
	for rows.Next() {
		var item models.Recipe
		if err := rows.Scan(&item.ID, &item.AuthorUID, &item.Name, &item.ImagePath,
			&item.Text, &item.CookingTime, &item.PubDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, recipe := range result {
		lines, err := s.listRecipeLines(ctx, recipe.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		recipe.Ingredients = lines
	}
	return result, nil
}

// ListAuthorRecipes возвращает не более limit рецептов автора, от новых к старым.
func (s *Storage) ListAuthorRecipes(ctx context.Context, authorUID string, limit int) ([]*models.Recipe, error) {
	const op = "storage.ListAuthorRecipes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, name, image_path, text, cooking_time, pub_date
			  FROM recipes
			  WHERE author_uid = $1
			  ORDER BY pub_date DESC, id DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, authorUID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Recipe
	for rows.Next() {
		var item models.Recipe
		if err := rows.Scan(&item.ID, &item.AuthorUID, &item.Name, &item.ImagePath,
			&item.Text, &item.CookingTime, &item.PubDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountAuthorRecipes возвращает общее число рецептов автора.
func (s *Storage) CountAuthorRecipes(ctx context.Context, authorUID string) (int, error) {
	const op = "storage.CountAuthorRecipes"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes WHERE author_uid = $1`, authorUID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// listRecipeLines возвращает строки рецепта в порядке вставки
// вместе с данными справочника.
func (s *Storage) listRecipeLines(ctx context.Context, recipeID int) ([]models.IngredientLine, error) {
	query := `SELECT ri.ingredient_id, i.name, i.measurement_unit, ri.amount
			  FROM recipe_ingredients ri
			  JOIN ingredients i ON i.id = ri.ingredient_id
			  WHERE ri.recipe_id = $1
			  ORDER BY ri.id`
	rows, err := s.DB.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.IngredientLine
	for rows.Next() {
		var line models.IngredientLine
		if err := rows.Scan(&line.IngredientID, &line.Name, &line.MeasurementUnit, &line.Amount); err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

// insertRecipeLines вставляет строки рецепта внутри транзакции.
func insertRecipeLines(ctx context.Context, tx *sql.Tx, recipeID int, lines []models.IngredientLine) error {
	query := `INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
			  VALUES ($1, $2, $3)`
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, query, recipeID, line.IngredientID, line.Amount); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Validation("ingredient with id=%d does not exist", line.IngredientID)
			}
			return err
		}
	}
	return nil
}
