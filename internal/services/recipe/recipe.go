// Package services содержит бизнес-логику рецептов, избранного и списка
// покупок, включая кеширование и проверку прав автора.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/config"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/imagestore"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// RecipeRepository определяет методы для работы с рецептами в хранилище.
type RecipeRepository interface {
	// CreateRecipe добавляет рецепт со строками ингредиентов и возвращает его ID.
	CreateRecipe(ctx context.Context, recipe models.Recipe) (int, error)
	// UpdateRecipe обновляет рецепт, полностью заменяя строки ингредиентов.
	UpdateRecipe(ctx context.Context, recipe models.Recipe) error
	// RemoveRecipe удаляет рецепт по ID.
	RemoveRecipe(ctx context.Context, id int) error
	// ReadRecipe возвращает рецепт по ID вместе со строками ингредиентов.
	ReadRecipe(ctx context.Context, id int) (*models.Recipe, error)
	// GetRecipeAuthor возвращает UID автора рецепта.
	GetRecipeAuthor(ctx context.Context, id int) (string, error)
	// ListRecipes возвращает рецепты по фильтрам с пагинацией.
	ListRecipes(ctx context.Context, filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error)
}

// RelationRepository определяет методы для работы с избранным и списком покупок.
type RelationRepository interface {
	// AddFavorite добавляет рецепт в избранное пользователя.
	AddFavorite(ctx context.Context, userUID string, recipeID int) error
	// RemoveFavorite удаляет рецепт из избранного пользователя.
	RemoveFavorite(ctx context.Context, userUID string, recipeID int) error
	// IsFavorited сообщает, добавлен ли рецепт в избранное.
	IsFavorited(ctx context.Context, userUID string, recipeID int) (bool, error)
	// AddCartItem добавляет рецепт в список покупок пользователя.
	AddCartItem(ctx context.Context, userUID string, recipeID int) error
	// RemoveCartItem удаляет рецепт из списка покупок пользователя.
	RemoveCartItem(ctx context.Context, userUID string, recipeID int) error
	// IsInCart сообщает, добавлен ли рецепт в список покупок.
	IsInCart(ctx context.Context, userUID string, recipeID int) (bool, error)
}

// UserRepository определяет методы чтения пользователей для сборки представлений.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SubscriptionRepository определяет метод проверки подписки на автора.
type SubscriptionRepository interface {
	// IsSubscribed сообщает, подписан ли пользователь на автора.
	IsSubscribed(ctx context.Context, userUID, authorUID string) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// RecipeService реализует бизнес-логику работы с рецептами, включая кеширование.
// В кеше хранится рецепт без пользовательских флагов, флаги вычисляются
// для каждого запрашивающего отдельно.
type RecipeService struct {
	recipes   RecipeRepository
	relations RelationRepository
	users     UserRepository
	subs      SubscriptionRepository
	cache     Cache
	images    *imagestore.Store
	limits    config.Limits
	log       *slog.Logger
}

// NewRecipeService создает новый экземпляр RecipeService.
func NewRecipeService(recipes RecipeRepository, relations RelationRepository,
	users UserRepository, subs SubscriptionRepository, cache Cache,
	images *imagestore.Store, limits config.Limits, log *slog.Logger) *RecipeService {
	return &RecipeService{
		recipes:   recipes,
		relations: relations,
		users:     users,
		subs:      subs,
		cache:     cache,
		images:    images,
		limits:    limits,
		log:       log,
	}
}

// Create создает рецепт от имени автора и возвращает его представление.
// Автор всегда назначается из запрашивающего, изображение обязательно.
func (s *RecipeService) Create(ctx context.Context, authorUID string, req models.RecipeWriteRequest) (*models.RecipeView, error) {
	if err := s.validateWrite(req); err != nil {
		return nil, err
	}
	if req.Image == "" {
		return nil, apperr.Validation("field image is a required field")
	}

	imagePath, err := s.images.Save(req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorUID:   authorUID,
		Name:        req.Name,
		ImagePath:   imagePath,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Ingredients: linesFromRequest(req.Ingredients),
	}
	id, err := s.recipes.CreateRecipe(ctx, recipe)
	if err != nil {
		if removeErr := s.images.Remove(imagePath); removeErr != nil {
			s.log.Warn("failed to remove orphan image file", sl.Err(removeErr))
		}
		return nil, err
	}
	s.log.Info("created new recipe", slog.Int("id", id))

	return s.Read(ctx, id, authorUID)
}

// Read возвращает представление рецепта для запрашивающего,
// используя кеш или репозиторий.
func (s *RecipeService) Read(ctx context.Context, id int, callerUID string) (*models.RecipeView, error) {
	recipe, err := s.readCached(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, recipe, callerUID)
}

// Update обновляет рецепт и инвалидирует кеш. Изменять рецепт может только
// его автор. Пустое поле Image сохраняет прежнее изображение.
func (s *RecipeService) Update(ctx context.Context, id int, callerUID string, req models.RecipeWriteRequest) (*models.RecipeView, error) {
	authorUID, err := s.recipes.GetRecipeAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	if authorUID != callerUID {
		return nil, apperr.Permission("only the author can modify the recipe")
	}
	if err := s.validateWrite(req); err != nil {
		return nil, err
	}

	var imagePath string
	if req.Image != "" {
		imagePath, err = s.images.Save(req.Image)
		if err != nil {
			return nil, err
		}
	}

	recipe := models.Recipe{
		ID:          id,
		Name:        req.Name,
		ImagePath:   imagePath,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Ingredients: linesFromRequest(req.Ingredients),
	}
	if err := s.recipes.UpdateRecipe(ctx, recipe); err != nil {
		if removeErr := s.images.Remove(imagePath); removeErr != nil {
			s.log.Warn("failed to remove orphan image file", sl.Err(removeErr))
		}
		return nil, err
	}
	s.log.Info("updated recipe", slog.Int("id", id))

	s.invalidate(id)
	return s.Read(ctx, id, callerUID)
}

// Remove удаляет рецепт вместе с файлом изображения и инвалидирует кеш.
// Удалять рецепт может только его автор.
func (s *RecipeService) Remove(ctx context.Context, id int, callerUID string) error {
	recipe, err := s.recipes.ReadRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorUID != callerUID {
		return apperr.Permission("only the author can modify the recipe")
	}

	if err := s.recipes.RemoveRecipe(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed recipe", slog.Int("id", id))

	s.invalidate(id)
	if err := s.images.Remove(recipe.ImagePath); err != nil {
		s.log.Warn("failed to remove image file", sl.Err(err))
	}
	return nil
}

// List возвращает представления рецептов по фильтрам, от новых к старым.
// Фильтры по избранному и корзине применяются только для авторизованного
// запрашивающего, для анонимного игнорируются.
func (s *RecipeService) List(ctx context.Context, callerUID, authorUID string, isFavorited, isInCart bool, limit, offset int) ([]models.RecipeView, error) {
	filter := models.RecipeFilter{AuthorUID: authorUID}
	if callerUID != "" {
		if isFavorited {
			filter.FavoritedBy = callerUID
		}
		if isInCart {
			filter.InCartOf = callerUID
		}
	}

	recipes, err := s.recipes.ListRecipes(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]models.RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		view, err := s.buildView(ctx, recipe, callerUID)
		if err != nil {
			return nil, err
		}
		result = append(result, *view)
	}
	return result, nil
}

// AddFavorite добавляет рецепт в избранное запрашивающего и возвращает
// сокращённое представление рецепта.
func (s *RecipeService) AddFavorite(ctx context.Context, callerUID string, id int) (*models.RecipeShortView, error) {
	recipe, err := s.readCached(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.relations.AddFavorite(ctx, callerUID, id); err != nil {
		return nil, err
	}
	return s.shortView(recipe), nil
}

// RemoveFavorite удаляет рецепт из избранного запрашивающего.
func (s *RecipeService) RemoveFavorite(ctx context.Context, callerUID string, id int) error {
	return s.relations.RemoveFavorite(ctx, callerUID, id)
}

// AddToCart добавляет рецепт в список покупок запрашивающего и возвращает
// сокращённое представление рецепта.
func (s *RecipeService) AddToCart(ctx context.Context, callerUID string, id int) (*models.RecipeShortView, error) {
	recipe, err := s.readCached(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.relations.AddCartItem(ctx, callerUID, id); err != nil {
		return nil, err
	}
	return s.shortView(recipe), nil
}

// RemoveFromCart удаляет рецепт из списка покупок запрашивающего.
func (s *RecipeService) RemoveFromCart(ctx context.Context, callerUID string, id int) error {
	return s.relations.RemoveCartItem(ctx, callerUID, id)
}

// validateWrite проверяет доменные правила запроса на запись рецепта:
// непустой список ингредиентов без повторов, минимальное количество
// и минимальное время приготовления из настроек.
func (s *RecipeService) validateWrite(req models.RecipeWriteRequest) error {
	if len(req.Ingredients) == 0 {
		return apperr.Validation("ingredients list must not be empty")
	}
	seen := make(map[int]struct{}, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if _, ok := seen[item.ID]; ok {
			return apperr.Validation("ingredient with id=%d is duplicated", item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.Amount < s.limits.MinIngredientAmount {
			return apperr.Validation("amount for ingredient with id=%d must be at least %d",
				item.ID, s.limits.MinIngredientAmount)
		}
	}
	if req.CookingTime < s.limits.MinCookingTime {
		return apperr.Validation("cooking_time must be at least %d", s.limits.MinCookingTime)
	}
	return nil
}

// readCached возвращает рецепт из кеша или репозитория.
func (s *RecipeService) readCached(ctx context.Context, id int) (*models.Recipe, error) {
	var result *models.Recipe
	cacheKey := fmt.Sprintf("recipe:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.recipes.ReadRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

func (s *RecipeService) invalidate(id int) {
	cacheKey := fmt.Sprintf("recipe:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

// buildView собирает представление рецепта для запрашивающего.
// Ошибки вычисления флагов не прерывают ответ: флаг остаётся false,
// а ошибка попадает в лог.
func (s *RecipeService) buildView(ctx context.Context, recipe *models.Recipe, callerUID string) (*models.RecipeView, error) {
	author, err := s.users.GetUser(ctx, recipe.AuthorUID)
	if err != nil {
		return nil, err
	}
	authorView := models.UserView{
		UID:       author.UID,
		Email:     author.Email,
		Username:  author.Username,
		FirstName: author.FirstName,
		LastName:  author.LastName,
		Avatar:    s.images.URL(author.AvatarPath),
	}

	view := &models.RecipeView{
		ID:          recipe.ID,
		Author:      authorView,
		Name:        recipe.Name,
		Image:       s.images.URL(recipe.ImagePath),
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Ingredients: make([]models.IngredientLineView, 0, len(recipe.Ingredients)),
	}
	for _, line := range recipe.Ingredients {
		view.Ingredients = append(view.Ingredients, models.IngredientLineView{
			ID:              line.IngredientID,
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	if callerUID == "" {
		return view, nil
	}

	if callerUID != recipe.AuthorUID {
		subscribed, err := s.subs.IsSubscribed(ctx, callerUID, recipe.AuthorUID)
		if err != nil {
			return nil, err
		}
		view.Author.IsSubscribed = subscribed
	}

	favorited, err := s.relations.IsFavorited(ctx, callerUID, recipe.ID)
	if err != nil {
		s.log.Warn("failed to check favorite flag", slog.Int("recipe_id", recipe.ID), sl.Err(err))
	} else {
		view.IsFavorited = favorited
	}
	inCart, err := s.relations.IsInCart(ctx, callerUID, recipe.ID)
	if err != nil {
		s.log.Warn("failed to check shopping cart flag", slog.Int("recipe_id", recipe.ID), sl.Err(err))
	} else {
		view.IsInShoppingCart = inCart
	}
	return view, nil
}

func (s *RecipeService) shortView(recipe *models.Recipe) *models.RecipeShortView {
	return &models.RecipeShortView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       s.images.URL(recipe.ImagePath),
		CookingTime: recipe.CookingTime,
	}
}

func linesFromRequest(items []models.IngredientAmount) []models.IngredientLine {
	lines := make([]models.IngredientLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.IngredientLine{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return lines
}
