package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	user := models.User{
		Email:        "cook@example.com",
		Username:     "cook",
		FirstName:    "Test",
		LastName:     "Cook",
		PasswordHash: "hashedpassword",
	}

	uid, err := storage.RegisterUser(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	// повторная регистрация с тем же email
	_, err = storage.RegisterUser(ctx, user)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestStorage_Subscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	reader := factory.CreateUser(t, "reader", "reader@example.com")
	author := factory.CreateUser(t, "author", "author@example.com")

	require.NoError(t, storage.CreateSubscription(ctx, reader, author))

	// повторная подписка
	err := storage.CreateSubscription(ctx, reader, author)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// подписка на самого себя отклоняется базой
	err = storage.CreateSubscription(ctx, reader, reader)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	subscribed, err := storage.IsSubscribed(ctx, reader, author)
	require.NoError(t, err)
	assert.True(t, subscribed)

	authors, err := storage.ListSubscribedAuthors(ctx, reader, 10, 0)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "author", authors[0].Username)

	require.NoError(t, storage.RemoveSubscription(ctx, reader, author))

	// подписки больше нет
	err = storage.RemoveSubscription(ctx, reader, author)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStorage_RecipeLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	author := factory.CreateUser(t, "author", "author@example.com")
	flour := factory.CreateIngredient(t, "Мука", "г")
	sugar := factory.CreateIngredient(t, "Сахар", "г")

	id, err := storage.CreateRecipe(ctx, models.Recipe{
		AuthorUID:   author,
		Name:        "Блины",
		ImagePath:   "pancakes.png",
		Text:        "Смешать и жарить",
		CookingTime: 20,
		Ingredients: []models.IngredientLine{
			{IngredientID: flour, Amount: 300},
			{IngredientID: sugar, Amount: 50},
		},
	})
	require.NoError(t, err)

	recipe, err := storage.ReadRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Блины", recipe.Name)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "Мука", recipe.Ingredients[0].Name)
	assert.Equal(t, 300, recipe.Ingredients[0].Amount)

	// обновление полностью заменяет строки ингредиентов
	err = storage.UpdateRecipe(ctx, models.Recipe{
		ID:          id,
		Name:        "Блины сладкие",
		ImagePath:   "",
		Text:        "Смешать и жарить",
		CookingTime: 25,
		Ingredients: []models.IngredientLine{
			{IngredientID: sugar, Amount: 100},
		},
	})
	require.NoError(t, err)

	recipe, err = storage.ReadRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Блины сладкие", recipe.Name)
	assert.Equal(t, "pancakes.png", recipe.ImagePath) // пустой путь сохраняет прежнее изображение
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "Сахар", recipe.Ingredients[0].Name)

	require.NoError(t, storage.RemoveRecipe(ctx, id))

	_, err = storage.ReadRecipe(ctx, id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStorage_CreateRecipe_UnknownIngredient(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	author := factory.CreateUser(t, "author", "author@example.com")

	_, err := storage.CreateRecipe(ctx, models.Recipe{
		AuthorUID:   author,
		Name:        "Блины",
		ImagePath:   "pancakes.png",
		Text:        "text",
		CookingTime: 20,
		Ingredients: []models.IngredientLine{
			{IngredientID: 99999, Amount: 300},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// рецепт не создан: транзакция откатилась целиком
	recipes, err := storage.ListRecipes(ctx, models.RecipeFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestStorage_Favorites(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	author := factory.CreateUser(t, "author", "author@example.com")
	reader := factory.CreateUser(t, "reader", "reader@example.com")
	flour := factory.CreateIngredient(t, "Мука", "г")
	recipeID := factory.CreateRecipe(t, author, "Блины", flour)

	require.NoError(t, storage.AddFavorite(ctx, reader, recipeID))

	err := storage.AddFavorite(ctx, reader, recipeID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = storage.AddFavorite(ctx, reader, 99999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	favorited, err := storage.IsFavorited(ctx, reader, recipeID)
	require.NoError(t, err)
	assert.True(t, favorited)

	// удаление рецепта каскадно чистит отметки
	require.NoError(t, storage.RemoveRecipe(ctx, recipeID))
	favorited, err = storage.IsFavorited(ctx, reader, recipeID)
	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestStorage_ShoppingCart(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	author := factory.CreateUser(t, "author", "author@example.com")
	flour := factory.CreateIngredient(t, "Мука", "г")
	recipeID := factory.CreateRecipe(t, author, "Блины", flour)

	require.NoError(t, storage.AddCartItem(ctx, author, recipeID))

	err := storage.AddCartItem(ctx, author, recipeID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	inCart, err := storage.IsInCart(ctx, author, recipeID)
	require.NoError(t, err)
	assert.True(t, inCart)

	require.NoError(t, storage.RemoveCartItem(ctx, author, recipeID))

	err = storage.RemoveCartItem(ctx, author, recipeID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStorage_ListRecipes_Filters(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	alice := factory.CreateUser(t, "alice", "alice@example.com")
	bob := factory.CreateUser(t, "bob", "bob@example.com")
	flour := factory.CreateIngredient(t, "Мука", "г")

	first := factory.CreateRecipe(t, alice, "Блины", flour)
	second := factory.CreateRecipe(t, bob, "Хлеб", flour)

	require.NoError(t, storage.AddFavorite(ctx, bob, first))

	// без фильтров, от новых к старым
	all, err := storage.ListRecipes(ctx, models.RecipeFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].ID)
	assert.Equal(t, first, all[1].ID)

	// фильтр по автору
	byAuthor, err := storage.ListRecipes(ctx, models.RecipeFilter{AuthorUID: alice}, 10, 0)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, first, byAuthor[0].ID)

	// фильтр по избранному
	favorites, err := storage.ListRecipes(ctx, models.RecipeFilter{FavoritedBy: bob}, 10, 0)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, first, favorites[0].ID)

	// комбинация фильтров без пересечения
	none, err := storage.ListRecipes(ctx, models.RecipeFilter{AuthorUID: bob, FavoritedBy: bob}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStorage_ListIngredients(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	factory.CreateIngredient(t, "Мука", "г")
	factory.CreateIngredient(t, "Молоко", "мл")
	factory.CreateIngredient(t, "Сахар", "г")

	all, err := storage.ListIngredients(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// поиск по началу названия
	byPrefix, err := storage.ListIngredients(ctx, "Мо", 10, 0)
	require.NoError(t, err)
	require.Len(t, byPrefix, 1)
	assert.Equal(t, "Молоко", byPrefix[0].Name)

	_, err = storage.ReadIngredient(ctx, 99999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
