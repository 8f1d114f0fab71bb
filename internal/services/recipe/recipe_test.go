package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/config"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/imagestore"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

type RecipeRepoMock struct{ mock.Mock }

func (m *RecipeRepoMock) CreateRecipe(ctx context.Context, recipe models.Recipe) (int, error) {
	args := m.Called(ctx, recipe)
	return args.Int(0), args.Error(1)
}
func (m *RecipeRepoMock) UpdateRecipe(ctx context.Context, recipe models.Recipe) error {
	return m.Called(ctx, recipe).Error(0)
}
func (m *RecipeRepoMock) RemoveRecipe(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RecipeRepoMock) ReadRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}
func (m *RecipeRepoMock) GetRecipeAuthor(ctx context.Context, id int) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
func (m *RecipeRepoMock) ListRecipes(ctx context.Context, filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

type RelationRepoMock struct{ mock.Mock }

func (m *RelationRepoMock) AddFavorite(ctx context.Context, userUID string, recipeID int) error {
	return m.Called(ctx, userUID, recipeID).Error(0)
}
func (m *RelationRepoMock) RemoveFavorite(ctx context.Context, userUID string, recipeID int) error {
	return m.Called(ctx, userUID, recipeID).Error(0)
}
func (m *RelationRepoMock) IsFavorited(ctx context.Context, userUID string, recipeID int) (bool, error) {
	args := m.Called(ctx, userUID, recipeID)
	return args.Bool(0), args.Error(1)
}
func (m *RelationRepoMock) AddCartItem(ctx context.Context, userUID string, recipeID int) error {
	return m.Called(ctx, userUID, recipeID).Error(0)
}
func (m *RelationRepoMock) RemoveCartItem(ctx context.Context, userUID string, recipeID int) error {
	return m.Called(ctx, userUID, recipeID).Error(0)
}
func (m *RelationRepoMock) IsInCart(ctx context.Context, userUID string, recipeID int) (bool, error) {
	args := m.Called(ctx, userUID, recipeID)
	return args.Bool(0), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type SubsRepoMock struct{ mock.Mock }

func (m *SubsRepoMock) IsSubscribed(ctx context.Context, userUID, authorUID string) (bool, error) {
	args := m.Called(ctx, userUID, authorUID)
	return args.Bool(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testLimits() config.Limits {
	return config.Limits{
		MinCookingTime:      1,
		MinIngredientAmount: 1,
		DefaultRecipesLimit: 3,
		DefaultPageSize:     10,
	}
}

func newTestService(t *testing.T, recipes *RecipeRepoMock, relations *RelationRepoMock,
	users *UserRepoMock, subs *SubsRepoMock, cache *CacheMock) *RecipeService {
	images, err := imagestore.New(t.TempDir(), "/media")
	require.NoError(t, err)
	return NewRecipeService(recipes, relations, users, subs, cache, images, testLimits(), newNoopLogger())
}

func TestRecipeService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.RecipeWriteRequest
	}{
		{
			name: "empty ingredients",
			req: models.RecipeWriteRequest{
				Name: "Блины", Text: "text", CookingTime: 10,
				Image: "data:image/png;base64,aGk=",
			},
		},
		{
			name: "duplicate ingredient",
			req: models.RecipeWriteRequest{
				Name: "Блины", Text: "text", CookingTime: 10,
				Image: "data:image/png;base64,aGk=",
				Ingredients: []models.IngredientAmount{
					{ID: 1, Amount: 100},
					{ID: 1, Amount: 50},
				},
			},
		},
		{
			name: "amount below minimum",
			req: models.RecipeWriteRequest{
				Name: "Блины", Text: "text", CookingTime: 10,
				Image: "data:image/png;base64,aGk=",
				Ingredients: []models.IngredientAmount{
					{ID: 1, Amount: 0},
				},
			},
		},
		{
			name: "cooking time below minimum",
			req: models.RecipeWriteRequest{
				Name: "Блины", Text: "text", CookingTime: 0,
				Image: "data:image/png;base64,aGk=",
				Ingredients: []models.IngredientAmount{
					{ID: 1, Amount: 100},
				},
			},
		},
		{
			name: "missing image",
			req: models.RecipeWriteRequest{
				Name: "Блины", Text: "text", CookingTime: 10,
				Ingredients: []models.IngredientAmount{
					{ID: 1, Amount: 100},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes := new(RecipeRepoMock)
			service := newTestService(t, recipes, new(RelationRepoMock),
				new(UserRepoMock), new(SubsRepoMock), new(CacheMock))

			_, err := service.Create(context.Background(), "author-uid", tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			recipes.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything)
		})
	}
}

func TestRecipeService_Update_PermissionDenied(t *testing.T) {
	recipes := new(RecipeRepoMock)
	recipes.On("GetRecipeAuthor", mock.Anything, 7).Return("author-uid", nil).Once()

	service := newTestService(t, recipes, new(RelationRepoMock),
		new(UserRepoMock), new(SubsRepoMock), new(CacheMock))

	_, err := service.Update(context.Background(), 7, "other-uid", models.RecipeWriteRequest{
		Name: "Блины", Text: "text", CookingTime: 10,
		Ingredients: []models.IngredientAmount{{ID: 1, Amount: 100}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
	recipes.AssertNotCalled(t, "UpdateRecipe", mock.Anything, mock.Anything)
	recipes.AssertExpectations(t)
}

func TestRecipeService_Remove_PermissionDenied(t *testing.T) {
	recipes := new(RecipeRepoMock)
	recipes.On("ReadRecipe", mock.Anything, 7).Return(&models.Recipe{
		ID: 7, AuthorUID: "author-uid", Name: "Блины",
	}, nil).Once()

	service := newTestService(t, recipes, new(RelationRepoMock),
		new(UserRepoMock), new(SubsRepoMock), new(CacheMock))

	err := service.Remove(context.Background(), 7, "other-uid")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
	recipes.AssertNotCalled(t, "RemoveRecipe", mock.Anything, mock.Anything)
	recipes.AssertExpectations(t)
}

func TestRecipeService_Read_CacheHit(t *testing.T) {
	recipes := new(RecipeRepoMock)
	cache := new(CacheMock)
	users := new(UserRepoMock)

	cached := &models.Recipe{ID: 5, AuthorUID: "author-uid", Name: "Блины", CookingTime: 20}
	cache.On("Get", "recipe:5", mock.Anything).Run(func(args mock.Arguments) {
		ptr := args.Get(1).(**models.Recipe)
		*ptr = cached
	}).Return(true, nil).Once()
	users.On("GetUser", mock.Anything, "author-uid").Return(&models.User{
		UID: "author-uid", Username: "author",
	}, nil).Once()

	service := newTestService(t, recipes, new(RelationRepoMock), users, new(SubsRepoMock), cache)

	view, err := service.Read(context.Background(), 5, "")
	require.NoError(t, err)
	assert.Equal(t, "Блины", view.Name)
	assert.Equal(t, "author", view.Author.Username)
	recipes.AssertNotCalled(t, "ReadRecipe", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestRecipeService_Read_FlagsFailOpen(t *testing.T) {
	recipes := new(RecipeRepoMock)
	relations := new(RelationRepoMock)
	users := new(UserRepoMock)
	subs := new(SubsRepoMock)
	cache := new(CacheMock)

	recipe := &models.Recipe{ID: 5, AuthorUID: "author-uid", Name: "Блины"}
	cache.On("Get", "recipe:5", mock.Anything).Return(false, nil).Once()
	cache.On("Set", "recipe:5", mock.Anything, time.Hour).Return(nil).Once()
	recipes.On("ReadRecipe", mock.Anything, 5).Return(recipe, nil).Once()
	users.On("GetUser", mock.Anything, "author-uid").Return(&models.User{UID: "author-uid"}, nil).Once()
	subs.On("IsSubscribed", mock.Anything, "reader-uid", "author-uid").Return(true, nil).Once()

	// отказ проверок флагов не прерывает ответ
	relations.On("IsFavorited", mock.Anything, "reader-uid", 5).Return(false, errors.New("db down")).Once()
	relations.On("IsInCart", mock.Anything, "reader-uid", 5).Return(false, errors.New("db down")).Once()

	service := newTestService(t, recipes, relations, users, subs, cache)

	view, err := service.Read(context.Background(), 5, "reader-uid")
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.True(t, view.Author.IsSubscribed)
	relations.AssertExpectations(t)
}

func TestRecipeService_List_AnonymousIgnoresFlags(t *testing.T) {
	recipes := new(RecipeRepoMock)
	recipes.On("ListRecipes", mock.Anything, models.RecipeFilter{}, 10, 0).
		Return([]*models.Recipe{}, nil).Once()

	service := newTestService(t, recipes, new(RelationRepoMock),
		new(UserRepoMock), new(SubsRepoMock), new(CacheMock))

	// флаги избранного и корзины для анонимного запроса не применяются
	result, err := service.List(context.Background(), "", "", true, true, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, result)
	recipes.AssertExpectations(t)
}

func TestRecipeService_List_AuthenticatedAppliesFlags(t *testing.T) {
	recipes := new(RecipeRepoMock)
	recipes.On("ListRecipes", mock.Anything, models.RecipeFilter{
		FavoritedBy: "reader-uid",
		InCartOf:    "reader-uid",
	}, 10, 0).Return([]*models.Recipe{}, nil).Once()

	service := newTestService(t, recipes, new(RelationRepoMock),
		new(UserRepoMock), new(SubsRepoMock), new(CacheMock))

	result, err := service.List(context.Background(), "reader-uid", "", true, true, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, result)
	recipes.AssertExpectations(t)
}

func TestRecipeService_AddFavorite(t *testing.T) {
	recipes := new(RecipeRepoMock)
	relations := new(RelationRepoMock)
	cache := new(CacheMock)

	recipe := &models.Recipe{ID: 5, AuthorUID: "author-uid", Name: "Блины", ImagePath: "p.png", CookingTime: 20}
	cache.On("Get", "recipe:5", mock.Anything).Return(false, nil).Once()
	cache.On("Set", "recipe:5", mock.Anything, time.Hour).Return(nil).Once()
	recipes.On("ReadRecipe", mock.Anything, 5).Return(recipe, nil).Once()
	relations.On("AddFavorite", mock.Anything, "reader-uid", 5).Return(nil).Once()

	service := newTestService(t, recipes, relations, new(UserRepoMock), new(SubsRepoMock), cache)

	short, err := service.AddFavorite(context.Background(), "reader-uid", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, short.ID)
	assert.Equal(t, "Блины", short.Name)
	assert.Equal(t, "/media/p.png", short.Image)
	assert.Equal(t, 20, short.CookingTime)
	relations.AssertExpectations(t)
}

func TestRecipeService_Remove_InvalidatesCache(t *testing.T) {
	recipes := new(RecipeRepoMock)
	cache := new(CacheMock)

	recipe := &models.Recipe{ID: 5, AuthorUID: "author-uid", Name: "Блины"}
	recipes.On("ReadRecipe", mock.Anything, 5).Return(recipe, nil).Once()
	recipes.On("RemoveRecipe", mock.Anything, 5).Return(nil).Once()
	cache.On("Invalidate", "recipe:5").Return(nil).Once()

	service := newTestService(t, recipes, new(RelationRepoMock),
		new(UserRepoMock), new(SubsRepoMock), cache)

	err := service.Remove(context.Background(), 5, "author-uid")
	require.NoError(t, err)
	cache.AssertExpectations(t)
	recipes.AssertExpectations(t)
}
