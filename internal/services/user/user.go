// Package services содержит бизнес-логику профилей, аватаров и подписок на авторов.
package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/config"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/imagestore"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateAvatar сохраняет относительный путь аватара, пустой путь удаляет аватар.
	UpdateAvatar(ctx context.Context, userUID, avatarPath string) error
}

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет подписку пользователя на автора.
	CreateSubscription(ctx context.Context, userUID, authorUID string) error
	// RemoveSubscription удаляет подписку пользователя на автора.
	RemoveSubscription(ctx context.Context, userUID, authorUID string) error
	// IsSubscribed сообщает, подписан ли пользователь на автора.
	IsSubscribed(ctx context.Context, userUID, authorUID string) (bool, error)
	// ListSubscribedAuthors возвращает авторов подписок с пагинацией.
	ListSubscribedAuthors(ctx context.Context, userUID string, limit, offset int) ([]*models.User, error)
}

// RecipeRepository определяет методы чтения рецептов автора для списка подписок.
type RecipeRepository interface {
	// ListAuthorRecipes возвращает не более limit рецептов автора.
	ListAuthorRecipes(ctx context.Context, authorUID string, limit int) ([]*models.Recipe, error)
	// CountAuthorRecipes возвращает общее число рецептов автора.
	CountAuthorRecipes(ctx context.Context, authorUID string) (int, error)
}

// UserService реализует бизнес-логику профилей и подписок.
type UserService struct {
	users   UserRepository
	subs    SubscriptionRepository
	recipes RecipeRepository
	images  *imagestore.Store
	limits  config.Limits
	log     *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, subs SubscriptionRepository, recipes RecipeRepository,
	images *imagestore.Store, limits config.Limits, log *slog.Logger) *UserService {
	return &UserService{
		users:   users,
		subs:    subs,
		recipes: recipes,
		images:  images,
		limits:  limits,
		log:     log,
	}
}

// GetProfile возвращает представление пользователя для запрашивающего.
// Для анонимного запроса и собственного профиля IsSubscribed всегда false.
func (s *UserService) GetProfile(ctx context.Context, targetUID, callerUID string) (*models.UserView, error) {
	user, err := s.users.GetUser(ctx, targetUID)
	if err != nil {
		return nil, err
	}
	view := s.userView(user)
	if callerUID != "" && callerUID != targetUID {
		subscribed, err := s.subs.IsSubscribed(ctx, callerUID, targetUID)
		if err != nil {
			return nil, err
		}
		view.IsSubscribed = subscribed
	}
	return &view, nil
}

// SetAvatar сохраняет закодированное изображение как аватар пользователя
// и возвращает URL. Прежний файл аватара удаляется с диска.
func (s *UserService) SetAvatar(ctx context.Context, userUID, payload string) (string, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}

	path, err := s.images.Save(payload)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateAvatar(ctx, userUID, path); err != nil {
		if removeErr := s.images.Remove(path); removeErr != nil {
			s.log.Warn("failed to remove orphan avatar file", sl.Err(removeErr))
		}
		return "", err
	}

	if err := s.images.Remove(user.AvatarPath); err != nil {
		s.log.Warn("failed to remove previous avatar file", sl.Err(err))
	}
	s.log.Info("updated avatar", slog.String("user_uid", userUID))
	return s.images.URL(path), nil
}

// DeleteAvatar удаляет аватар пользователя.
func (s *UserService) DeleteAvatar(ctx context.Context, userUID string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateAvatar(ctx, userUID, ""); err != nil {
		return err
	}
	if err := s.images.Remove(user.AvatarPath); err != nil {
		s.log.Warn("failed to remove avatar file", sl.Err(err))
	}
	return nil
}

// Subscribe подписывает пользователя на автора и возвращает представление
// автора с его рецептами. Подписка на самого себя запрещена.
func (s *UserService) Subscribe(ctx context.Context, userUID, authorUID string) (*models.AuthorWithRecipes, error) {
	if userUID == authorUID {
		return nil, apperr.Conflict("cannot subscribe to yourself")
	}
	author, err := s.users.GetUser(ctx, authorUID)
	if err != nil {
		return nil, err
	}
	if err := s.subs.CreateSubscription(ctx, userUID, authorUID); err != nil {
		return nil, err
	}
	s.log.Info("created subscription",
		slog.String("user_uid", userUID), slog.String("author_uid", authorUID))
	return s.authorWithRecipes(ctx, author, s.limits.DefaultRecipesLimit)
}

// Unsubscribe отписывает пользователя от автора.
func (s *UserService) Unsubscribe(ctx context.Context, userUID, authorUID string) error {
	return s.subs.RemoveSubscription(ctx, userUID, authorUID)
}

// ListSubscriptions возвращает авторов, на которых подписан пользователь,
// вместе с их рецептами. recipesLimitRaw ограничивает число рецептов на
// автора: нечисловое значение заменяется настройкой по умолчанию,
// отрицательное трактуется как ноль.
func (s *UserService) ListSubscriptions(ctx context.Context, userUID, recipesLimitRaw string, limit, offset int) ([]models.AuthorWithRecipes, error) {
	recipesLimit := s.limits.DefaultRecipesLimit
	if recipesLimitRaw != "" {
		if parsed, err := strconv.Atoi(recipesLimitRaw); err == nil {
			recipesLimit = parsed
		}
	}
	if recipesLimit < 0 {
		recipesLimit = 0
	}

	authors, err := s.subs.ListSubscribedAuthors(ctx, userUID, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]models.AuthorWithRecipes, 0, len(authors))
	for _, author := range authors {
		item, err := s.authorWithRecipes(ctx, author, recipesLimit)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, nil
}

// authorWithRecipes собирает представление автора из списка подписок.
// IsSubscribed здесь всегда true: автор попал в выборку именно по подписке.
func (s *UserService) authorWithRecipes(ctx context.Context, author *models.User, recipesLimit int) (*models.AuthorWithRecipes, error) {
	count, err := s.recipes.CountAuthorRecipes(ctx, author.UID)
	if err != nil {
		return nil, err
	}

	shorts := make([]models.RecipeShortView, 0, recipesLimit)
	if recipesLimit > 0 {
		recipes, err := s.recipes.ListAuthorRecipes(ctx, author.UID, recipesLimit)
		if err != nil {
			return nil, err
		}
		for _, recipe := range recipes {
			shorts = append(shorts, models.RecipeShortView{
				ID:          recipe.ID,
				Name:        recipe.Name,
				Image:       s.images.URL(recipe.ImagePath),
				CookingTime: recipe.CookingTime,
			})
		}
	}

	view := s.userView(author)
	view.IsSubscribed = true
	return &models.AuthorWithRecipes{
		UserView:     view,
		RecipesCount: count,
		Recipes:      shorts,
	}, nil
}

func (s *UserService) userView(user *models.User) models.UserView {
	return models.UserView{
		UID:       user.UID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    s.images.URL(user.AvatarPath),
	}
}
