// Package foodgram предоставляет маршруты для основного приложения.
package foodgram

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/foodgram-backend/internal/config"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/auth/register"
	ingredientlist "github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/ingredient/list"
	ingredientread "github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/ingredient/read"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/recipe/create"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/recipe/health"
	recipelist "github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/recipe/list"
	reciperead "github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/recipe/read"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/recipe/remove"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/recipe/update"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/relation/cart"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/relation/favorite"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/user/avatar"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/user/subscribe"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/handlers/user/subscriptions"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/foodgram-backend/internal/services/auth"
	ingredientservice "github.com/magabrotheeeer/foodgram-backend/internal/services/ingredient"
	recipeservice "github.com/magabrotheeeer/foodgram-backend/internal/services/recipe"
	userservice "github.com/magabrotheeeer/foodgram-backend/internal/services/user"
	"github.com/magabrotheeeer/foodgram-backend/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, db *repository.Storage,
	authService *authservice.AuthService, userService *userservice.UserService,
	recipeService *recipeservice.RecipeService, ingredientService *ingredientservice.IngredientService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Чтение доступно и анонимно, токен учитывается при наличии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.MaybeJWTMiddleware(authService, logger))
			r.Get("/recipes", recipelist.New(logger, recipeService, cfg.DefaultPageSize).ServeHTTP)
			r.Get("/recipes/{id}", reciperead.New(logger, recipeService).ServeHTTP)
			r.Get("/users/{uid}", profile.New(logger, userService).ServeHTTP)
			r.Get("/ingredients", ingredientlist.New(logger, ingredientService, cfg.DefaultPageSize).ServeHTTP)
			r.Get("/ingredients/{id}", ingredientread.New(logger, ingredientService).ServeHTTP)
		})

		// Группа с обязательной JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users/me", profile.New(logger, userService).ServeHTTP)
			avatarHandler := avatar.New(logger, userService)
			r.Put("/users/me/avatar", avatarHandler.Set)
			r.Delete("/users/me/avatar", avatarHandler.Delete)

			subscribeHandler := subscribe.New(logger, userService)
			r.Post("/users/{uid}/subscribe", subscribeHandler.Subscribe)
			r.Delete("/users/{uid}/subscribe", subscribeHandler.Unsubscribe)
			r.Get("/users/subscriptions", subscriptions.New(logger, userService, cfg.DefaultPageSize).ServeHTTP)

			r.Post("/recipes", create.New(logger, recipeService).ServeHTTP)
			r.Patch("/recipes/{id}", update.New(logger, recipeService).ServeHTTP)
			r.Delete("/recipes/{id}", remove.New(logger, recipeService).ServeHTTP)

			favoriteHandler := favorite.New(logger, recipeService)
			r.Post("/recipes/{id}/favorite", favoriteHandler.Add)
			r.Delete("/recipes/{id}/favorite", favoriteHandler.Remove)

			cartHandler := cart.New(logger, recipeService)
			r.Post("/recipes/{id}/shopping_cart", cartHandler.Add)
			r.Delete("/recipes/{id}/shopping_cart", cartHandler.Remove)
		})
	})

	// Раздача загруженных изображений
	fileServer := http.StripPrefix(cfg.Media.BaseURL+"/", http.FileServer(http.Dir(cfg.Media.Dir)))
	r.Get(cfg.Media.BaseURL+"/*", fileServer.ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
