// Package foodgram собирает приложение рецептурного сервиса: хранилище,
// кеш, миграции, бизнес-логику и HTTP-сервер.
package foodgram

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/foodgram-backend/internal/cache"
	"github.com/magabrotheeeer/foodgram-backend/internal/config"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/imagestore"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/foodgram-backend/internal/migrations"
	authservice "github.com/magabrotheeeer/foodgram-backend/internal/services/auth"
	ingredientservice "github.com/magabrotheeeer/foodgram-backend/internal/services/ingredient"
	recipeservice "github.com/magabrotheeeer/foodgram-backend/internal/services/recipe"
	userservice "github.com/magabrotheeeer/foodgram-backend/internal/services/user"
	"github.com/magabrotheeeer/foodgram-backend/internal/storage/repository"
)

// App объединяет HTTP-сервер и подключения к внешним зависимостям.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New создает приложение: подключает PostgreSQL и Redis, прогоняет миграции,
// собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	images, err := imagestore.New(cfg.Media.Dir, cfg.Media.BaseURL)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	userService := userservice.NewUserService(db, db, db, images, cfg.Limits, logger)
	recipeService := recipeservice.NewRecipeService(db, db, db, db, cacheRedis, images, cfg.Limits, logger)
	ingredientService := ingredientservice.NewIngredientService(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db,
		authService, userService, recipeService, ingredientService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
