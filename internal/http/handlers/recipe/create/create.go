// Package create реализует HTTP-обработчик создания нового рецепта.
//
// Handler принимает JSON-запрос с данными рецепта, валидирует их, извлекает
// UID автора из контекста, вызывает бизнес-логику создания рецепта и
// возвращает его полное представление.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/response"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/validation"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// Handler управляет HTTP-запросами на создание рецептов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания рецепта.
type Service interface {
	Create(ctx context.Context, authorUID string, req models.RecipeWriteRequest) (*models.RecipeView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новый рецепт
// @Description Создает рецепт от имени текущего пользователя. Возвращает полное представление рецепта.
// @Tags Recipes
// @Accept  json
// @Produce  json
// @Param request body models.RecipeWriteRequest true "Данные нового рецепта"
// @Success 200 {object} map[string]any "Созданный рецепт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или нарушение доменных правил"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании рецепта"
// @Router /recipes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RecipeWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	authorUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || authorUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	view, err := h.service.Create(r.Context(), authorUID, req)
	if err != nil {
		log.Error("failed to create recipe", sl.Err(err))
		response.RenderError(w, r, err, "could not create recipe")
		return
	}

	log.Info("success to create recipe", slog.Int("id", view.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recipe": view,
	}))
}
