// Package update реализует HTTP-обработчик обновления рецепта.
//
// Handler валидирует данные, проверяет через бизнес-логику, что запрашивающий
// является автором, и возвращает обновлённое представление рецепта.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/response"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/validation"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// Handler управляет HTTP-запросами на обновление рецептов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления рецепта.
type Service interface {
	Update(ctx context.Context, id int, callerUID string, req models.RecipeWriteRequest) (*models.RecipeView, error)
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
// @Summary Обновить рецепт
// @Description Обновляет рецепт. Изменять рецепт может только его автор. Строки ингредиентов заменяются целиком.
// @Tags Recipes
// @Accept  json
// @Produce  json
// @Param id path int true "ID рецепта"
// @Param request body models.RecipeWriteRequest true "Новые данные рецепта"
// @Success 200 {object} map[string]any "Обновленный рецепт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или нарушение доменных правил"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Запрашивающий не является автором"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /recipes/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var req models.RecipeWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	callerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || callerUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	view, err := h.service.Update(r.Context(), id, callerUID, req)
	if err != nil {
		log.Error("failed to update recipe", sl.Err(err))
		response.RenderError(w, r, err, "could not update recipe")
		return
	}

	log.Info("success to update recipe", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recipe": view,
	}))
}
