// Package read реализует HTTP-обработчик получения рецепта по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику чтения
// рецепта и возвращает его представление. Флаги избранного и корзины
// вычисляются относительно запрашивающего.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/response"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// Handler обрабатывает запросы на получение рецепта по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения рецепта.
type Service interface {
	Read(ctx context.Context, id int, callerUID string) (*models.RecipeView, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить рецепт
// @Description Возвращает рецепт по ID. Доступен без авторизации.
// @Tags Recipes
// @Produce  json
// @Param id path int true "ID рецепта"
// @Success 200 {object} map[string]any "Рецепт"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /recipes/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.read"

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

	callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	view, err := h.service.Read(r.Context(), id, callerUID)
	if err != nil {
		log.Error("failed to read recipe", sl.Err(err))
		response.RenderError(w, r, err, "could not read recipe")
		return
	}

	log.Info("success to read recipe", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recipe": view,
	}))
}
