// Package read реализует HTTP-обработчик получения ингредиента по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/response"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// Handler обрабатывает запросы на получение ингредиента по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения ингредиента.
type Service interface {
	Read(ctx context.Context, id int) (*models.Ingredient, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить ингредиент
// @Description Возвращает запись справочника по ID.
// @Tags Ingredients
// @Produce  json
// @Param id path int true "ID ингредиента"
// @Success 200 {object} map[string]any "Ингредиент"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Ингредиент не найден"
// @Router /ingredients/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ingredient.read"

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

	ingredient, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read ingredient", sl.Err(err))
		response.RenderError(w, r, err, "could not read ingredient")
		return
	}

	log.Info("success to read ingredient", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"ingredient": ingredient,
	}))
}
