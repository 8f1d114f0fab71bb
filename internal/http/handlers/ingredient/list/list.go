// Package list реализует HTTP-обработчик получения справочника ингредиентов.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/response"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// Handler обрабатывает запросы на получение списка ингредиентов.
type Handler struct {
	log             *slog.Logger
	service         Service
	defaultPageSize int
}

// Service описывает интерфейс бизнес-логики справочника ингредиентов.
type Service interface {
	List(ctx context.Context, name string, limit, offset int) ([]models.Ingredient, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service, defaultPageSize int) *Handler {
	return &Handler{
		log:             log,
		service:         service,
		defaultPageSize: defaultPageSize,
	}
}

// ServeHTTP godoc
// @Summary Получить список ингредиентов
// @Description Возвращает ингредиенты справочника. Параметр name сужает выборку по началу названия.
// @Tags Ingredients
// @Produce  json
// @Param name query string false "Начало названия"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список ингредиентов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ingredients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ingredient.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	limit := h.defaultPageSize
	if parsed, err := strconv.Atoi(query.Get("limit")); err == nil && parsed > 0 {
		limit = parsed
	}
	offset := 0
	if parsed, err := strconv.Atoi(query.Get("offset")); err == nil && parsed > 0 {
		offset = parsed
	}

	ingredients, err := h.service.List(r.Context(), query.Get("name"), limit, offset)
	if err != nil {
		log.Error("failed to list ingredients", sl.Err(err))
		response.RenderError(w, r, err, "could not list ingredients")
		return
	}

	log.Info("success to list ingredients", slog.Int("count", len(ingredients)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"ingredients": ingredients,
	}))
}
