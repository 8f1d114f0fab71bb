// Package subscriptions реализует HTTP-обработчик списка подписок
// текущего пользователя. Каждый автор возвращается вместе с общим числом
// рецептов и их сокращённым списком, ограниченным параметром recipes_limit.
package subscriptions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/response"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// Handler обрабатывает запросы на получение списка подписок.
type Handler struct {
	log             *slog.Logger
	service         Service
	defaultPageSize int
}

// Service описывает интерфейс бизнес-логики списка подписок.
type Service interface {
	ListSubscriptions(ctx context.Context, userUID, recipesLimitRaw string, limit, offset int) ([]models.AuthorWithRecipes, error)
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
// @Summary Получить список подписок
// @Description Возвращает авторов, на которых подписан текущий пользователь, с их рецептами.
// @Tags Subscriptions
// @Produce  json
// @Param recipes_limit query string false "Максимум рецептов на автора"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список авторов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.subscriptions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	limit := h.defaultPageSize
	if parsed, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && parsed > 0 {
		limit = parsed
	}
	offset := 0
	if parsed, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && parsed > 0 {
		offset = parsed
	}

	authors, err := h.service.ListSubscriptions(r.Context(), userUID,
		r.URL.Query().Get("recipes_limit"), limit, offset)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.RenderError(w, r, err, "could not list subscriptions")
		return
	}

	log.Info("success to list subscriptions", slog.Int("count", len(authors)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"authors": authors,
	}))
}
