// Package list реализует HTTP-обработчик получения списка рецептов.
//
// Handler разбирает параметры фильтрации из строки запроса, вызывает
// бизнес-логику и возвращает рецепты от новых к старым. Фильтры по
// избранному и корзине действуют только для авторизованного запрашивающего.
package list

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

// Handler обрабатывает запросы на получение списка рецептов.
type Handler struct {
	log             *slog.Logger
	service         Service
	defaultPageSize int
}

// Service описывает интерфейс бизнес-логики списка рецептов.
type Service interface {
	List(ctx context.Context, callerUID, authorUID string, isFavorited, isInCart bool, limit, offset int) ([]models.RecipeView, error)
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
// @Summary Получить список рецептов
// @Description Возвращает рецепты от новых к старым с фильтрами по автору, избранному и корзине.
// @Tags Recipes
// @Produce  json
// @Param author query string false "UID автора"
// @Param is_favorited query string false "Только избранные (true или 1)"
// @Param is_in_shopping_cart query string false "Только из корзины (true или 1)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список рецептов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /recipes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	query := r.URL.Query()
	limit := h.defaultPageSize
	if parsed, err := strconv.Atoi(query.Get("limit")); err == nil && parsed > 0 {
		limit = parsed
	}
	offset := 0
	if parsed, err := strconv.Atoi(query.Get("offset")); err == nil && parsed > 0 {
		offset = parsed
	}

	recipes, err := h.service.List(r.Context(), callerUID,
		query.Get("author"),
		boolParam(query.Get("is_favorited")),
		boolParam(query.Get("is_in_shopping_cart")),
		limit, offset)
	if err != nil {
		log.Error("failed to list recipes", sl.Err(err))
		response.RenderError(w, r, err, "could not list recipes")
		return
	}

	log.Info("success to list recipes", slog.Int("count", len(recipes)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recipes": recipes,
	}))
}

// boolParam разбирает булев параметр фильтра, принимая true/True/1.
// Пустое или неразборчивое значение трактуется как false.
func boolParam(raw string) bool {
	parsed, err := strconv.ParseBool(raw)
	return err == nil && parsed
}
