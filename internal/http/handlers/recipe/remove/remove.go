package remove

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
)

// Handler обрабатывает запросы на удаление рецепта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления рецепта.
type Service interface {
	Remove(ctx context.Context, id int, callerUID string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить рецепт
// @Description Удаляет рецепт. Удалять рецепт может только его автор.
// @Tags Recipes
// @Produce  json
// @Param id path int true "ID рецепта"
// @Success 200 {object} response.Response "Рецепт удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Запрашивающий не является автором"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /recipes/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	callerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || callerUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), id, callerUID); err != nil {
		log.Error("failed to delete recipe", sl.Err(err))
		response.RenderError(w, r, err, "could not delete recipe")
		return
	}

	log.Info("success to delete recipe", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
