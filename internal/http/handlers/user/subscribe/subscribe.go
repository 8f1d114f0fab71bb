// Package subscribe реализует HTTP-обработчики подписки и отписки от автора.
//
// Подписка направленная: пользователь подписывается на автора по его UID.
// Повторная подписка и подписка на самого себя отклоняются.
package subscribe

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/foodgram-backend/internal/http/response"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// Handler обрабатывает запросы на подписку и отписку от автора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подписок.
type Service interface {
	Subscribe(ctx context.Context, userUID, authorUID string) (*models.AuthorWithRecipes, error)
	Unsubscribe(ctx context.Context, userUID, authorUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// Subscribe godoc
// @Summary Подписаться на автора
// @Description Подписывает текущего пользователя на автора и возвращает автора с его рецептами.
// @Tags Subscriptions
// @Produce  json
// @Param uid path string true "UID автора"
// @Success 200 {object} map[string]any "Автор с рецептами"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Автор не найден"
// @Failure 409 {object} response.ErrorResponse "Подписка уже существует или на самого себя"
// @Router /users/{uid}/subscribe [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.subscribe"

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
	authorUID := chi.URLParam(r, "uid")

	author, err := h.service.Subscribe(r.Context(), userUID, authorUID)
	if err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		response.RenderError(w, r, err, "could not subscribe")
		return
	}

	log.Info("success to subscribe", slog.String("author_uid", authorUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"author": author,
	}))
}

// Unsubscribe godoc
// @Summary Отписаться от автора
// @Description Удаляет подписку текущего пользователя на автора.
// @Tags Subscriptions
// @Produce  json
// @Param uid path string true "UID автора"
// @Success 200 {object} response.Response "Подписка удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Router /users/{uid}/subscribe [delete]
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.unsubscribe"

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
	authorUID := chi.URLParam(r, "uid")

	if err := h.service.Unsubscribe(r.Context(), userUID, authorUID); err != nil {
		log.Error("failed to unsubscribe", sl.Err(err))
		response.RenderError(w, r, err, "could not unsubscribe")
		return
	}

	log.Info("success to unsubscribe", slog.String("author_uid", authorUID))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
