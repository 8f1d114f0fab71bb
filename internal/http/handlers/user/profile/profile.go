// Package profile реализует HTTP-обработчик чтения профиля пользователя.
//
// Handler обслуживает как чужие профили по UID, так и собственный профиль
// по пути /users/me. Флаг is_subscribed вычисляется относительно
// запрашивающего.
package profile

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

// Handler обрабатывает запросы на чтение профиля пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	GetProfile(ctx context.Context, targetUID, callerUID string) (*models.UserView, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить профиль пользователя
// @Description Возвращает профиль по UID. Путь /users/me возвращает профиль текущего пользователя.
// @Tags Users
// @Produce  json
// @Param uid path string true "UID пользователя или me"
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	// маршрут /users/me регистрируется без URL-параметра
	targetUID := chi.URLParam(r, "uid")
	if targetUID == "" || targetUID == "me" {
		if callerUID == "" {
			log.Error("user identification missing")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		targetUID = callerUID
	}

	view, err := h.service.GetProfile(r.Context(), targetUID, callerUID)
	if err != nil {
		log.Error("failed to read profile", sl.Err(err))
		response.RenderError(w, r, err, "could not read profile")
		return
	}

	log.Info("success to read profile", slog.String("uid", targetUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": view,
	}))
}
