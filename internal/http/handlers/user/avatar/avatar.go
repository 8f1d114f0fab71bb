// Package avatar реализует HTTP-обработчики установки и удаления аватара
// текущего пользователя. Аватар принимается в виде закодированной строки
// data:image/...;base64,... и раздаётся обратно как URL.
package avatar

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

// Handler обрабатывает запросы на установку и удаление аватара.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики работы с аватаром.
type Service interface {
	SetAvatar(ctx context.Context, userUID, payload string) (string, error)
	DeleteAvatar(ctx context.Context, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// Set godoc
// @Summary Установить аватар
// @Description Сохраняет закодированное изображение как аватар текущего пользователя и возвращает его URL.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.AvatarRequest true "Закодированное изображение"
// @Success 200 {object} map[string]any "URL аватара"
// @Failure 400 {object} response.ErrorResponse "Некорректное изображение"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/me/avatar [put]
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.avatar.set"

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

	var req models.AvatarRequest
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

	url, err := h.service.SetAvatar(r.Context(), userUID, req.Avatar)
	if err != nil {
		log.Error("failed to set avatar", sl.Err(err))
		response.RenderError(w, r, err, "could not set avatar")
		return
	}

	log.Info("avatar updated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"avatar": url,
	}))
}

// Delete godoc
// @Summary Удалить аватар
// @Description Удаляет аватар текущего пользователя.
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response "Аватар удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/me/avatar [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.avatar.delete"

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

	if err := h.service.DeleteAvatar(r.Context(), userUID); err != nil {
		log.Error("failed to delete avatar", sl.Err(err))
		response.RenderError(w, r, err, "could not delete avatar")
		return
	}

	log.Info("avatar deleted", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
