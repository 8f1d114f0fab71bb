// Package login реализует HTTP-обработчик входа пользователя по email и паролю.
//
// Handler валидирует данные входа, вызывает бизнес-логику аутентификации
// и возвращает JWT токен для дальнейших запросов.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/response"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/sl"
	"github.com/magabrotheeeer/foodgram-backend/internal/lib/validation"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// Handler управляет HTTP-запросами на вход пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
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
// @Summary Войти по email и паролю
// @Description Проверяет учетные данные и возвращает JWT токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginRequest true "Данные входа"
// @Success 200 {object} map[string]any "Токен выдан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при входе"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
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

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.RenderError(w, r, err, "failed to login")
		return
	}

	log.Info("user logged in", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"auth_token": token,
	}))
}
