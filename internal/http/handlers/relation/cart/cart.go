// Package cart реализует HTTP-обработчики добавления и удаления рецепта
// из списка покупок текущего пользователя.
package cart

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

// Handler обрабатывает запросы на добавление и удаление из списка покупок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка покупок.
type Service interface {
	AddToCart(ctx context.Context, callerUID string, id int) (*models.RecipeShortView, error)
	RemoveFromCart(ctx context.Context, callerUID string, id int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// Add godoc
// @Summary Добавить рецепт в список покупок
// @Description Добавляет рецепт в список покупок текущего пользователя и возвращает его сокращённое представление.
// @Tags ShoppingCart
// @Produce  json
// @Param id path int true "ID рецепта"
// @Success 200 {object} map[string]any "Сокращённый рецепт"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Failure 409 {object} response.ErrorResponse "Рецепт уже в списке покупок"
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.relation.cart.add"
	h.handle(w, r, op, "failed to add to shopping cart", h.service.AddToCart)
}

// Remove godoc
// @Summary Удалить рецепт из списка покупок
// @Description Удаляет рецепт из списка покупок текущего пользователя.
// @Tags ShoppingCart
// @Produce  json
// @Param id path int true "ID рецепта"
// @Success 200 {object} response.Response "Рецепт удален из списка покупок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Рецепт не в списке покупок"
// @Router /recipes/{id}/shopping_cart [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.relation.cart.remove"
	h.handle(w, r, op, "failed to remove from shopping cart",
		func(ctx context.Context, callerUID string, id int) (*models.RecipeShortView, error) {
			return nil, h.service.RemoveFromCart(ctx, callerUID, id)
		})
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, op, failMsg string,
	action func(ctx context.Context, callerUID string, id int) (*models.RecipeShortView, error)) {
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

	short, err := action(r.Context(), callerUID, id)
	if err != nil {
		log.Error(failMsg, sl.Err(err))
		response.RenderError(w, r, err, failMsg)
		return
	}

	log.Info("success", slog.Int("recipe_id", id))
	if short == nil {
		render.JSON(w, r, response.StatusOKWithData(nil))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recipe": short,
	}))
}
