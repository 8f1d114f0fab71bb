package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id int, callerUID string) (*models.RecipeView, error) {
	args := m.Called(ctx, id, callerUID)
	if res := args.Get(0); res != nil {
		return res.(*models.RecipeView), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		idParam        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное чтение рецепта",
			idParam: "5",
			setupMock: func(m *MockService) {
				view := &models.RecipeView{
					ID:          5,
					Name:        "Блины",
					CookingTime: 20,
				}
				m.On("Read", mock.Anything, 5, "").Return(view, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Блины"`,
		},
		{
			name:           "некорректный id в URL",
			idParam:        "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name:    "рецепт не найден",
			idParam: "777",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 777, "").Return(nil, apperr.NotFound("recipe not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"recipe not found"}`,
		},
		{
			name:    "внутренняя ошибка не раскрывается клиенту",
			idParam: "5",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 5, "").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read recipe"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/recipes/"+tt.idParam, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.idParam)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
