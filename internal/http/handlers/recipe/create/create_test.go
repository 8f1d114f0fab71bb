package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/foodgram-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, authorUID string, req models.RecipeWriteRequest) (*models.RecipeView, error) {
	args := m.Called(ctx, authorUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.RecipeView), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{
		"name": "Блины",
		"text": "Смешать и жарить",
		"cooking_time": 20,
		"image": "data:image/png;base64,aGk=",
		"ingredients": [{"id": 1, "amount": 300}]
	}`

	tests := []struct {
		name           string
		requestBody    string
		authorUID      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание рецепта",
			requestBody: validBody,
			authorUID:   "author-uid",
			setupMock: func(m *MockService) {
				view := &models.RecipeView{ID: 7, Name: "Блины", CookingTime: 20}
				m.On("Create", mock.Anything, "author-uid", mock.AnythingOfType("models.RecipeWriteRequest")).
					Return(view, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Блины"`,
		},
		{
			name:           "без авторизации",
			requestBody:    validBody,
			authorUID:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:           "пустое название не проходит валидацию",
			requestBody:    `{"name": "", "text": "text", "cooking_time": 20}`,
			authorUID:      "author-uid",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is a required field`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    `{"name": }`,
			authorUID:      "author-uid",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/recipes", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			if tt.authorUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.authorUID)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
