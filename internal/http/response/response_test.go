package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: apperr.Validation("cooking_time must be at least 1"), want: http.StatusBadRequest},
		{name: "conflict", err: apperr.Conflict("recipe is already in favorites"), want: http.StatusConflict},
		{name: "permission", err: apperr.Permission("only the author can modify the recipe"), want: http.StatusForbidden},
		{name: "not found", err: apperr.NotFound("recipe not found"), want: http.StatusNotFound},
		{name: "wrapped classified error keeps its kind", err: fmt.Errorf("services.recipe.Read: %w", apperr.NotFound("recipe not found")), want: http.StatusNotFound},
		{name: "unclassified", err: errors.New("connection refused"), want: http.StatusInternalServerError},
		{name: "nil", err: nil, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}
