package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: Validation("field is empty"), want: KindValidation},
		{name: "conflict", err: Conflict("duplicate"), want: KindConflict},
		{name: "permission", err: Permission("forbidden"), want: KindPermission},
		{name: "not found", err: NotFound("missing"), want: KindNotFound},
		{name: "wrapped with fmt.Errorf", err: fmt.Errorf("op: %w", NotFound("missing")), want: KindNotFound},
		{name: "plain error", err: errors.New("boom"), want: 0},
		{name: "nil", err: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unique constraint violation")
	err := Wrap(KindConflict, "email is already taken", cause)

	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "email is already taken: unique constraint violation", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestValidation_Formatting(t *testing.T) {
	err := Validation("amount for ingredient with id=%d must be at least %d", 7, 1)
	assert.Equal(t, "amount for ingredient with id=7 must be at least 1", err.Error())
}
