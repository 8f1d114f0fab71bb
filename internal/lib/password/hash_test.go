package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "password123"},
		{name: "password with symbols", password: "p@ssw0rd!#$%"},
		{name: "cyrillic password", password: "пароль123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, CompareHash(hash, tt.password))
			assert.Error(t, CompareHash(hash, tt.password+"wrong"))
		})
	}
}

func TestCompareHash_InvalidHash(t *testing.T) {
	err := CompareHash("not-a-bcrypt-hash", "password")
	assert.Error(t, err)
}
