package satchel

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBearer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare token gains prefix",
			in:   "abc123",
			want: "Bearer abc123",
		},
		{
			name: "already prefixed",
			in:   "Bearer abc123",
			want: "Bearer abc123",
		},
		{
			name: "lowercase prefix passes through",
			in:   "bearer abc123",
			want: "bearer abc123",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  abc123  ",
			want: "Bearer abc123",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBearer(tt.in))
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "expiry = %v, want %v", got, exp)

	got, ok = TokenExpiry("Bearer " + signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiryAbsent(t *testing.T) {
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, ok := TokenExpiry(noExp)
	assert.False(t, ok)

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)

	_, ok = TokenExpiry("")
	assert.False(t, ok)

	_, ok = TokenExpiry("Bearer ")
	assert.False(t, ok)
}
