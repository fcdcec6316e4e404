package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_RoundTrip(t *testing.T) {
	r := NewResolver("secret", "billing")

	t.Run("admin", func(t *testing.T) {
		token, err := r.Issue(model.AdminScope(), "root", time.Hour)
		require.NoError(t, err)

		scope, err := r.Resolve(token)
		require.NoError(t, err)
		assert.True(t, scope.IsAdmin())
	})

	t.Run("agent", func(t *testing.T) {
		token, err := r.Issue(model.AgentScope(42), "AG42", time.Hour)
		require.NoError(t, err)

		scope, err := r.Resolve(token)
		require.NoError(t, err)
		id, ok := scope.AgentID()
		assert.True(t, ok)
		assert.Equal(t, int64(42), id)
	})
}

func TestResolver_Rejects(t *testing.T) {
	r := NewResolver("secret", "billing")

	t.Run("empty", func(t *testing.T) {
		_, err := r.Resolve("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewResolver("other", "billing").Issue(model.AdminScope(), "x", time.Hour)
		require.NoError(t, err)
		_, err = r.Resolve(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := NewResolver("secret", "elsewhere").Issue(model.AdminScope(), "x", time.Hour)
		require.NoError(t, err)
		_, err = r.Resolve(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := r.Issue(model.AdminScope(), "x", -time.Minute)
		require.NoError(t, err)
		_, err = r.Resolve(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Role:             "viewer",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "billing"},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = r.Resolve(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("agent without id", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Role:             model.RoleAgent,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "billing"},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = r.Resolve(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}
