package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nimasrn/cable-billing/internal/model"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims identify the caller. Agent tokens carry the agent's numeric id.
type Claims struct {
	Role    model.Role `json:"role"`
	AgentID int64      `json:"agent_id,omitempty"`
	jwt.RegisteredClaims
}

// Resolver turns HS256 bearer tokens into access scopes.
type Resolver struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewResolver(secret, issuer string) *Resolver {
	return &Resolver{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Resolve verifies token and returns the caller's scope.
func (r *Resolver) Resolve(token string) (model.Scope, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Scope{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(r.now),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, opts...)
	if err != nil {
		return model.Scope{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return model.Scope{}, ErrInvalidToken
	}

	switch claims.Role {
	case model.RoleAdmin:
		return model.AdminScope(), nil
	case model.RoleAgent:
		if claims.AgentID <= 0 {
			return model.Scope{}, fmt.Errorf("%w: agent token without agent_id", ErrInvalidToken)
		}
		return model.AgentScope(claims.AgentID), nil
	}
	return model.Scope{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
}

// Issue signs a token for scope. Login lives outside this service; Issue is
// used by operators and tests.
func (r *Resolver) Issue(scope model.Scope, subject string, ttl time.Duration) (string, error) {
	if !scope.Valid() {
		return "", errors.New("cannot issue a token for an empty scope")
	}
	now := r.now()
	claims := Claims{
		Role: scope.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if id, ok := scope.AgentID(); ok {
		claims.AgentID = id
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
