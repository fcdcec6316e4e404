package handlers

import (
	"github.com/nimasrn/cable-billing/internal/auth"
	"github.com/nimasrn/cable-billing/internal/model"
	xhttp "github.com/nimasrn/cable-billing/pkg/http"
	"github.com/nimasrn/cable-billing/pkg/logger"
)

const scopeKey = "billing.scope"

type ScopeResolver interface {
	Resolve(token string) (model.Scope, error)
}

// Authenticate resolves the bearer token into the caller's scope and stores it
// on the request. Requests without a valid token stop here with 401.
func Authenticate(resolver ScopeResolver) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			token := auth.BearerToken(string(ctx.Request.Header.Peek("Authorization")))
			scope, err := resolver.Resolve(token)
			if err != nil {
				logger.Debug("request rejected", "error", err, "path", string(ctx.Path()), "request_id", xhttp.RequestID(ctx))
				writeError(ctx, xhttp.StatusUnauthorized, err.Error())
				return
			}
			ctx.SetUserValue(scopeKey, scope)
			next(ctx)
		}
	}
}

// scopeOf returns the caller's scope. An unauthenticated request yields the zero
// scope, which every service refuses.
func scopeOf(ctx *xhttp.RequestCtx) model.Scope {
	scope, _ := ctx.UserValue(scopeKey).(model.Scope)
	return scope
}
