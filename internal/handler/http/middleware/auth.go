package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/auth"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/jwt"
)

// AuthRequired accepts only unrevoked access tokens. It must run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// UserID returns the authenticated user's id, or "" when the request carries no claims.
func UserID(ctx context.Context) string {
	_, claims, _ := jwtauth.FromContext(ctx)
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}
