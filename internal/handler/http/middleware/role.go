package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/jwtauth/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
)

// RequireRole rejects requests whose token role is not one of roles with denied.
func RequireRole(denied error, roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, denied)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok || !slices.Contains(roles, user.Role(roleStr)) {
				response.HandleError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireArtist requires the artist role
func RequireArtist(next http.Handler) http.Handler {
	return RequireRole(catalog.ErrArtistRoleRequired, user.RoleArtist)(next)
}
