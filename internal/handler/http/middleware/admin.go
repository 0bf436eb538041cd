package middleware

import (
	"net/http"

	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
)

func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(user.ErrAdminPrivilegeRequired, user.RoleAdmin)(next)
}
