package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/musicverse/musicverse-backend-go/internal/domain/auth"
	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/device"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/push"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/storage"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already taken")
	case errors.Is(err, user.ErrCannotFollowSelf):
		BadRequest(w, "You cannot follow yourself", nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Catalog domain errors
	case errors.Is(err, catalog.ErrTrackNotFound):
		NotFound(w, "Track not found")
	case errors.Is(err, catalog.ErrAlbumNotFound):
		NotFound(w, "Album not found")
	case errors.Is(err, catalog.ErrPlaylistNotFound):
		NotFound(w, "Playlist not found")
	case errors.Is(err, catalog.ErrArtistRoleRequired):
		Forbidden(w, "Artist role required")
	case errors.Is(err, catalog.ErrNotAlbumOwner):
		Forbidden(w, "Album belongs to another artist")
	case errors.Is(err, catalog.ErrInvalidPublicStatus):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, catalog.ErrTrackNotAvailable):
		Conflict(w, "Track is not available for download")
	case errors.Is(err, catalog.ErrFileSizeExceeds):
		BadRequest(w, err.Error(), nil)

	// Device domain errors
	case errors.Is(err, device.ErrDeviceNotFound):
		NotFound(w, "Device not found")
	case errors.Is(err, device.ErrTokenRequired), errors.Is(err, device.ErrInvalidPlatform):
		BadRequest(w, err.Error(), nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrInvalidNotificationType), errors.Is(err, notification.ErrInvalidSortOrder):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, notification.ErrEmptyAnnouncement):
		BadRequest(w, err.Error(), nil)

	// Storage and push
	case errors.Is(err, storage.ErrInvalidType):
		BadRequest(w, "Unsupported file type", nil)
	case errors.Is(err, storage.ErrInvalidPath), errors.Is(err, storage.ErrNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, push.ErrGatewayUnavailable):
		ServiceUnavailable(w, "Push gateway unavailable")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
