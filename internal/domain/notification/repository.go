package notification

import (
	"context"

	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	// List returns one page of the filter's rows and the total match count.
	List(ctx context.Context, filter ListFilter) ([]*Notification, int, error)
	Count(ctx context.Context, userID string, notifType *NotificationType) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	SetRead(ctx context.Context, id, userID string, read bool) (int64, error)
	SetReadAll(ctx context.Context, userID string, read bool) (int64, error)
}

// Directory resolves audiences and display context for the fan-out handlers.
// Missing entities are reported as ErrSubjectNotFound.
type Directory interface {
	GetUser(ctx context.Context, id string) (user.User, error)
	GetTrack(ctx context.Context, id string) (Subject, error)
	GetAlbum(ctx context.Context, id string) (Subject, error)
	GetPlaylist(ctx context.Context, id string) (Subject, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	FollowerCount(ctx context.Context, userID string) (int, error)
}
