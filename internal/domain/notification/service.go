package notification

import (
	"context"
)

// Service defines the notification service interface
type Service interface {
	GetNotifications(ctx context.Context, req ListNotificationsRequest) (*NotificationListResponse, error)
	// UpdateReadStatus flips one notification when id is set, otherwise every
	// notification of userID.
	UpdateReadStatus(ctx context.Context, id *string, userID string, read bool) (int64, error)
	GetNotificationsCount(ctx context.Context, userID string, notifType *NotificationType) (int, error)
	GetUnreadNotificationsCount(ctx context.Context, userID string) (int, error)
	AnnouncementToAll(ctx context.Context, title, body string) (AnnouncementResponse, error)

	// Realtime subscription
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())
}
