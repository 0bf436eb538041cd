package notification

import (
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
)

// NotificationType is the closed set of notification kinds. Event names on the
// bus use the same values.
type NotificationType string

const (
	TypeNewTrack            NotificationType = "NEW_TRACK"
	TypeNewAlbum            NotificationType = "NEW_ALBUM"
	TypeNewPlaylist         NotificationType = "NEW_PLAYLIST"
	TypeLikeTrack           NotificationType = "LIKE_TRACK"
	TypeFollow              NotificationType = "FOLLOW"
	TypeDownloadTrack       NotificationType = "DOWNLOAD_TRACK"
	TypeSavePlaylist        NotificationType = "SAVE_PLAYLIST"
	TypeSaveAlbum           NotificationType = "SAVE_ALBUM"
	TypeTrackPublicApproved NotificationType = "TRACK_PUBLIC_APPROVED"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeNewTrack,
		TypeNewAlbum,
		TypeNewPlaylist,
		TypeLikeTrack,
		TypeFollow,
		TypeDownloadTrack,
		TypeSavePlaylist,
		TypeSaveAlbum,
		TypeTrackPublicApproved,
	}
}

func (t NotificationType) IsValid() bool {
	for _, known := range AllNotificationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseType parses a notification type name.
func ParseType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.IsValid() {
		return "", ErrInvalidNotificationType
	}
	return t, nil
}

// Notification is a stored notification row. Every field except Read is
// fixed at creation.
type Notification struct {
	ID            string
	Type          NotificationType
	Title         string
	Body          string
	ImageURL      *string
	RecipientID   string
	TriggerUserID *string
	DestinationID *string
	Read          bool
	CreatedAt     time.Time

	// Join
	TriggerUser *user.UserSummary
}

// Subject is the content entity a notification points at.
type Subject struct {
	ID       string
	Title    string
	OwnerID  string
	ImageURL *string
	// AlbumID is set for tracks released as part of an album.
	AlbumID *string
}
