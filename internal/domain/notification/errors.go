package notification

import "errors"

// Notification domain errors
var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrSubjectNotFound         = errors.New("notification subject not found")
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrInvalidSortOrder        = errors.New("sort order must be ASC or DESC")
	ErrEmptyAnnouncement       = errors.New("announcement title and body are required")
)
