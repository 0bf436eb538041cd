package notification

import (
	"strings"
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ============= Request DTOs =============

// ListNotificationsRequest holds the list query parameters
type ListNotificationsRequest struct {
	UserID    string
	Page      int
	PageSize  int
	Search    string
	SortOrder string
	Type      string
	Read      bool
	Unread    bool
}

// ListFilter is the normalised form of ListNotificationsRequest used by the repository
type ListFilter struct {
	RecipientID string
	Page        int
	PageSize    int
	Search      string
	SortOrder   SortOrder
	Type        *NotificationType
	Read        *bool
}

// Offset returns the row offset of the requested page
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ToFilter validates the request and applies defaults. Unread wins over Read.
func (r ListNotificationsRequest) ToFilter() (ListFilter, error) {
	var errs validator.ValidationErrors

	f := ListFilter{
		RecipientID: r.UserID,
		Page:        r.Page,
		PageSize:    r.PageSize,
		Search:      strings.TrimSpace(r.Search),
		SortOrder:   SortAsc,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}

	switch strings.ToUpper(strings.TrimSpace(r.SortOrder)) {
	case "", string(SortAsc):
	case string(SortDesc):
		f.SortOrder = SortDesc
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "sortOrder",
			Message: ErrInvalidSortOrder.Error(),
		})
	}

	if r.Type != "" {
		t, err := ParseType(r.Type)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "type",
				Message: "type must be one of the notification types",
			})
		} else {
			f.Type = &t
		}
	}

	switch {
	case r.Unread:
		read := false
		f.Read = &read
	case r.Read:
		read := true
		f.Read = &read
	}

	if len(errs) > 0 {
		return ListFilter{}, errs
	}
	return f, nil
}

// AnnouncementRequest is an operator broadcast to every registered device
type AnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r *AnnouncementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}
	if validator.IsEmpty(r.Body) {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "body is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ============= Response DTOs =============

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID            string            `json:"id"`
	Type          NotificationType  `json:"type"`
	Title         string            `json:"title"`
	Body          string            `json:"body"`
	ImageURL      *string           `json:"imageUrl,omitempty"`
	RecipientID   string            `json:"recipientId"`
	TriggerUserID *string           `json:"triggerUserId,omitempty"`
	DestinationID *string           `json:"destinationId,omitempty"`
	Read          bool              `json:"read"`
	Time          time.Time         `json:"time"`
	TriggerUser   *user.UserSummary `json:"triggerUser,omitempty"`
}

func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		Type:          n.Type,
		Title:         n.Title,
		Body:          n.Body,
		ImageURL:      n.ImageURL,
		RecipientID:   n.RecipientID,
		TriggerUserID: n.TriggerUserID,
		DestinationID: n.DestinationID,
		Read:          n.Read,
		Time:          n.CreatedAt,
		TriggerUser:   n.TriggerUser,
	}
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Items      []NotificationResponse `json:"items"`
	TotalCount int                    `json:"totalCount"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
}

// CountResponse is returned by the count endpoints
type CountResponse struct {
	Count int `json:"count"`
}

// UpdateReadStatusResponse reports how many rows a read toggle touched
type UpdateReadStatusResponse struct {
	Updated int64 `json:"updated"`
}

// AnnouncementResponse summarises an operator broadcast
type AnnouncementResponse struct {
	Tokens       int `json:"tokens"`
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
}

// SSETokenResponse represents the realtime token response
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// ============= Realtime Event =============

const RealtimeEventNotification = "notification"

// SSEEvent is a realtime message sent over SSE or websocket
type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}
