package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/musicverse/musicverse-backend-go/internal/domain/device"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/push"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/sse"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
)

// Config holds notification service configuration
type Config struct {
	// OperatorTokens are appended to every push batch.
	OperatorTokens []string
	// SubscriberBuffer sizes the per-connection realtime channel. Default 10.
	SubscriberBuffer int
}

// Service stores, pushes and streams notifications. It implements
// notification.Service and owns the event bus handlers.
type Service struct {
	repo      notification.Repository
	directory notification.Directory
	devices   device.Repository
	gateway   push.Gateway
	hub       *sse.Hub
	config    Config
	logger    *slog.Logger
}

var _ notification.Service = (*Service)(nil)

// NewNotificationService creates a new notification service
func NewNotificationService(
	repo notification.Repository,
	directory notification.Directory,
	devices device.Repository,
	gateway push.Gateway,
	hub *sse.Hub,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = 10
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:      repo,
		directory: directory,
		devices:   devices,
		gateway:   gateway,
		hub:       hub,
		config:    cfg,
		logger:    logger.With("component", "notification"),
	}
}

// GetNotifications retrieves one page of the caller's notifications
func (s *Service) GetNotifications(ctx context.Context, req notification.ListNotificationsRequest) (*notification.NotificationListResponse, error) {
	filter, err := req.ToFilter()
	if err != nil {
		return nil, err
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]notification.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		items = append(items, n.ToResponse())
	}

	return &notification.NotificationListResponse{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

// UpdateReadStatus flips one notification owned by userID, or all of them when id is nil
func (s *Service) UpdateReadStatus(ctx context.Context, id *string, userID string, read bool) (int64, error) {
	if id == nil {
		return s.repo.SetReadAll(ctx, userID, read)
	}
	if !validator.IsValidUUID(*id) {
		return 0, notification.ErrNotificationNotFound
	}
	return s.repo.SetRead(ctx, *id, userID, read)
}

func (s *Service) GetNotificationsCount(ctx context.Context, userID string, notifType *notification.NotificationType) (int, error) {
	if notifType != nil && !notifType.IsValid() {
		return 0, notification.ErrInvalidNotificationType
	}
	return s.repo.Count(ctx, userID, notifType)
}

func (s *Service) GetUnreadNotificationsCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// AnnouncementToAll pushes title and body to every registered device. Nothing is stored.
func (s *Service) AnnouncementToAll(ctx context.Context, title, body string) (notification.AnnouncementResponse, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return notification.AnnouncementResponse{}, notification.ErrEmptyAnnouncement
	}

	tokens, err := s.devices.AllTokens(ctx)
	if err != nil {
		return notification.AnnouncementResponse{}, fmt.Errorf("failed to load device tokens: %w", err)
	}
	tokens = s.withOperatorTokens(tokens)
	if len(tokens) == 0 {
		s.logger.Info("announcement skipped, no registered devices")
		return notification.AnnouncementResponse{}, nil
	}

	res, err := s.gateway.Send(ctx, push.Message{
		Tokens:       tokens,
		Notification: push.Notification{Title: title, Body: body},
	})
	if err != nil {
		if res.Attempted() {
			s.logDelivery(ctx, "ANNOUNCEMENT", len(tokens), res)
		}
		return notification.AnnouncementResponse{}, fmt.Errorf("failed to send announcement: %w", err)
	}
	s.logDelivery(ctx, "ANNOUNCEMENT", len(tokens), res)

	return notification.AnnouncementResponse{
		Tokens:       len(tokens),
		SuccessCount: res.SuccessCount,
		FailureCount: res.FailureCount,
	}, nil
}

// Subscribe creates a realtime subscription for a user
func (s *Service) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch, release := s.hub.Subscribe(userID)
	s.logger.Info("realtime client connected",
		"user_id", userID,
		"user_connections", s.hub.SubscriberCount(userID),
		"total_connections", s.hub.TotalSubscribers(),
	)
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			release()
			s.logger.Info("realtime client disconnected",
				"user_id", userID,
				"user_connections", s.hub.SubscriberCount(userID),
				"total_connections", s.hub.TotalSubscribers(),
			)
		})
	}

	out := make(chan notification.SSEEvent, s.config.SubscriberBuffer)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

func (s *Service) withOperatorTokens(tokens []string) []string {
	if len(s.config.OperatorTokens) == 0 {
		return tokens
	}
	out := make([]string, 0, len(tokens)+len(s.config.OperatorTokens))
	out = append(out, tokens...)
	return append(out, s.config.OperatorTokens...)
}

// logDelivery records the push outcome and prunes tokens the provider rejected.
func (s *Service) logDelivery(ctx context.Context, kind string, tokens int, res push.Result) {
	level := slog.LevelInfo
	if res.FailureCount > 0 {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "push delivered",
		"type", kind,
		"tokens", tokens,
		"success_count", res.SuccessCount,
		"failure_count", res.FailureCount,
	)

	if len(res.InvalidTokens) == 0 {
		return
	}
	n, err := s.devices.DeleteTokens(ctx, res.InvalidTokens)
	if err != nil {
		s.logger.Error("failed to prune invalid device tokens", "error", err)
		return
	}
	s.logger.Info("pruned invalid device tokens", "count", n)
}
