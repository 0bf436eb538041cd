package device

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/domain/device"
)

// Transactor runs fn inside a database transaction carried by ctx.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type service struct {
	tx   Transactor
	repo device.Repository
	now  func() time.Time
}

func NewDeviceService(tx Transactor, repo device.Repository) device.Service {
	return &service{tx: tx, repo: repo, now: time.Now}
}

// Register drops any existing registration of the token, whoever owned it,
// and records it for userID.
func (s *service) Register(ctx context.Context, userID string, req device.RegisterRequest) (device.DeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	var created device.Device
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteByToken(ctx, req.Token); err != nil {
			return err
		}
		var err error
		created, err = s.repo.Create(ctx, device.Device{
			UserID:   userID,
			Token:    req.Token,
			Platform: req.Platform,
		})
		return err
	})
	if err != nil {
		return device.DeviceResponse{}, fmt.Errorf("failed to register device: %w", err)
	}

	slog.Info("device registered", "user_id", userID, "platform", created.Platform)
	return created.ToResponse(), nil
}

func (s *service) Unregister(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return device.ErrTokenRequired
	}
	return s.repo.DeleteByUserAndToken(ctx, userID, token)
}

func (s *service) List(ctx context.Context, userID string) ([]device.DeviceResponse, error) {
	devices, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]device.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		resp = append(resp, d.ToResponse())
	}
	return resp, nil
}

func (s *service) PruneStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	return s.repo.DeleteStale(ctx, s.now().Add(-olderThan))
}
