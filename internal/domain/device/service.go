package device

import (
	"context"
	"time"
)

type Service interface {
	Register(ctx context.Context, userID string, req RegisterRequest) (DeviceResponse, error)
	Unregister(ctx context.Context, userID, token string) error
	List(ctx context.Context, userID string) ([]DeviceResponse, error)
	PruneStale(ctx context.Context, olderThan time.Duration) (int64, error)
}
