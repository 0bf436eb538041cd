package device

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d Device) (Device, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserAndToken(ctx context.Context, userID, token string) error
	ListByUser(ctx context.Context, userID string) ([]Device, error)
	TokensByUserIDs(ctx context.Context, userIDs []string) ([]string, error)
	AllTokens(ctx context.Context) ([]string, error)
	DeleteTokens(ctx context.Context, tokens []string) (int64, error)
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}
