package push

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogGateway writes messages to the logger instead of delivering them.
// Used for local development and tests.
type LogGateway struct {
	logger *slog.Logger
}

func NewLogGateway(logger *slog.Logger) *LogGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogGateway{logger: logger.With(slog.String("component", "push.log"))}
}

func (g *LogGateway) Send(ctx context.Context, msg Message) (Result, error) {
	tokens := dedupe(msg.Tokens)
	if len(tokens) == 0 {
		return Result{}, nil
	}
	g.logger.Info("push (log only)",
		slog.Int("tokens", len(tokens)),
		slog.String("title", msg.Notification.Title),
		slog.String("body", msg.Notification.Body),
		slog.Any("data", msg.Data),
	)
	return Result{SuccessCount: len(tokens)}, nil
}

// Config selects and configures a gateway.
type Config struct {
	Provider      string // fcm, expo, log
	FCM           FCMConfig
	ExpoURL       string
	ExpoToken     string
	ExpoChannelID string
}

// NewGateway builds the gateway named by cfg.Provider.
func NewGateway(ctx context.Context, cfg Config, logger *slog.Logger) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "log":
		return NewLogGateway(logger), nil
	case "fcm", "firebase":
		return NewFCMGateway(ctx, cfg.FCM, logger)
	case "expo":
		return NewExpoGateway(cfg.ExpoURL, cfg.ExpoToken, cfg.ExpoChannelID, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
