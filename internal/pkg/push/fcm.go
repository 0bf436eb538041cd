package push

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// fcmMaxTokens is the FCM limit of tokens per multicast request.
const fcmMaxTokens = 500

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMConfig holds Firebase credentials.
type FCMConfig struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
}

// FCMGateway delivers messages through Firebase Cloud Messaging.
type FCMGateway struct {
	client      multicastSender
	logger      *slog.Logger
	concurrency int
}

// NewFCMGateway initialises a Firebase app and its messaging client.
func NewFCMGateway(ctx context.Context, cfg FCMConfig, logger *slog.Logger) (*FCMGateway, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}

	return newFCMGateway(client, logger), nil
}

func newFCMGateway(client multicastSender, logger *slog.Logger) *FCMGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &FCMGateway{
		client:      client,
		logger:      logger.With(slog.String("component", "push.fcm")),
		concurrency: 4,
	}
}

// Send splits the tokens into multicast batches and sends them concurrently.
func (g *FCMGateway) Send(ctx context.Context, msg Message) (Result, error) {
	tokens := dedupe(msg.Tokens)
	if len(tokens) == 0 {
		return Result{}, nil
	}

	badge := 1
	base := messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title:    msg.Notification.Title,
			Body:     msg.Notification.Body,
			ImageURL: msg.Notification.ImageURL,
		},
		Data: msg.Data,
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:            "default",
					ContentAvailable: true,
					Badge:            &badge,
				},
			},
		},
	}

	var (
		mu     sync.Mutex
		result Result
	)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for _, batch := range chunk(tokens, fcmMaxTokens) {
		eg.Go(func() error {
			m := base
			m.Tokens = batch

			resp, err := g.client.SendEachForMulticast(gCtx, &m)
			if err != nil {
				return fmt.Errorf("%w: fcm multicast failed: %w", ErrGatewayUnavailable, err)
			}

			part := Result{SuccessCount: resp.SuccessCount, FailureCount: resp.FailureCount}
			for i, r := range resp.Responses {
				if r == nil || r.Success || i >= len(batch) {
					continue
				}
				// INVALID_ARGUMENT also covers message-level faults repeated for
				// every token, so only UNREGISTERED marks a token as dead.
				if messaging.IsUnregistered(r.Error) {
					part.InvalidTokens = append(part.InvalidTokens, batch[i])
				}
			}

			mu.Lock()
			result.merge(part)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return result, err
	}

	g.logger.Info("push sent",
		slog.Int("tokens", len(tokens)),
		slog.Int("success", result.SuccessCount),
		slog.Int("failure", result.FailureCount),
		slog.Int("invalid", len(result.InvalidTokens)),
	)
	return result, nil
}
