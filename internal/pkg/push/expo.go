package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultExpoURL is the Expo push send endpoint.
	DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

	expoMaxMessages = 100
)

type expoMessage struct {
	To        string            `json:"to"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Sound     string            `json:"sound"`
	Priority  string            `json:"priority"`
	ChannelID string            `json:"channelId,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

// ExpoGateway delivers messages through the Expo push service.
type ExpoGateway struct {
	endpoint    string
	accessToken string
	channelID   string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewExpoGateway creates an Expo gateway. An empty endpoint uses DefaultExpoURL.
func NewExpoGateway(endpoint, accessToken, channelID string, logger *slog.Logger) *ExpoGateway {
	if endpoint == "" {
		endpoint = DefaultExpoURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpoGateway{
		endpoint:    endpoint,
		accessToken: accessToken,
		channelID:   channelID,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger.With(slog.String("component", "push.expo")),
	}
}

// Send posts the message in batches of 100 and collects per-ticket results.
func (g *ExpoGateway) Send(ctx context.Context, msg Message) (Result, error) {
	tokens := dedupe(msg.Tokens)
	if len(tokens) == 0 {
		return Result{}, nil
	}

	var result Result
	for _, batch := range chunk(tokens, expoMaxMessages) {
		part, err := g.sendBatch(ctx, batch, msg)
		if err != nil {
			return result, err
		}
		result.merge(part)
	}

	g.logger.Info("push sent",
		slog.Int("tokens", len(tokens)),
		slog.Int("success", result.SuccessCount),
		slog.Int("failure", result.FailureCount),
		slog.Int("invalid", len(result.InvalidTokens)),
	)
	return result, nil
}

func (g *ExpoGateway) sendBatch(ctx context.Context, tokens []string, msg Message) (Result, error) {
	messages := make([]expoMessage, len(tokens))
	for i, token := range tokens {
		messages[i] = expoMessage{
			To:        token,
			Title:     msg.Notification.Title,
			Body:      msg.Notification.Body,
			Data:      msg.Data,
			Sound:     "default",
			Priority:  "high",
			ChannelID: g.channelID,
		}
	}

	body, err := json.Marshal(messages)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal expo messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create expo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.accessToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: expo request failed: %w", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read expo response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return Result{}, fmt.Errorf("%w: expo push failed: %s: %s", ErrGatewayUnavailable, resp.Status, respBody)
	}

	var parsed expoResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to decode expo response: %w", err)
	}

	var result Result
	for i, ticket := range parsed.Data {
		if ticket.Status == "ok" {
			result.SuccessCount++
			continue
		}
		result.FailureCount++
		if ticket.Details.Error == "DeviceNotRegistered" && i < len(tokens) {
			result.InvalidTokens = append(result.InvalidTokens, tokens[i])
		}
	}
	return result, nil
}
