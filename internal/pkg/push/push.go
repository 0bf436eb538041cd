package push

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedProvider is returned by NewGateway for unknown provider names.
	ErrUnsupportedProvider = errors.New("unsupported push provider")
	// ErrGatewayUnavailable wraps failures of a whole push request.
	ErrGatewayUnavailable = errors.New("push gateway unavailable")
)

// Notification is the visible part of a push message.
type Notification struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Message is one push request addressed to a batch of device tokens.
type Message struct {
	Tokens       []string          `json:"tokens"`
	Notification Notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

// Result summarises a best-effort delivery. InvalidTokens lists tokens the
// provider reported as no longer registered.
type Result struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

// Attempted reports whether any token got a per-token outcome.
func (r Result) Attempted() bool {
	return r.SuccessCount > 0 || r.FailureCount > 0
}

func (r *Result) merge(other Result) {
	r.SuccessCount += other.SuccessCount
	r.FailureCount += other.FailureCount
	r.InvalidTokens = append(r.InvalidTokens, other.InvalidTokens...)
}

// Gateway delivers push messages to device tokens.
type Gateway interface {
	// Send delivers msg to every token. Per-token failures are reported in the
	// Result; the error is reserved for failures of the whole request.
	Send(ctx context.Context, msg Message) (Result, error)
}

// chunk splits tokens into slices of at most size elements.
func chunk(tokens []string, size int) [][]string {
	if size <= 0 {
		return [][]string{tokens}
	}
	var batches [][]string
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		batches = append(batches, tokens[start:end])
	}
	return batches
}

// dedupe removes empty and repeated tokens, keeping first-seen order.
func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
