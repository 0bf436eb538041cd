package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

var (
	// ErrSkipped marks a handler result whose work was intentionally dropped,
	// e.g. the entity an event refers to no longer exists.
	ErrSkipped = errors.New("event skipped")

	// ErrPayloadType is returned when a typed handler receives a payload of another type.
	ErrPayloadType = errors.New("unexpected event payload type")

	// ErrHandlerPanic is returned when a handler panics during dispatch.
	ErrHandlerPanic = errors.New("event handler panicked")
)

// Handler processes a single event payload.
type Handler func(ctx context.Context, payload any) error

// Publisher is the producer-side view of the bus.
type Publisher interface {
	Publish(ctx context.Context, name string, payload any) error
	Emit(ctx context.Context, name string, payload any)
}

// Bus dispatches named events to the handlers subscribed to them.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// New creates an empty bus. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger.With(slog.String("component", "eventbus")),
	}
}

// Subscribe registers h for events named name. Handlers run in registration order.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// On registers a handler that only accepts payloads of type T.
func On[T any](b *Bus, name string, fn func(ctx context.Context, payload T) error) {
	b.Subscribe(name, func(ctx context.Context, payload any) error {
		typed, ok := payload.(T)
		if !ok {
			return fmt.Errorf("%w: %s got %T", ErrPayloadType, name, payload)
		}
		return fn(ctx, typed)
	})
}

// HandlerCount returns the number of handlers subscribed to name.
func (b *Bus) HandlerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

// Publish runs every handler of name synchronously. Failures are logged and
// returned joined; one failing handler does not stop the ones after it.
func (b *Bus) Publish(ctx context.Context, name string, payload any) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[name]))
	copy(handlers, b.handlers[name])
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("event has no handlers", slog.String("event", name))
		return nil
	}

	var errs []error
	for i, h := range handlers {
		start := time.Now()
		err := b.invoke(ctx, h, payload)
		attrs := []any{
			slog.String("event", name),
			slog.Int("handler", i),
			slog.Duration("duration", time.Since(start)),
		}

		switch {
		case err == nil:
			b.logger.Debug("event handled", attrs...)
		case errors.Is(err, ErrSkipped):
			b.logger.Warn("event skipped", append(attrs, slog.String("reason", err.Error()))...)
			errs = append(errs, err)
		default:
			b.logger.Error("event handler failed", append(attrs, slog.String("error", err.Error()))...)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Emit schedules Publish in the background and returns immediately. The
// dispatch outlives ctx cancellation so a finished request does not abort it.
func (b *Bus) Emit(ctx context.Context, name string, payload any) {
	detached := context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		_ = b.Publish(detached, name, payload)
	}()
}

// Wait blocks until every dispatch started by Emit has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) invoke(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrHandlerPanic, p, debug.Stack())
		}
	}()
	return h(ctx, payload)
}

// Skip wraps err so the bus reports it as a dropped event instead of a failure.
func Skip(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrSkipped, err)
}
