package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeting struct {
	Name string
}

func newTestBus() *Bus {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBus_Publish_RunsHandlersInRegistrationOrder(t *testing.T) {
	bus := newTestBus()
	var order []int

	bus.Subscribe("greet", func(ctx context.Context, payload any) error {
		order = append(order, 1)
		return nil
	})
	bus.Subscribe("greet", func(ctx context.Context, payload any) error {
		order = append(order, 2)
		return nil
	})

	err := bus.Publish(context.Background(), "greet", greeting{Name: "a"})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
}

func TestBus_Publish_NoHandlers(t *testing.T) {
	bus := newTestBus()
	assert.NoError(t, bus.Publish(context.Background(), "nobody-listens", nil))
}

func TestBus_Publish_FailureDoesNotStopLaterHandlers(t *testing.T) {
	bus := newTestBus()
	boom := errors.New("boom")
	var secondRan bool

	bus.Subscribe("greet", func(ctx context.Context, payload any) error { return boom })
	bus.Subscribe("greet", func(ctx context.Context, payload any) error {
		secondRan = true
		return nil
	})

	err := bus.Publish(context.Background(), "greet", greeting{})

	assert.ErrorIs(t, err, boom)
	assert.True(t, secondRan)
}

func TestBus_Publish_RecoversPanics(t *testing.T) {
	bus := newTestBus()
	bus.Subscribe("greet", func(ctx context.Context, payload any) error {
		var m map[string]int
		m["x"] = 1
		return nil
	})

	err := bus.Publish(context.Background(), "greet", greeting{})

	assert.ErrorIs(t, err, ErrHandlerPanic)
}

func TestBus_Publish_SkippedIsReported(t *testing.T) {
	bus := newTestBus()
	missing := errors.New("track gone")
	bus.Subscribe("greet", func(ctx context.Context, payload any) error {
		return Skip(missing)
	})

	err := bus.Publish(context.Background(), "greet", greeting{})

	assert.ErrorIs(t, err, ErrSkipped)
	assert.ErrorIs(t, err, missing)
}

func TestSkip_Nil(t *testing.T) {
	assert.NoError(t, Skip(nil))
}

func TestOn_TypedPayload(t *testing.T) {
	bus := newTestBus()
	var got string
	On(bus, "greet", func(ctx context.Context, g greeting) error {
		got = g.Name
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), "greet", greeting{Name: "bea"}))
	assert.Equal(t, "bea", got)

	err := bus.Publish(context.Background(), "greet", "not a greeting")
	assert.ErrorIs(t, err, ErrPayloadType)
}

func TestBus_Emit_IsDetachedFromCallerContext(t *testing.T) {
	bus := newTestBus()
	var calls atomic.Int32
	var ctxErr error
	var mu sync.Mutex

	bus.Subscribe("greet", func(ctx context.Context, payload any) error {
		mu.Lock()
		ctxErr = ctx.Err()
		mu.Unlock()
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Emit(ctx, "greet", greeting{})
	bus.Emit(ctx, "greet", greeting{})
	bus.Wait()

	assert.Equal(t, int32(2), calls.Load())
	mu.Lock()
	assert.NoError(t, ctxErr)
	mu.Unlock()
}

func TestBus_HandlerCount(t *testing.T) {
	bus := newTestBus()
	assert.Equal(t, 0, bus.HandlerCount("greet"))
	bus.Subscribe("greet", func(ctx context.Context, payload any) error { return nil })
	assert.Equal(t, 1, bus.HandlerCount("greet"))
}

func TestBus_LateSubscriberMissesPastEvents(t *testing.T) {
	bus := newTestBus()
	require.NoError(t, bus.Publish(context.Background(), "greet", greeting{}))

	var ran bool
	bus.Subscribe("greet", func(ctx context.Context, payload any) error {
		ran = true
		return nil
	})

	assert.False(t, ran)
}
