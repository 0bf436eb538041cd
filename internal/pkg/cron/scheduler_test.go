package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/domain/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)

	var runs atomic.Int32
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.AddJob("broken", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Len(t, s.Jobs(), 2)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(nil)

	var runs atomic.Int32
	for range 3 {
		s.AddJob("job", time.Minute, func(ctx context.Context) error {
			runs.Add(1)
			return nil
		})
	}

	s.RunOnce(context.Background())
	assert.Equal(t, int32(3), runs.Load())
}

type fakeDeviceService struct {
	device.Service
	olderThan time.Duration
	pruned    int64
}

func (f *fakeDeviceService) PruneStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return f.pruned, nil
}

func TestDeviceJobs_PruneStaleDevices(t *testing.T) {
	svc := &fakeDeviceService{pruned: 4}
	jobs := NewDeviceJobs(svc, 60*24*time.Hour, nil)

	s := NewScheduler(nil)
	jobs.RegisterJobs(s)
	require.Len(t, s.Jobs(), 1)
	assert.Equal(t, "prune_stale_devices", s.Jobs()[0].Name)

	require.NoError(t, jobs.PruneStaleDevices(context.Background()))
	assert.Equal(t, 60*24*time.Hour, svc.olderThan)
}

func TestDeviceJobs_DisabledWithoutWindow(t *testing.T) {
	s := NewScheduler(nil)
	NewDeviceJobs(&fakeDeviceService{}, 0, nil).RegisterJobs(s)
	assert.Empty(t, s.Jobs())
}
