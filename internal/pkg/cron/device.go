package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/domain/device"
)

// DeviceJobs contains device registry maintenance jobs
type DeviceJobs struct {
	deviceService device.Service
	staleAfter    time.Duration
	logger        *slog.Logger
}

// NewDeviceJobs creates device cron jobs. Registrations not refreshed within
// staleAfter are pruned.
func NewDeviceJobs(deviceService device.Service, staleAfter time.Duration, logger *slog.Logger) *DeviceJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeviceJobs{
		deviceService: deviceService,
		staleAfter:    staleAfter,
		logger:        logger,
	}
}

// RegisterJobs registers all device-related cron jobs
func (j *DeviceJobs) RegisterJobs(scheduler *Scheduler) {
	if j.staleAfter <= 0 {
		return
	}
	scheduler.AddJob("prune_stale_devices", 24*time.Hour, j.PruneStaleDevices)
}

// PruneStaleDevices removes device tokens the client has not refreshed
func (j *DeviceJobs) PruneStaleDevices(ctx context.Context) error {
	n, err := j.deviceService.PruneStale(ctx, j.staleAfter)
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.Info("Pruned stale devices", "count", n, "stale_after", j.staleAfter)
	}
	return nil
}
