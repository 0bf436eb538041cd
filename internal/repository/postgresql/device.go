package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/musicverse/musicverse-backend-go/internal/domain/device"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/database"
)

type deviceRepository struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.Repository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(ctx context.Context, d device.Device) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	if d.ID == "" {
		d.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO user_devices (id, user_id, token, platform, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, user_id, token, platform, created_at, updated_at
	`

	var created device.Device
	err := q.QueryRow(ctx, query, d.ID, d.UserID, d.Token, d.Platform).Scan(
		&created.ID,
		&created.UserID,
		&created.Token,
		&created.Platform,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return device.Device{}, fmt.Errorf("failed to create device: %w", err)
	}
	return created, nil
}

func (r *deviceRepository) DeleteByToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM user_devices WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return nil
}

func (r *deviceRepository) DeleteByUserAndToken(ctx context.Context, userID, token string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM user_devices WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}
	return nil
}

func (r *deviceRepository) ListByUser(ctx context.Context, userID string) ([]device.Device, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, user_id, token, platform, created_at, updated_at
		FROM user_devices
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []device.Device
	for rows.Next() {
		var d device.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.Token, &d.Platform, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *deviceRepository) TokensByUserIDs(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)
	return queryTokens(ctx, q, `SELECT token FROM user_devices WHERE user_id = ANY($1)`, userIDs)
}

func (r *deviceRepository) AllTokens(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)
	return queryTokens(ctx, q, `SELECT token FROM user_devices`)
}

func (r *deviceRepository) DeleteTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM user_devices WHERE token = ANY($1)`, tokens)
	if err != nil {
		return 0, fmt.Errorf("failed to delete device tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *deviceRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM user_devices WHERE updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale devices: %w", err)
	}
	return tag.RowsAffected(), nil
}

func queryTokens(ctx context.Context, q database.Querier, query string, args ...any) ([]string, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
