package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/database"
)

const trackColumns = `id, title, artist_id, album_id, audio_url, cover_url, public_status, created_at, updated_at`

type trackRepository struct {
	db *database.DB
}

func NewTrackRepository(db *database.DB) catalog.TrackRepository {
	return &trackRepository{db: db}
}

func scanTrack(row pgx.Row) (catalog.Track, error) {
	var t catalog.Track
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.ArtistID,
		&t.AlbumID,
		&t.AudioURL,
		&t.CoverURL,
		&t.PublicStatus,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *trackRepository) Create(ctx context.Context, t catalog.Track) (catalog.Track, error) {
	q := GetQuerier(ctx, r.db)

	if t.ID == "" {
		t.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO tracks (id, title, artist_id, album_id, audio_url, cover_url, public_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + trackColumns

	created, err := scanTrack(q.QueryRow(ctx, query,
		t.ID, t.Title, t.ArtistID, t.AlbumID, t.AudioURL, t.CoverURL, t.PublicStatus,
	))
	if err != nil {
		return catalog.Track{}, fmt.Errorf("failed to create track: %w", err)
	}
	return created, nil
}

func (r *trackRepository) GetByID(ctx context.Context, id string) (catalog.Track, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTrack(q.QueryRow(ctx, `SELECT `+trackColumns+` FROM tracks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Track{}, catalog.ErrTrackNotFound
		}
		return catalog.Track{}, fmt.Errorf("failed to get track %s: %w", id, err)
	}
	return t, nil
}

func (r *trackRepository) UpdateStatus(ctx context.Context, id string, status catalog.PublicStatus) (catalog.Track, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tracks SET public_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + trackColumns

	t, err := scanTrack(q.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Track{}, catalog.ErrTrackNotFound
		}
		return catalog.Track{}, fmt.Errorf("failed to update track status: %w", err)
	}
	return t, nil
}

func (r *trackRepository) IsLiked(ctx context.Context, userID, trackID string) (bool, error) {
	return existsPair(ctx, GetQuerier(ctx, r.db),
		`SELECT EXISTS(SELECT 1 FROM liked_tracks WHERE user_id = $1 AND track_id = $2)`, userID, trackID)
}

func (r *trackRepository) Like(ctx context.Context, userID, trackID string) error {
	return execPair(ctx, GetQuerier(ctx, r.db), `
		INSERT INTO liked_tracks (user_id, track_id, created_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, track_id) DO NOTHING
	`, userID, trackID)
}

func (r *trackRepository) Unlike(ctx context.Context, userID, trackID string) error {
	return execPair(ctx, GetQuerier(ctx, r.db),
		`DELETE FROM liked_tracks WHERE user_id = $1 AND track_id = $2`, userID, trackID)
}

func (r *trackRepository) CountLikes(ctx context.Context, trackID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM liked_tracks WHERE track_id = $1`, trackID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return n, nil
}

func (r *trackRepository) RecordDownload(ctx context.Context, userID, trackID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`INSERT INTO downloads (id, user_id, track_id, created_at) VALUES ($1, $2, $3, NOW())`,
		uuid.Must(uuid.NewV7()).String(), userID, trackID,
	)
	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

func existsPair(ctx context.Context, q database.Querier, query, a, b string) (bool, error) {
	var exists bool
	if err := q.QueryRow(ctx, query, a, b).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check relation: %w", err)
	}
	return exists, nil
}

func execPair(ctx context.Context, q database.Querier, query, a, b string) error {
	if _, err := q.Exec(ctx, query, a, b); err != nil {
		return fmt.Errorf("failed to update relation: %w", err)
	}
	return nil
}
