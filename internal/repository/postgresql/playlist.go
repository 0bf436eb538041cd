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

type playlistRepository struct {
	db *database.DB
}

func NewPlaylistRepository(db *database.DB) catalog.PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, p catalog.Playlist) (catalog.Playlist, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO playlists (id, title, user_id, cover_url, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, title, user_id, cover_url, is_public, created_at, updated_at
	`

	var created catalog.Playlist
	err := q.QueryRow(ctx, query, p.ID, p.Title, p.UserID, p.CoverURL, p.IsPublic).Scan(
		&created.ID, &created.Title, &created.UserID, &created.CoverURL, &created.IsPublic, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return catalog.Playlist{}, fmt.Errorf("failed to create playlist: %w", err)
	}
	return created, nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (catalog.Playlist, error) {
	q := GetQuerier(ctx, r.db)

	var p catalog.Playlist
	err := q.QueryRow(ctx, `
		SELECT id, title, user_id, cover_url, is_public, created_at, updated_at
		FROM playlists WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.UserID, &p.CoverURL, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Playlist{}, catalog.ErrPlaylistNotFound
		}
		return catalog.Playlist{}, fmt.Errorf("failed to get playlist %s: %w", id, err)
	}
	return p, nil
}

func (r *playlistRepository) IsSaved(ctx context.Context, userID, playlistID string) (bool, error) {
	return existsPair(ctx, GetQuerier(ctx, r.db),
		`SELECT EXISTS(SELECT 1 FROM saved_playlists WHERE user_id = $1 AND playlist_id = $2)`, userID, playlistID)
}

func (r *playlistRepository) Save(ctx context.Context, userID, playlistID string) error {
	return execPair(ctx, GetQuerier(ctx, r.db), `
		INSERT INTO saved_playlists (user_id, playlist_id, created_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, playlist_id) DO NOTHING
	`, userID, playlistID)
}

func (r *playlistRepository) Unsave(ctx context.Context, userID, playlistID string) error {
	return execPair(ctx, GetQuerier(ctx, r.db),
		`DELETE FROM saved_playlists WHERE user_id = $1 AND playlist_id = $2`, userID, playlistID)
}
