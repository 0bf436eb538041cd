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

type albumRepository struct {
	db *database.DB
}

func NewAlbumRepository(db *database.DB) catalog.AlbumRepository {
	return &albumRepository{db: db}
}

func (r *albumRepository) Create(ctx context.Context, a catalog.Album) (catalog.Album, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO albums (id, title, artist_id, cover_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, title, artist_id, cover_url, created_at, updated_at
	`

	var created catalog.Album
	err := q.QueryRow(ctx, query, a.ID, a.Title, a.ArtistID, a.CoverURL).Scan(
		&created.ID, &created.Title, &created.ArtistID, &created.CoverURL, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return catalog.Album{}, fmt.Errorf("failed to create album: %w", err)
	}
	return created, nil
}

func (r *albumRepository) GetByID(ctx context.Context, id string) (catalog.Album, error) {
	q := GetQuerier(ctx, r.db)

	var a catalog.Album
	err := q.QueryRow(ctx, `
		SELECT id, title, artist_id, cover_url, created_at, updated_at
		FROM albums WHERE id = $1
	`, id).Scan(&a.ID, &a.Title, &a.ArtistID, &a.CoverURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Album{}, catalog.ErrAlbumNotFound
		}
		return catalog.Album{}, fmt.Errorf("failed to get album %s: %w", id, err)
	}
	return a, nil
}

func (r *albumRepository) IsSaved(ctx context.Context, userID, albumID string) (bool, error) {
	return existsPair(ctx, GetQuerier(ctx, r.db),
		`SELECT EXISTS(SELECT 1 FROM saved_albums WHERE user_id = $1 AND album_id = $2)`, userID, albumID)
}

func (r *albumRepository) Save(ctx context.Context, userID, albumID string) error {
	return execPair(ctx, GetQuerier(ctx, r.db), `
		INSERT INTO saved_albums (user_id, album_id, created_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, album_id) DO NOTHING
	`, userID, albumID)
}

func (r *albumRepository) Unsave(ctx context.Context, userID, albumID string) error {
	return execPair(ctx, GetQuerier(ctx, r.db),
		`DELETE FROM saved_albums WHERE user_id = $1 AND album_id = $2`, userID, albumID)
}
