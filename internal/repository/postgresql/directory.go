package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/database"
)

// directory answers the fan-out's audience and display lookups.
type directory struct {
	db *database.DB
}

func NewDirectory(db *database.DB) notification.Directory {
	return &directory{db: db}
}

func (d *directory) GetUser(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, d.db)

	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, fmt.Errorf("user %s: %w", id, notification.ErrSubjectNotFound)
		}
		return user.User{}, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

func (d *directory) GetTrack(ctx context.Context, id string) (notification.Subject, error) {
	q := GetQuerier(ctx, d.db)

	var s notification.Subject
	err := q.QueryRow(ctx, `SELECT id, title, artist_id, cover_url, album_id FROM tracks WHERE id = $1`, id).
		Scan(&s.ID, &s.Title, &s.OwnerID, &s.ImageURL, &s.AlbumID)
	if err != nil {
		return notification.Subject{}, subjectError("track", id, err)
	}
	return s, nil
}

func (d *directory) GetAlbum(ctx context.Context, id string) (notification.Subject, error) {
	return d.subject(ctx, "album", `SELECT id, title, artist_id, cover_url FROM albums WHERE id = $1`, id)
}

func (d *directory) GetPlaylist(ctx context.Context, id string) (notification.Subject, error) {
	return d.subject(ctx, "playlist", `SELECT id, title, user_id, cover_url FROM playlists WHERE id = $1`, id)
}

func (d *directory) subject(ctx context.Context, kind, query, id string) (notification.Subject, error) {
	q := GetQuerier(ctx, d.db)

	var s notification.Subject
	err := q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Title, &s.OwnerID, &s.ImageURL)
	if err != nil {
		return notification.Subject{}, subjectError(kind, id, err)
	}
	return s, nil
}

func subjectError(kind, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, notification.ErrSubjectNotFound)
	}
	return fmt.Errorf("failed to get %s %s: %w", kind, id, err)
}

func (d *directory) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return followerIDs(ctx, GetQuerier(ctx, d.db), userID)
}

func (d *directory) FollowerCount(ctx context.Context, userID string) (int, error) {
	return countFollows(ctx, GetQuerier(ctx, d.db), `SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID)
}
