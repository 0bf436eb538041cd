package catalog

import (
	"context"
)

type TrackRepository interface {
	Create(ctx context.Context, t Track) (Track, error)
	GetByID(ctx context.Context, id string) (Track, error)
	UpdateStatus(ctx context.Context, id string, status PublicStatus) (Track, error)
	IsLiked(ctx context.Context, userID, trackID string) (bool, error)
	Like(ctx context.Context, userID, trackID string) error
	Unlike(ctx context.Context, userID, trackID string) error
	CountLikes(ctx context.Context, trackID string) (int, error)
	RecordDownload(ctx context.Context, userID, trackID string) error
}

type AlbumRepository interface {
	Create(ctx context.Context, a Album) (Album, error)
	GetByID(ctx context.Context, id string) (Album, error)
	IsSaved(ctx context.Context, userID, albumID string) (bool, error)
	Save(ctx context.Context, userID, albumID string) error
	Unsave(ctx context.Context, userID, albumID string) error
}

type PlaylistRepository interface {
	Create(ctx context.Context, p Playlist) (Playlist, error)
	GetByID(ctx context.Context, id string) (Playlist, error)
	IsSaved(ctx context.Context, userID, playlistID string) (bool, error)
	Save(ctx context.Context, userID, playlistID string) error
	Unsave(ctx context.Context, userID, playlistID string) error
}
