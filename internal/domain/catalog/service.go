package catalog

import (
	"context"
)

type TrackService interface {
	Create(ctx context.Context, artistID string, req CreateTrackRequest) (TrackResponse, error)
	GetByID(ctx context.Context, id string) (TrackResponse, error)
	Review(ctx context.Context, trackID string, req ReviewTrackRequest) (TrackResponse, error)
	ToggleLike(ctx context.Context, userID, trackID string) (LikeResponse, error)
	Download(ctx context.Context, userID, trackID string) (DownloadResponse, error)
}

type AlbumService interface {
	Create(ctx context.Context, artistID string, req CreateAlbumRequest) (AlbumResponse, error)
	GetByID(ctx context.Context, id string) (AlbumResponse, error)
	ToggleSave(ctx context.Context, userID, albumID string) (SaveResponse, error)
}

type PlaylistService interface {
	Create(ctx context.Context, userID string, req CreatePlaylistRequest) (PlaylistResponse, error)
	GetByID(ctx context.Context, viewerID, id string) (PlaylistResponse, error)
	ToggleSave(ctx context.Context, userID, playlistID string) (SaveResponse, error)
}
