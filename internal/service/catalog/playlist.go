package catalog

import (
	"context"
	"log/slog"

	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/eventbus"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
	"github.com/musicverse/musicverse-backend-go/internal/service/file"
)

type PlaylistServiceImpl struct {
	tx        Transactor
	playlists catalog.PlaylistRepository
	files     file.FileService
	events    eventbus.Publisher
}

func NewPlaylistService(tx Transactor, playlists catalog.PlaylistRepository, files file.FileService, events eventbus.Publisher) catalog.PlaylistService {
	return &PlaylistServiceImpl{
		tx:        tx,
		playlists: playlists,
		files:     files,
		events:    events,
	}
}

// Create implements catalog.PlaylistService. Only public playlists are announced.
func (s *PlaylistServiceImpl) Create(ctx context.Context, userID string, req catalog.CreatePlaylistRequest) (catalog.PlaylistResponse, error) {
	if err := req.Validate(); err != nil {
		return catalog.PlaylistResponse{}, err
	}

	coverURL, err := uploadCover(ctx, s.files, file.CoverPlaylist, userID, req.Cover)
	if err != nil {
		return catalog.PlaylistResponse{}, err
	}

	playlist, err := s.playlists.Create(ctx, catalog.Playlist{
		Title:    req.Title,
		UserID:   userID,
		CoverURL: coverURL,
		IsPublic: req.Public(),
	})
	if err != nil {
		return catalog.PlaylistResponse{}, err
	}

	if playlist.IsPublic {
		s.events.Emit(ctx, string(notification.TypeNewPlaylist), notification.NewPlaylistPayload{
			PlaylistID: playlist.ID,
			UserID:     userID,
			Title:      playlist.Title,
			ImageURL:   playlist.CoverURL,
		})
	}

	slog.Info("playlist created", "playlist_id", playlist.ID, "user_id", userID, "public", playlist.IsPublic)
	return playlist.ToResponse(), nil
}

// GetByID implements catalog.PlaylistService. Private playlists are only visible to their owner.
func (s *PlaylistServiceImpl) GetByID(ctx context.Context, viewerID, id string) (catalog.PlaylistResponse, error) {
	playlist, err := s.visible(ctx, viewerID, id)
	if err != nil {
		return catalog.PlaylistResponse{}, err
	}
	return playlist.ToResponse(), nil
}

// ToggleSave implements catalog.PlaylistService.
func (s *PlaylistServiceImpl) ToggleSave(ctx context.Context, userID, playlistID string) (catalog.SaveResponse, error) {
	var saved bool
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.visible(ctx, userID, playlistID); err != nil {
			return err
		}
		already, err := s.playlists.IsSaved(ctx, userID, playlistID)
		if err != nil {
			return err
		}
		saved = !already
		if already {
			return s.playlists.Unsave(ctx, userID, playlistID)
		}
		return s.playlists.Save(ctx, userID, playlistID)
	})
	if err != nil {
		return catalog.SaveResponse{}, err
	}

	if saved {
		s.events.Emit(ctx, string(notification.TypeSavePlaylist), notification.SavePlaylistPayload{
			PlaylistID: playlistID,
			UserID:     userID,
		})
	}
	return catalog.SaveResponse{Saved: saved}, nil
}

func (s *PlaylistServiceImpl) visible(ctx context.Context, viewerID, id string) (catalog.Playlist, error) {
	if !validator.IsValidUUID(id) {
		return catalog.Playlist{}, catalog.ErrPlaylistNotFound
	}
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return catalog.Playlist{}, err
	}
	if !playlist.IsPublic && playlist.UserID != viewerID {
		return catalog.Playlist{}, catalog.ErrPlaylistNotFound
	}
	return playlist, nil
}
