package catalog

import (
	"context"
	"log/slog"

	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/eventbus"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
	"github.com/musicverse/musicverse-backend-go/internal/service/file"
)

type AlbumServiceImpl struct {
	tx     Transactor
	albums catalog.AlbumRepository
	users  user.UserRepository
	files  file.FileService
	events eventbus.Publisher
}

func NewAlbumService(tx Transactor, albums catalog.AlbumRepository, users user.UserRepository, files file.FileService, events eventbus.Publisher) catalog.AlbumService {
	return &AlbumServiceImpl{
		tx:     tx,
		albums: albums,
		users:  users,
		files:  files,
		events: events,
	}
}

// Create implements catalog.AlbumService.
func (s *AlbumServiceImpl) Create(ctx context.Context, artistID string, req catalog.CreateAlbumRequest) (catalog.AlbumResponse, error) {
	if err := req.Validate(); err != nil {
		return catalog.AlbumResponse{}, err
	}

	artist, err := requireArtist(ctx, s.users, artistID)
	if err != nil {
		return catalog.AlbumResponse{}, err
	}

	coverURL, err := uploadCover(ctx, s.files, file.CoverAlbum, artistID, req.Cover)
	if err != nil {
		return catalog.AlbumResponse{}, err
	}

	album, err := s.albums.Create(ctx, catalog.Album{
		Title:    req.Title,
		ArtistID: artistID,
		CoverURL: coverURL,
	})
	if err != nil {
		return catalog.AlbumResponse{}, err
	}

	s.events.Emit(ctx, string(notification.TypeNewAlbum), notification.NewAlbumPayload{
		AlbumID:    album.ID,
		ArtistID:   artistID,
		Title:      album.Title,
		ArtistName: artist.DisplayName(),
		ImageURL:   album.CoverURL,
	})

	slog.Info("album created", "album_id", album.ID, "artist_id", artistID)
	return album.ToResponse(), nil
}

// GetByID implements catalog.AlbumService.
func (s *AlbumServiceImpl) GetByID(ctx context.Context, id string) (catalog.AlbumResponse, error) {
	if !validator.IsValidUUID(id) {
		return catalog.AlbumResponse{}, catalog.ErrAlbumNotFound
	}
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return catalog.AlbumResponse{}, err
	}
	return album.ToResponse(), nil
}

// ToggleSave implements catalog.AlbumService.
func (s *AlbumServiceImpl) ToggleSave(ctx context.Context, userID, albumID string) (catalog.SaveResponse, error) {
	if !validator.IsValidUUID(albumID) {
		return catalog.SaveResponse{}, catalog.ErrAlbumNotFound
	}

	var saved bool
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.albums.GetByID(ctx, albumID); err != nil {
			return err
		}
		already, err := s.albums.IsSaved(ctx, userID, albumID)
		if err != nil {
			return err
		}
		saved = !already
		if already {
			return s.albums.Unsave(ctx, userID, albumID)
		}
		return s.albums.Save(ctx, userID, albumID)
	})
	if err != nil {
		return catalog.SaveResponse{}, err
	}

	if saved {
		s.events.Emit(ctx, string(notification.TypeSaveAlbum), notification.SaveAlbumPayload{
			AlbumID: albumID,
			UserID:  userID,
		})
	}
	return catalog.SaveResponse{Saved: saved}, nil
}
