package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/eventbus"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
	"github.com/musicverse/musicverse-backend-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

type TrackServiceImpl struct {
	tx     Transactor
	tracks catalog.TrackRepository
	albums catalog.AlbumRepository
	users  user.UserRepository
	files  file.FileService
	events eventbus.Publisher
}

func NewTrackService(tx Transactor, tracks catalog.TrackRepository, albums catalog.AlbumRepository, users user.UserRepository, files file.FileService, events eventbus.Publisher) catalog.TrackService {
	return &TrackServiceImpl{
		tx:     tx,
		tracks: tracks,
		albums: albums,
		users:  users,
		files:  files,
		events: events,
	}
}

// Create implements catalog.TrackService. A standalone track created as
// APPROVED is announced to the artist's followers right away.
func (s *TrackServiceImpl) Create(ctx context.Context, artistID string, req catalog.CreateTrackRequest) (catalog.TrackResponse, error) {
	if err := req.Validate(); err != nil {
		return catalog.TrackResponse{}, err
	}

	artist, err := requireArtist(ctx, s.users, artistID)
	if err != nil {
		return catalog.TrackResponse{}, err
	}

	if req.AlbumID != nil {
		album, err := s.albums.GetByID(ctx, *req.AlbumID)
		if err != nil {
			return catalog.TrackResponse{}, err
		}
		if album.ArtistID != artistID {
			return catalog.TrackResponse{}, catalog.ErrNotAlbumOwner
		}
	}

	var coverURL, audioURL *string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		coverURL, err = uploadCover(gctx, s.files, file.CoverTrack, artistID, req.Cover)
		return err
	})
	if req.Audio != nil && req.Audio.File != nil && req.Audio.Header != nil {
		g.Go(func() error {
			url, err := s.files.UploadAudio(gctx, artistID, req.Audio.File, req.Audio.Header.Filename)
			if err != nil {
				return err
			}
			audioURL = &url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return catalog.TrackResponse{}, err
	}

	track, err := s.tracks.Create(ctx, catalog.Track{
		Title:        req.Title,
		ArtistID:     artistID,
		AlbumID:      req.AlbumID,
		AudioURL:     audioURL,
		CoverURL:     coverURL,
		PublicStatus: req.PublicStatus,
	})
	if err != nil {
		return catalog.TrackResponse{}, err
	}

	if track.IsPublic() && track.AlbumID == nil {
		s.events.Emit(ctx, string(notification.TypeNewTrack), notification.NewTrackPayload{
			TrackID:    track.ID,
			ArtistID:   artistID,
			Title:      track.Title,
			ArtistName: artist.DisplayName(),
			ImageURL:   track.CoverURL,
		})
	}

	slog.Info("track created", "track_id", track.ID, "artist_id", artistID, "status", track.PublicStatus)
	return track.ToResponse(), nil
}

// GetByID implements catalog.TrackService.
func (s *TrackServiceImpl) GetByID(ctx context.Context, id string) (catalog.TrackResponse, error) {
	if !validator.IsValidUUID(id) {
		return catalog.TrackResponse{}, catalog.ErrTrackNotFound
	}

	track, err := s.tracks.GetByID(ctx, id)
	if err != nil {
		return catalog.TrackResponse{}, err
	}
	likes, err := s.tracks.CountLikes(ctx, id)
	if err != nil {
		return catalog.TrackResponse{}, err
	}

	resp := track.ToResponse()
	resp.LikeCount = likes
	return resp, nil
}

// Review implements catalog.TrackService. Moving a track to APPROVED emits
// TRACK_PUBLIC_APPROVED.
func (s *TrackServiceImpl) Review(ctx context.Context, trackID string, req catalog.ReviewTrackRequest) (catalog.TrackResponse, error) {
	if err := req.Validate(); err != nil {
		return catalog.TrackResponse{}, err
	}
	if !validator.IsValidUUID(trackID) {
		return catalog.TrackResponse{}, catalog.ErrTrackNotFound
	}

	var before, after catalog.Track
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		before, err = s.tracks.GetByID(ctx, trackID)
		if err != nil {
			return err
		}
		after, err = s.tracks.UpdateStatus(ctx, trackID, req.Status)
		return err
	})
	if err != nil {
		return catalog.TrackResponse{}, err
	}

	if !before.IsPublic() && after.IsPublic() {
		s.events.Emit(ctx, string(notification.TypeTrackPublicApproved), notification.TrackApprovedPayload{
			TrackID: after.ID,
		})
	}

	slog.Info("track reviewed", "track_id", trackID, "from", before.PublicStatus, "to", after.PublicStatus)
	return after.ToResponse(), nil
}

// ToggleLike implements catalog.TrackService.
func (s *TrackServiceImpl) ToggleLike(ctx context.Context, userID, trackID string) (catalog.LikeResponse, error) {
	if !validator.IsValidUUID(trackID) {
		return catalog.LikeResponse{}, catalog.ErrTrackNotFound
	}

	var resp catalog.LikeResponse
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.tracks.GetByID(ctx, trackID); err != nil {
			return err
		}

		liked, err := s.tracks.IsLiked(ctx, userID, trackID)
		if err != nil {
			return err
		}
		if liked {
			err = s.tracks.Unlike(ctx, userID, trackID)
		} else {
			err = s.tracks.Like(ctx, userID, trackID)
		}
		if err != nil {
			return err
		}

		count, err := s.tracks.CountLikes(ctx, trackID)
		if err != nil {
			return err
		}
		resp = catalog.LikeResponse{Liked: !liked, LikeCount: count}
		return nil
	})
	if err != nil {
		return catalog.LikeResponse{}, err
	}

	if resp.Liked {
		s.events.Emit(ctx, string(notification.TypeLikeTrack), notification.LikeTrackPayload{
			TrackID: trackID,
			UserID:  userID,
		})
	}
	return resp, nil
}

// Download implements catalog.TrackService. Only public tracks with audio can
// be downloaded by users other than the artist.
func (s *TrackServiceImpl) Download(ctx context.Context, userID, trackID string) (catalog.DownloadResponse, error) {
	if !validator.IsValidUUID(trackID) {
		return catalog.DownloadResponse{}, catalog.ErrTrackNotFound
	}

	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return catalog.DownloadResponse{}, err
	}
	if track.AudioURL == nil || (!track.IsPublic() && track.ArtistID != userID) {
		return catalog.DownloadResponse{}, catalog.ErrTrackNotAvailable
	}

	if err := s.tracks.RecordDownload(ctx, userID, trackID); err != nil {
		return catalog.DownloadResponse{}, fmt.Errorf("failed to record download: %w", err)
	}

	s.events.Emit(ctx, string(notification.TypeDownloadTrack), notification.DownloadTrackPayload{
		TrackID: trackID,
		UserID:  userID,
	})

	return catalog.DownloadResponse{TrackID: trackID, AudioURL: *track.AudioURL}, nil
}
