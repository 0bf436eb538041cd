package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/eventbus"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/push"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/sse"
)

var errMissingField = errors.New("event payload is missing a required field")

// delivery is one notification addressed to an audience.
type delivery struct {
	Type          notification.NotificationType
	Content       content
	ImageURL      *string
	Trigger       *user.User
	DestinationID string
	Recipients    []string
}

// RegisterHandlers subscribes one handler per notification type on bus.
// TRACK_PUBLIC_APPROVED re-publishes NEW_TRACK on the same bus.
func (s *Service) RegisterHandlers(bus *eventbus.Bus) {
	eventbus.On(bus, string(notification.TypeNewTrack), s.HandleNewTrack)
	eventbus.On(bus, string(notification.TypeNewAlbum), s.HandleNewAlbum)
	eventbus.On(bus, string(notification.TypeNewPlaylist), s.HandleNewPlaylist)
	eventbus.On(bus, string(notification.TypeLikeTrack), s.HandleLikeTrack)
	eventbus.On(bus, string(notification.TypeFollow), s.HandleFollow)
	eventbus.On(bus, string(notification.TypeDownloadTrack), s.HandleDownloadTrack)
	eventbus.On(bus, string(notification.TypeSavePlaylist), s.HandleSavePlaylist)
	eventbus.On(bus, string(notification.TypeSaveAlbum), s.HandleSaveAlbum)
	eventbus.On(bus, string(notification.TypeTrackPublicApproved), func(ctx context.Context, p notification.TrackApprovedPayload) error {
		return s.HandleTrackApproved(ctx, p, bus)
	})
}

// HandleNewTrack notifies the artist's followers about a released track
func (s *Service) HandleNewTrack(ctx context.Context, p notification.NewTrackPayload) error {
	p = p.Clean()
	if p.TrackID == "" || p.ArtistID == "" {
		return eventbus.Skip(fmt.Errorf("%w: trackId and artistId", errMissingField))
	}

	artist, err := s.actor(ctx, p.ArtistID)
	if err != nil {
		return err
	}
	followers, err := s.directory.FollowerIDs(ctx, artist.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve followers: %w", err)
	}

	name := p.ArtistName
	if name == "" {
		name = artist.DisplayName()
	}

	return s.deliver(ctx, delivery{
		Type:          notification.TypeNewTrack,
		Content:       newTrackContent(name, p.Title),
		ImageURL:      p.ImageURL,
		Trigger:       &artist,
		DestinationID: p.TrackID,
		Recipients:    followers,
	})
}

// HandleNewAlbum notifies the artist's followers about a released album
func (s *Service) HandleNewAlbum(ctx context.Context, p notification.NewAlbumPayload) error {
	p = p.Clean()
	if p.AlbumID == "" || p.ArtistID == "" {
		return eventbus.Skip(fmt.Errorf("%w: albumId and artistId", errMissingField))
	}

	artist, err := s.actor(ctx, p.ArtistID)
	if err != nil {
		return err
	}
	followers, err := s.directory.FollowerIDs(ctx, artist.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve followers: %w", err)
	}

	name := p.ArtistName
	if name == "" {
		name = artist.DisplayName()
	}

	return s.deliver(ctx, delivery{
		Type:          notification.TypeNewAlbum,
		Content:       newAlbumContent(name, p.Title),
		ImageURL:      p.ImageURL,
		Trigger:       &artist,
		DestinationID: p.AlbumID,
		Recipients:    followers,
	})
}

// HandleNewPlaylist notifies the creator's followers about a public playlist
func (s *Service) HandleNewPlaylist(ctx context.Context, p notification.NewPlaylistPayload) error {
	p = p.Clean()
	if p.PlaylistID == "" || p.UserID == "" {
		return eventbus.Skip(fmt.Errorf("%w: playlistId and userId", errMissingField))
	}

	creator, err := s.actor(ctx, p.UserID)
	if err != nil {
		return err
	}
	followers, err := s.directory.FollowerIDs(ctx, creator.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve followers: %w", err)
	}

	return s.deliver(ctx, delivery{
		Type:          notification.TypeNewPlaylist,
		Content:       newPlaylistContent(creator.DisplayName(), p.Title),
		ImageURL:      p.ImageURL,
		Trigger:       &creator,
		DestinationID: p.PlaylistID,
		Recipients:    followers,
	})
}

// HandleLikeTrack notifies the track's creator
func (s *Service) HandleLikeTrack(ctx context.Context, p notification.LikeTrackPayload) error {
	if p.TrackID == "" || p.UserID == "" {
		return eventbus.Skip(fmt.Errorf("%w: trackId and userId", errMissingField))
	}

	track, err := s.subject(s.directory.GetTrack(ctx, p.TrackID))
	if err != nil {
		return err
	}
	liker, err := s.actor(ctx, p.UserID)
	if err != nil {
		return err
	}

	return s.deliver(ctx, delivery{
		Type:          notification.TypeLikeTrack,
		Content:       likeTrackContent(liker.DisplayName(), track.Title),
		ImageURL:      track.ImageURL,
		Trigger:       &liker,
		DestinationID: track.ID,
		Recipients:    []string{track.OwnerID},
	})
}

// HandleFollow notifies the followed user. The follower count is read after
// the follow was committed by the producer.
func (s *Service) HandleFollow(ctx context.Context, p notification.FollowPayload) error {
	if p.FollowerID == "" || p.FollowingID == "" {
		return eventbus.Skip(fmt.Errorf("%w: followerId and followingId", errMissingField))
	}

	follower, err := s.actor(ctx, p.FollowerID)
	if err != nil {
		return err
	}
	following, err := s.actor(ctx, p.FollowingID)
	if err != nil {
		return err
	}
	count, err := s.directory.FollowerCount(ctx, following.ID)
	if err != nil {
		return fmt.Errorf("failed to count followers: %w", err)
	}

	return s.deliver(ctx, delivery{
		Type:          notification.TypeFollow,
		Content:       followContent(follower.DisplayName(), count),
		ImageURL:      follower.AvatarURL,
		Trigger:       &follower,
		DestinationID: following.ID,
		Recipients:    []string{following.ID},
	})
}

// HandleDownloadTrack notifies the track's creator
func (s *Service) HandleDownloadTrack(ctx context.Context, p notification.DownloadTrackPayload) error {
	if p.TrackID == "" || p.UserID == "" {
		return eventbus.Skip(fmt.Errorf("%w: trackId and userId", errMissingField))
	}

	track, err := s.subject(s.directory.GetTrack(ctx, p.TrackID))
	if err != nil {
		return err
	}
	downloader, err := s.actor(ctx, p.UserID)
	if err != nil {
		return err
	}

	return s.deliver(ctx, delivery{
		Type:          notification.TypeDownloadTrack,
		Content:       downloadTrackContent(downloader.DisplayName(), track.Title),
		ImageURL:      track.ImageURL,
		Trigger:       &downloader,
		DestinationID: track.ID,
		Recipients:    []string{track.OwnerID},
	})
}

// HandleSavePlaylist notifies the playlist's creator
func (s *Service) HandleSavePlaylist(ctx context.Context, p notification.SavePlaylistPayload) error {
	if p.PlaylistID == "" || p.UserID == "" {
		return eventbus.Skip(fmt.Errorf("%w: playlistId and userId", errMissingField))
	}

	playlist, err := s.subject(s.directory.GetPlaylist(ctx, p.PlaylistID))
	if err != nil {
		return err
	}
	saver, err := s.actor(ctx, p.UserID)
	if err != nil {
		return err
	}

	return s.deliver(ctx, delivery{
		Type:          notification.TypeSavePlaylist,
		Content:       savePlaylistContent(saver.DisplayName(), playlist.Title),
		ImageURL:      playlist.ImageURL,
		Trigger:       &saver,
		DestinationID: playlist.ID,
		Recipients:    []string{playlist.OwnerID},
	})
}

// HandleSaveAlbum notifies the album's creator
func (s *Service) HandleSaveAlbum(ctx context.Context, p notification.SaveAlbumPayload) error {
	if p.AlbumID == "" || p.UserID == "" {
		return eventbus.Skip(fmt.Errorf("%w: albumId and userId", errMissingField))
	}

	album, err := s.subject(s.directory.GetAlbum(ctx, p.AlbumID))
	if err != nil {
		return err
	}
	saver, err := s.actor(ctx, p.UserID)
	if err != nil {
		return err
	}

	return s.deliver(ctx, delivery{
		Type:          notification.TypeSaveAlbum,
		Content:       saveAlbumContent(saver.DisplayName(), album.Title),
		ImageURL:      album.ImageURL,
		Trigger:       &saver,
		DestinationID: album.ID,
		Recipients:    []string{album.OwnerID},
	})
}

// HandleTrackApproved tells the creator the track went public, then publishes
// NEW_TRACK on bus so followers get the release notification. Album tracks
// are announced by NEW_ALBUM instead.
func (s *Service) HandleTrackApproved(ctx context.Context, p notification.TrackApprovedPayload, bus eventbus.Publisher) error {
	if p.TrackID == "" {
		return eventbus.Skip(fmt.Errorf("%w: trackId", errMissingField))
	}

	track, err := s.subject(s.directory.GetTrack(ctx, p.TrackID))
	if err != nil {
		return err
	}
	artist, err := s.actor(ctx, track.OwnerID)
	if err != nil {
		return err
	}

	err = s.deliver(ctx, delivery{
		Type:          notification.TypeTrackPublicApproved,
		Content:       trackApprovedContent(track.Title),
		ImageURL:      track.ImageURL,
		DestinationID: track.ID,
		Recipients:    []string{artist.ID},
	})
	if err != nil {
		return err
	}

	if bus == nil || track.AlbumID != nil {
		return nil
	}
	// NEW_TRACK failures are logged by the bus under their own event name.
	_ = bus.Publish(ctx, string(notification.TypeNewTrack), notification.NewTrackPayload{
		TrackID:    track.ID,
		ArtistID:   artist.ID,
		Title:      track.Title,
		ArtistName: artist.DisplayName(),
		ImageURL:   track.ImageURL,
	})
	return nil
}

// actor loads a user referenced by an event; a missing user skips the event.
func (s *Service) actor(ctx context.Context, id string) (user.User, error) {
	u, err := s.directory.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, notification.ErrSubjectNotFound) {
			return user.User{}, eventbus.Skip(err)
		}
		return user.User{}, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) subject(subj notification.Subject, err error) (notification.Subject, error) {
	if err != nil {
		if errors.Is(err, notification.ErrSubjectNotFound) {
			return notification.Subject{}, eventbus.Skip(err)
		}
		return notification.Subject{}, fmt.Errorf("failed to load subject: %w", err)
	}
	return subj, nil
}

// deliver persists one row per recipient, pushes once to all their devices
// and streams the rows to connected clients.
func (s *Service) deliver(ctx context.Context, d delivery) error {
	if len(d.Recipients) == 0 {
		s.logger.Debug("empty audience", "type", d.Type, "destination_id", d.DestinationID)
		return nil
	}

	var (
		triggerID *string
		summary   *user.UserSummary
	)
	if d.Trigger != nil {
		id := d.Trigger.ID
		triggerID = &id
		sum := d.Trigger.Summary()
		summary = &sum
	}
	var destinationID *string
	if d.DestinationID != "" {
		dest := d.DestinationID
		destinationID = &dest
	}

	rows := make([]*notification.Notification, 0, len(d.Recipients))
	for _, recipientID := range d.Recipients {
		rows = append(rows, &notification.Notification{
			Type:          d.Type,
			Title:         d.Content.Title,
			Body:          d.Content.Body,
			ImageURL:      d.ImageURL,
			RecipientID:   recipientID,
			TriggerUserID: triggerID,
			DestinationID: destinationID,
		})
	}

	var err error
	if len(rows) == 1 {
		err = s.repo.Create(ctx, rows[0])
	} else {
		err = s.repo.CreateBatch(ctx, rows)
	}
	if err != nil {
		return fmt.Errorf("failed to persist %s notifications: %w", d.Type, err)
	}

	pushErr := s.push(ctx, d, triggerID, destinationID)

	for _, n := range rows {
		n.TriggerUser = summary
		s.hub.Publish(n.RecipientID, sse.Event{
			Event: notification.RealtimeEventNotification,
			Data:  n.ToResponse(),
		})
	}

	return pushErr
}

func (s *Service) push(ctx context.Context, d delivery, triggerID, destinationID *string) error {
	tokens, err := s.devices.TokensByUserIDs(ctx, d.Recipients)
	if err != nil {
		return fmt.Errorf("failed to resolve device tokens: %w", err)
	}
	tokens = s.withOperatorTokens(tokens)
	if len(tokens) == 0 {
		return nil
	}

	msg := push.Message{
		Tokens: tokens,
		Notification: push.Notification{
			Title: d.Content.Title,
			Body:  d.Content.Body,
		},
		Data: pushData(d.Type, triggerID, destinationID),
	}
	if d.ImageURL != nil {
		msg.Notification.ImageURL = *d.ImageURL
	}

	res, err := s.gateway.Send(ctx, msg)
	if err != nil {
		// Batches that went through still report counts and dead tokens.
		if res.Attempted() {
			s.logDelivery(ctx, string(d.Type), len(tokens), res)
		}
		return fmt.Errorf("failed to push %s notification: %w", d.Type, err)
	}
	s.logDelivery(ctx, string(d.Type), len(tokens), res)
	return nil
}
