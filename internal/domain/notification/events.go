package notification

import "strings"

// Event payloads, one per notification type. Producers publish them on the
// event bus under the matching NotificationType name.

type NewTrackPayload struct {
	TrackID    string
	ArtistID   string
	Title      string
	ArtistName string
	ImageURL   *string
}

func (p NewTrackPayload) Clean() NewTrackPayload {
	p.TrackID = strings.TrimSpace(p.TrackID)
	p.ArtistID = strings.TrimSpace(p.ArtistID)
	p.Title = strings.TrimSpace(p.Title)
	p.ArtistName = strings.TrimSpace(p.ArtistName)
	p.ImageURL = optional(p.ImageURL)
	return p
}

type NewAlbumPayload struct {
	AlbumID    string
	ArtistID   string
	Title      string
	ArtistName string
	ImageURL   *string
}

func (p NewAlbumPayload) Clean() NewAlbumPayload {
	p.AlbumID = strings.TrimSpace(p.AlbumID)
	p.ArtistID = strings.TrimSpace(p.ArtistID)
	p.Title = strings.TrimSpace(p.Title)
	p.ArtistName = strings.TrimSpace(p.ArtistName)
	p.ImageURL = optional(p.ImageURL)
	return p
}

type NewPlaylistPayload struct {
	PlaylistID string
	UserID     string
	Title      string
	ImageURL   *string
}

func (p NewPlaylistPayload) Clean() NewPlaylistPayload {
	p.PlaylistID = strings.TrimSpace(p.PlaylistID)
	p.UserID = strings.TrimSpace(p.UserID)
	p.Title = strings.TrimSpace(p.Title)
	p.ImageURL = optional(p.ImageURL)
	return p
}

type LikeTrackPayload struct {
	TrackID string
	UserID  string
}

type FollowPayload struct {
	FollowerID  string
	FollowingID string
}

type DownloadTrackPayload struct {
	TrackID string
	UserID  string
}

type SavePlaylistPayload struct {
	PlaylistID string
	UserID     string
}

type SaveAlbumPayload struct {
	AlbumID string
	UserID  string
}

type TrackApprovedPayload struct {
	TrackID string
}

// optional turns a blank string pointer into nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
