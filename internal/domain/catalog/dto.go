package catalog

import (
	"mime/multipart"
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
)

const (
	MaxCoverSize = 5 << 20
	MaxAudioSize = 50 << 20
)

// Upload is a file part of a multipart request
type Upload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

func (u *Upload) present() bool {
	return u != nil && u.File != nil && u.Header != nil
}

func validateUpload(errs validator.ValidationErrors, field string, u *Upload, maxSize int64) validator.ValidationErrors {
	if u.present() && u.Header.Size > maxSize {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: ErrFileSizeExceeds.Error(),
		})
	}
	return errs
}

// ============= Tracks =============

type CreateTrackRequest struct {
	Title        string       `json:"title"`
	AlbumID      *string      `json:"albumId,omitempty"`
	PublicStatus PublicStatus `json:"publicStatus"`
	Cover        *Upload      `json:"-"`
	Audio        *Upload      `json:"-"`
}

func (r *CreateTrackRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 200 characters",
		})
	}

	if r.AlbumID != nil && !validator.IsValidUUID(*r.AlbumID) {
		errs = append(errs, validator.ValidationError{
			Field:   "albumId",
			Message: "albumId must be a valid UUID",
		})
	}

	if r.PublicStatus == "" {
		r.PublicStatus = StatusNotRequested
	} else if !r.PublicStatus.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "publicStatus",
			Message: "publicStatus must be one of NOT_REQUESTED, PENDING, APPROVED, REJECTED",
		})
	}

	errs = validateUpload(errs, "cover", r.Cover, MaxCoverSize)
	errs = validateUpload(errs, "audio", r.Audio, MaxAudioSize)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewTrackRequest struct {
	Status PublicStatus `json:"status"`
}

func (r *ReviewTrackRequest) Validate() error {
	var errs validator.ValidationErrors

	switch r.Status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of PENDING, APPROVED, REJECTED",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TrackResponse struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	ArtistID     string       `json:"artistId"`
	AlbumID      *string      `json:"albumId,omitempty"`
	AudioURL     *string      `json:"audioUrl,omitempty"`
	Cover        *string      `json:"cover,omitempty"`
	PublicStatus PublicStatus `json:"publicStatus"`
	LikeCount    int          `json:"likeCount"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func (t Track) ToResponse() TrackResponse {
	return TrackResponse{
		ID:           t.ID,
		Title:        t.Title,
		ArtistID:     t.ArtistID,
		AlbumID:      t.AlbumID,
		AudioURL:     t.AudioURL,
		Cover:        t.CoverURL,
		PublicStatus: t.PublicStatus,
		CreatedAt:    t.CreatedAt,
	}
}

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

type DownloadResponse struct {
	TrackID  string `json:"trackId"`
	AudioURL string `json:"audioUrl"`
}

// ============= Albums =============

type CreateAlbumRequest struct {
	Title string  `json:"title"`
	Cover *Upload `json:"-"`
}

func (r *CreateAlbumRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 200 characters",
		})
	}
	errs = validateUpload(errs, "cover", r.Cover, MaxCoverSize)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AlbumResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ArtistID  string    `json:"artistId"`
	Cover     *string   `json:"cover,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a Album) ToResponse() AlbumResponse {
	return AlbumResponse{
		ID:        a.ID,
		Title:     a.Title,
		ArtistID:  a.ArtistID,
		Cover:     a.CoverURL,
		CreatedAt: a.CreatedAt,
	}
}

// ============= Playlists =============

type CreatePlaylistRequest struct {
	Title    string  `json:"title"`
	IsPublic *bool   `json:"isPublic,omitempty"`
	Cover    *Upload `json:"-"`
}

func (r *CreatePlaylistRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 200 characters",
		})
	}
	errs = validateUpload(errs, "cover", r.Cover, MaxCoverSize)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Public reports the requested visibility; playlists are public unless stated otherwise.
func (r *CreatePlaylistRequest) Public() bool {
	return r.IsPublic == nil || *r.IsPublic
}

type PlaylistResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"userId"`
	Cover     *string   `json:"cover,omitempty"`
	IsPublic  bool      `json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p Playlist) ToResponse() PlaylistResponse {
	return PlaylistResponse{
		ID:        p.ID,
		Title:     p.Title,
		UserID:    p.UserID,
		Cover:     p.CoverURL,
		IsPublic:  p.IsPublic,
		CreatedAt: p.CreatedAt,
	}
}

type SaveResponse struct {
	Saved bool `json:"saved"`
}
