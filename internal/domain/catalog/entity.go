package catalog

import "time"

// PublicStatus is the review state of a track
type PublicStatus string

const (
	StatusNotRequested PublicStatus = "NOT_REQUESTED"
	StatusPending      PublicStatus = "PENDING"
	StatusApproved     PublicStatus = "APPROVED"
	StatusRejected     PublicStatus = "REJECTED"
)

func (s PublicStatus) IsValid() bool {
	switch s {
	case StatusNotRequested, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Track struct {
	ID           string
	Title        string
	ArtistID     string
	AlbumID      *string
	AudioURL     *string
	CoverURL     *string
	PublicStatus PublicStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPublic reports whether followers may see the track
func (t *Track) IsPublic() bool {
	return t.PublicStatus == StatusApproved
}

type Album struct {
	ID        string
	Title     string
	ArtistID  string
	CoverURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Playlist struct {
	ID        string
	Title     string
	UserID    string
	CoverURL  *string
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
