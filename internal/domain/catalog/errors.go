package catalog

import "errors"

var (
	ErrTrackNotFound       = errors.New("track not found")
	ErrAlbumNotFound       = errors.New("album not found")
	ErrPlaylistNotFound    = errors.New("playlist not found")
	ErrArtistRoleRequired  = errors.New("artist role required")
	ErrNotAlbumOwner       = errors.New("album belongs to another artist")
	ErrInvalidPublicStatus = errors.New("invalid public status")
	ErrTrackNotAvailable   = errors.New("track is not available for download")
	ErrFileSizeExceeds     = errors.New("file size exceeds the allowed limit")
)
