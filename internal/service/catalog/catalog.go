package catalog

import (
	"context"

	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/service/file"
)

// Transactor runs fn inside a database transaction carried by ctx.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// requireArtist loads the caller and checks it may publish music.
func requireArtist(ctx context.Context, users user.UserRepository, userID string) (user.User, error) {
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	if u.Role != user.RoleArtist {
		return user.User{}, catalog.ErrArtistRoleRequired
	}
	return u, nil
}

// uploadCover stores u as cover art. A missing upload yields a nil URL.
func uploadCover(ctx context.Context, files file.FileService, kind file.CoverKind, ownerID string, u *catalog.Upload) (*string, error) {
	if u == nil || u.File == nil || u.Header == nil {
		return nil, nil
	}
	url, err := files.UploadCover(ctx, kind, ownerID, u.File, u.Header.Filename)
	if err != nil {
		return nil, err
	}
	return &url, nil
}
