package user

import (
	"context"
	"io"
)

type UserService interface {
	GetProfile(ctx context.Context, viewerID, userID string) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest, avatar io.Reader, avatarFilename string) (ProfileResponse, error)
	// ToggleFollow follows targetID, or unfollows when already following.
	ToggleFollow(ctx context.Context, userID, targetID string) (FollowResponse, error)
}
