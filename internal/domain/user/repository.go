package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (usernameTaken bool, emailTaken bool, err error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest, avatarURL *string) (User, error)
}

// FollowRepository stores the follower graph. A row means followerID follows followingID.
type FollowRepository interface {
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
}
