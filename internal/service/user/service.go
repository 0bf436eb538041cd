package user

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/eventbus"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
	"github.com/musicverse/musicverse-backend-go/internal/service/file"
)

// Transactor runs fn inside a database transaction carried by ctx.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserServiceImpl struct {
	tx      Transactor
	users   user.UserRepository
	follows user.FollowRepository
	files   file.FileService
	events  eventbus.Publisher
}

func NewUserService(tx Transactor, users user.UserRepository, follows user.FollowRepository, files file.FileService, events eventbus.Publisher) user.UserService {
	return &UserServiceImpl{
		tx:      tx,
		users:   users,
		follows: follows,
		files:   files,
		events:  events,
	}
}

// GetProfile implements user.UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context, viewerID, userID string) (user.ProfileResponse, error) {
	if !validator.IsValidUUID(userID) {
		return user.ProfileResponse{}, user.ErrUserNotFound
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.ProfileResponse{}, err
	}

	profile, err := s.profile(ctx, viewerID, u)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return profile.ToResponse(viewerID == userID), nil
}

// UpdateProfile implements user.UserService. A nil avatar keeps the current one.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest, avatar io.Reader, avatarFilename string) (user.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return user.ProfileResponse{}, err
	}

	var avatarURL *string
	if avatar != nil {
		url, err := s.files.UploadAvatar(ctx, userID, avatar, avatarFilename)
		if err != nil {
			return user.ProfileResponse{}, err
		}
		avatarURL = &url
	}

	updated, err := s.users.UpdateProfile(ctx, userID, req, avatarURL)
	if err != nil {
		return user.ProfileResponse{}, err
	}

	profile, err := s.profile(ctx, userID, updated)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return profile.ToResponse(true), nil
}

// ToggleFollow implements user.UserService. FOLLOW is emitted only for new
// follows and only after the relationship is committed.
func (s *UserServiceImpl) ToggleFollow(ctx context.Context, userID, targetID string) (user.FollowResponse, error) {
	if userID == targetID {
		return user.FollowResponse{}, user.ErrCannotFollowSelf
	}
	if !validator.IsValidUUID(targetID) {
		return user.FollowResponse{}, user.ErrUserNotFound
	}

	var resp user.FollowResponse
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			return err
		}

		following, err := s.follows.IsFollowing(ctx, userID, targetID)
		if err != nil {
			return err
		}
		if following {
			err = s.follows.Unfollow(ctx, userID, targetID)
		} else {
			err = s.follows.Follow(ctx, userID, targetID)
		}
		if err != nil {
			return err
		}

		count, err := s.follows.CountFollowers(ctx, targetID)
		if err != nil {
			return err
		}
		resp = user.FollowResponse{Following: !following, FollowerCount: count}
		return nil
	})
	if err != nil {
		return user.FollowResponse{}, err
	}

	if resp.Following {
		s.events.Emit(ctx, string(notification.TypeFollow), notification.FollowPayload{
			FollowerID:  userID,
			FollowingID: targetID,
		})
	}

	slog.Debug("follow toggled", "user_id", userID, "target_id", targetID, "following", resp.Following)
	return resp, nil
}

func (s *UserServiceImpl) profile(ctx context.Context, viewerID string, u user.User) (user.Profile, error) {
	followers, err := s.follows.CountFollowers(ctx, u.ID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("failed to count followers: %w", err)
	}
	following, err := s.follows.CountFollowing(ctx, u.ID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("failed to count following: %w", err)
	}

	isFollowing := false
	if viewerID != "" && viewerID != u.ID {
		isFollowing, err = s.follows.IsFollowing(ctx, viewerID, u.ID)
		if err != nil {
			return user.Profile{}, err
		}
	}

	return user.Profile{
		User:           u,
		FollowerCount:  followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}, nil
}
