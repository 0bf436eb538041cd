package user

import (
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
)

// UserSummary is the compact user shape embedded in other responses
type UserSummary struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// ProfileResponse represents user data in API responses
type ProfileResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Name           *string   `json:"name,omitempty"`
	AvatarURL      *string   `json:"avatarUrl,omitempty"`
	Role           Role      `json:"role"`
	FollowerCount  int       `json:"followerCount"`
	FollowingCount int       `json:"followingCount"`
	IsFollowing    bool      `json:"isFollowing"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FollowResponse is returned by the follow toggle
type FollowResponse struct {
	Following     bool `json:"following"`
	FollowerCount int  `json:"followerCount"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && len(*r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToResponse renders the profile. Email is only included for the owner.
func (p *Profile) ToResponse(self bool) ProfileResponse {
	resp := ProfileResponse{
		ID:             p.ID,
		Username:       p.Username,
		Name:           p.Name,
		AvatarURL:      p.AvatarURL,
		Role:           p.Role,
		FollowerCount:  p.FollowerCount,
		FollowingCount: p.FollowingCount,
		IsFollowing:    p.IsFollowing,
		CreatedAt:      p.CreatedAt,
	}
	if self {
		resp.Email = p.Email
	}
	return resp
}
