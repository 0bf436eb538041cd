package user

import "time"

type Role string

const (
	RoleUser   Role = "USER"
	RoleArtist Role = "ARTIST"
	RoleAdmin  Role = "ADMIN"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Name         *string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the profile name, falling back to the username.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Username
}

// IsAdmin checks if user can review content and broadcast announcements
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is a user together with social graph counters.
type Profile struct {
	User
	FollowerCount  int
	FollowingCount int
	IsFollowing    bool
}
