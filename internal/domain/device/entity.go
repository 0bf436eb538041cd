package device

import "time"

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformAndroid, PlatformIOS, PlatformWeb:
		return true
	}
	return false
}

// Device associates a user with one push-capable client installation.
type Device struct {
	ID        string
	UserID    string
	Token     string
	Platform  Platform
	CreatedAt time.Time
	UpdatedAt time.Time
}
