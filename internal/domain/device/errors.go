package device

import "errors"

var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrTokenRequired   = errors.New("device token is required")
	ErrInvalidPlatform = errors.New("invalid device platform")
)
