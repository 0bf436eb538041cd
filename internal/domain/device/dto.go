package device

import (
	"strings"
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Token    string   `json:"token"`
	Platform Platform `json:"platform"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Token = strings.TrimSpace(r.Token)
	if r.Token == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "token",
			Message: "token is required",
		})
	} else if len(r.Token) > 512 {
		errs = append(errs, validator.ValidationError{
			Field:   "token",
			Message: "token must not exceed 512 characters",
		})
	}

	if r.Platform == "" {
		r.Platform = PlatformAndroid
	} else if !r.Platform.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "platform",
			Message: "platform must be one of android, ios, web",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeviceResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Platform  Platform  `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d Device) ToResponse() DeviceResponse {
	return DeviceResponse{
		ID:        d.ID,
		Token:     d.Token,
		Platform:  d.Platform,
		CreatedAt: d.CreatedAt,
	}
}
