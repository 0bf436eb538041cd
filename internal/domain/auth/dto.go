package auth

import (
	"strings"

	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Name            *string   `json:"name,omitempty"`
	Password        string    `json:"password"`
	ConfirmPassword string    `json:"confirmPassword"`
	Role            user.Role `json:"role,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	} else if !validator.IsValidUsername(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username must be 3-30 characters of letters, numbers, dots and underscores",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}
	if r.Password != r.ConfirmPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "confirmPassword",
			Message: "passwords do not match",
		})
	}

	// Admins are provisioned out of band.
	switch r.Role {
	case "":
		r.Role = user.RoleUser
	case user.RoleUser, user.RoleArtist:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be USER or ARTIST",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken          string               `json:"accessToken"`
	AccessTokenExpiresAt int64                `json:"accessTokenExpiresAt"`
	User                 user.ProfileResponse `json:"user"`
}
