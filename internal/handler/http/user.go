package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	ToggleFollow(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

func (h *userHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	profile, err := h.userService.GetProfile(r.Context(), userID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

func (h *userHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetProfile(r.Context(), getUserIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

// UpdateProfile accepts JSON, or multipart with a "data" field and an optional "avatar" file.
func (h *userHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateProfileRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	var (
		avatar   io.Reader
		filename string
	)
	if up := formUpload(r, "avatar"); up != nil {
		defer closeUploads(up)
		avatar = up.File
		filename = up.Header.Filename
	}

	profile, err := h.userService.UpdateProfile(r.Context(), getUserIDFromContext(r), req, avatar, filename)
	if err != nil {
		slog.Error("UpdateProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", profile)
}

func (h *userHandlerImpl) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.ToggleFollow(r.Context(), getUserIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
