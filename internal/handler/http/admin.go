package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
)

type AdminHandler interface {
	Announce(w http.ResponseWriter, r *http.Request)
	ReviewTrack(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	notifService notification.Service
	trackService catalog.TrackService
}

func NewAdminHandler(notifService notification.Service, trackService catalog.TrackService) AdminHandler {
	return &adminHandlerImpl{
		notifService: notifService,
		trackService: trackService,
	}
}

// Announce pushes an operator message to every registered device.
func (h *adminHandlerImpl) Announce(w http.ResponseWriter, r *http.Request) {
	var req notification.AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Announce decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.notifService.AnnouncementToAll(r.Context(), req.Title, req.Body)
	if err != nil {
		slog.Error("Announce service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Announcement sent", "tokens", result.Tokens, "success", result.SuccessCount)
	response.SuccessWithMessage(w, "Announcement sent", result)
}

func (h *adminHandlerImpl) ReviewTrack(w http.ResponseWriter, r *http.Request) {
	var req catalog.ReviewTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReviewTrack decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.trackService.Review(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
