package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/device"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
)

type DeviceHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Unregister(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	deviceService device.Service
}

func NewDeviceHandler(deviceService device.Service) DeviceHandler {
	return &deviceHandlerImpl{deviceService: deviceService}
}

// Register binds a push token to the authenticated user.
func (h *deviceHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req device.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Register device decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.deviceService.Register(r.Context(), getUserIDFromContext(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Device registered successfully", result)
}

func (h *deviceHandlerImpl) Unregister(w http.ResponseWriter, r *http.Request) {
	if err := h.deviceService.Unregister(r.Context(), getUserIDFromContext(r), chi.URLParam(r, "token")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device unregistered successfully", nil)
}

func (h *deviceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceService.List(r.Context(), getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, devices)
}
