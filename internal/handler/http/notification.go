package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/jwt"
)

const (
	keepaliveInterval = 30 * time.Second
	wsWriteWait       = 10 * time.Second
	wsPongWait        = 60 * time.Second
	wsMaxMessageSize  = 512
)

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	MarkAsUnread(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)
	MarkAllAsUnread(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	Count(w http.ResponseWriter, r *http.Request)

	// Realtime
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	WebSocket(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.Service
	jwtService   jwt.Service
	upgrader     websocket.Upgrader
}

// NewNotificationHandler creates a new notification handler. allowedOrigins
// restricts websocket upgrades; "*" or an empty list accepts any origin.
func NewNotificationHandler(notifService notification.Service, jwtService jwt.Service, allowedOrigins []string) NotificationHandler {
	return &notificationHandlerImpl{
		notifService: notifService,
		jwtService:   jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// List returns a page of notifications for the authenticated user
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	q := r.URL.Query()
	req := notification.ListNotificationsRequest{
		UserID:    userID,
		Page:      getIntQueryParam(r, "page", 1),
		PageSize:  getIntQueryParam(r, "pageSize", notification.DefaultPageSize),
		Search:    q.Get("search"),
		SortOrder: q.Get("sortOrder"),
		Type:      q.Get("type"),
		Read:      getBoolQueryParam(r, "read", false),
		Unread:    getBoolQueryParam(r, "unread", false),
	}

	result, err := h.notifService.GetNotifications(r.Context(), req)
	if err != nil {
		slog.Error("List notifications service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.NewMeta(result.Page, result.PageSize, result.TotalCount))
}

func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	h.updateReadStatus(w, r, true, true)
}

func (h *notificationHandlerImpl) MarkAsUnread(w http.ResponseWriter, r *http.Request) {
	h.updateReadStatus(w, r, true, false)
}

func (h *notificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	h.updateReadStatus(w, r, false, true)
}

func (h *notificationHandlerImpl) MarkAllAsUnread(w http.ResponseWriter, r *http.Request) {
	h.updateReadStatus(w, r, false, false)
}

func (h *notificationHandlerImpl) updateReadStatus(w http.ResponseWriter, r *http.Request, single, read bool) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var id *string
	if single {
		notifID := chi.URLParam(r, "id")
		if notifID == "" {
			response.BadRequest(w, "Notification ID is required", nil)
			return
		}
		id = &notifID
	}

	updated, err := h.notifService.UpdateReadStatus(r.Context(), id, userID, read)
	if err != nil {
		slog.Error("UpdateReadStatus service error", "error", err)
		response.HandleError(w, err)
		return
	}

	message := "Notifications marked as unread"
	if read {
		message = "Notifications marked as read"
	}
	response.SuccessWithMessage(w, message, notification.UpdateReadStatusResponse{Updated: updated})
}

// UnreadCount returns the count of unread notifications
func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	count, err := h.notifService.GetUnreadNotificationsCount(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notification.CountResponse{Count: count})
}

// Count returns the number of notifications, optionally of one type
func (h *notificationHandlerImpl) Count(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var notifType *notification.NotificationType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := notification.NotificationType(raw)
		notifType = &t
	}

	count, err := h.notifService.GetNotificationsCount(r.Context(), userID, notifType)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notification.CountResponse{Count: count})
}

// GetSSEToken generates a short-lived token for realtime connections
func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, notification.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// streamUser validates the ?token= query parameter used by realtime endpoints
func (h *notificationHandlerImpl) streamUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return "", false
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// Stream handles SSE connection for real-time notifications
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send custom headers
	userID, ok := h.streamUser(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.notifService.Subscribe(r.Context(), userID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"userId\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// WebSocket streams the same events as Stream over a websocket connection.
func (h *notificationHandlerImpl) WebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.streamUser(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, cleanup := h.notifService.Subscribe(ctx, userID)
	defer cleanup()

	// Inbound frames are ignored; reading drives pong handling and close detection.
	conn.SetReadLimit(wsMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Warn("websocket read error", "user_id", userID, "error", err)
				}
				return
			}
		}
	}()

	write := func(v any) error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v)
	}

	if err := write(map[string]string{"event": "connected", "userId": userID}); err != nil {
		return
	}

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(wsWriteWait))
				return
			}
			if err := write(event); err != nil {
				return
			}

		case <-keepalive.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
