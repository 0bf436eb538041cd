package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testUserID   = "0190a8f2-0000-7000-8000-000000000001"
	testArtistID = "0190a8f2-0000-7000-8000-000000000002"
	testAdminID  = "0190a8f2-0000-7000-8000-000000000003"
)

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) GetNotifications(ctx context.Context, req notification.ListNotificationsRequest) (*notification.NotificationListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*notification.NotificationListResponse)
	return resp, args.Error(1)
}

func (m *mockNotificationService) UpdateReadStatus(ctx context.Context, id *string, userID string, read bool) (int64, error) {
	args := m.Called(ctx, id, userID, read)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) GetNotificationsCount(ctx context.Context, userID string, notifType *notification.NotificationType) (int, error) {
	args := m.Called(ctx, userID, notifType)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationService) GetUnreadNotificationsCount(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationService) AnnouncementToAll(ctx context.Context, title, body string) (notification.AnnouncementResponse, error) {
	args := m.Called(ctx, title, body)
	return args.Get(0).(notification.AnnouncementResponse), args.Error(1)
}

func (m *mockNotificationService) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	args := m.Called(ctx, userID)
	return args.Get(0).(<-chan notification.SSEEvent), args.Get(1).(func())
}

type mockTrackService struct{ mock.Mock }

func (m *mockTrackService) Create(ctx context.Context, artistID string, req catalog.CreateTrackRequest) (catalog.TrackResponse, error) {
	args := m.Called(ctx, artistID, req)
	return args.Get(0).(catalog.TrackResponse), args.Error(1)
}

func (m *mockTrackService) GetByID(ctx context.Context, id string) (catalog.TrackResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.TrackResponse), args.Error(1)
}

func (m *mockTrackService) Review(ctx context.Context, trackID string, req catalog.ReviewTrackRequest) (catalog.TrackResponse, error) {
	args := m.Called(ctx, trackID, req)
	return args.Get(0).(catalog.TrackResponse), args.Error(1)
}

func (m *mockTrackService) ToggleLike(ctx context.Context, userID, trackID string) (catalog.LikeResponse, error) {
	args := m.Called(ctx, userID, trackID)
	return args.Get(0).(catalog.LikeResponse), args.Error(1)
}

func (m *mockTrackService) Download(ctx context.Context, userID, trackID string) (catalog.DownloadResponse, error) {
	args := m.Called(ctx, userID, trackID)
	return args.Get(0).(catalog.DownloadResponse), args.Error(1)
}

type testServer struct {
	router *chi.Mux
	jwt    *jwt.JWTService
	notif  *mockNotificationService
	tracks *mockTrackService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtService, err := jwt.NewJWTService("handler-test-secret", "1h")
	require.NoError(t, err)

	notif := &mockNotificationService{}
	tracks := &mockTrackService{}
	t.Cleanup(func() {
		notif.AssertExpectations(t)
		tracks.AssertExpectations(t)
	})

	router := NewRouter(RouterConfig{AllowedOrigins: []string{"*"}}, jwtService, Handlers{
		Auth:         NewAuthHandler(nil),
		User:         NewUserHandler(nil),
		Device:       NewDeviceHandler(nil),
		Catalog:      NewCatalogHandler(tracks, nil, nil),
		Notification: NewNotificationHandler(notif, jwtService, nil),
		Admin:        NewAdminHandler(notif, tracks),
	})

	return &testServer{router: router, jwt: jwtService, notif: notif, tracks: tracks}
}

func (s *testServer) token(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(userID, "tester", role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), rec.Body.String())
	return env
}
