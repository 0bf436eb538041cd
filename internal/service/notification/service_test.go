package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, f *fixture) {
	t.Helper()
	rows := []*notification.Notification{
		{Type: notification.TypeLikeTrack, Title: "New Like ❤️", Body: "Carol liked your song, Blue", RecipientID: artistID},
		{Type: notification.TypeFollow, Title: "New Follower 👤", Body: "Bob started following you", RecipientID: artistID},
		{Type: notification.TypeFollow, Title: "New Follower 👤", Body: "Ann started following you", RecipientID: artistID},
		{Type: notification.TypeFollow, Title: "New Follower 👤", Body: "Dan started following you", RecipientID: fanID},
	}
	require.NoError(t, f.repo.CreateBatch(context.Background(), rows))
}

func TestGetNotifications_ScopedAndPaged(t *testing.T) {
	f := newFixture(t, Config{})
	seed(t, f)

	res, err := f.svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{UserID: artistID, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 1, res.Page)
	require.Len(t, res.Items, 2)
	assert.Equal(t, notification.TypeLikeTrack, res.Items[0].Type, "oldest first by default")

	res, err = f.svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{UserID: artistID, SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "Ann started following you", res.Items[0].Body)

	res, err = f.svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{UserID: artistID, Search: "carol"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCount)
}

func TestGetNotifications_InvalidQuery(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{UserID: artistID, SortOrder: "sideways", Type: "NOPE"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestGetNotifications_UnreadWinsOverTypeAndRead(t *testing.T) {
	f := newFixture(t, Config{})
	seed(t, f)
	rows := f.repo.byRecipient(artistID)
	_, err := f.svc.UpdateReadStatus(context.Background(), &rows[1].ID, artistID, true)
	require.NoError(t, err)

	for _, typ := range []string{"", "FOLLOW", "LIKE_TRACK"} {
		res, err := f.svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{
			UserID: artistID, Type: typ, Unread: true, Read: true,
		})
		require.NoError(t, err)
		for _, item := range res.Items {
			assert.False(t, item.Read, "type=%q", typ)
		}
	}

	res, err := f.svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{UserID: artistID, Read: true})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, rows[1].ID, res.Items[0].ID)
}

func TestUpdateReadStatus(t *testing.T) {
	f := newFixture(t, Config{})
	seed(t, f)
	ctx := context.Background()
	mine := f.repo.byRecipient(artistID)
	theirs := f.repo.byRecipient(fanID)

	t.Run("not owned is not found and untouched", func(t *testing.T) {
		_, err := f.svc.UpdateReadStatus(ctx, &theirs[0].ID, artistID, true)
		assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
		assert.False(t, f.repo.byRecipient(fanID)[0].Read)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		bad := "not-a-uuid"
		_, err := f.svc.UpdateReadStatus(ctx, &bad, artistID, true)
		assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
	})

	t.Run("idempotent", func(t *testing.T) {
		for range 2 {
			_, err := f.svc.UpdateReadStatus(ctx, &mine[0].ID, artistID, true)
			require.NoError(t, err)
			assert.True(t, f.repo.byRecipient(artistID)[0].Read)
		}
	})

	t.Run("bulk only touches the caller", func(t *testing.T) {
		n, err := f.svc.UpdateReadStatus(ctx, nil, artistID, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		unread, err := f.svc.GetUnreadNotificationsCount(ctx, artistID)
		require.NoError(t, err)
		assert.Zero(t, unread)

		unread, err = f.svc.GetUnreadNotificationsCount(ctx, fanID)
		require.NoError(t, err)
		assert.Equal(t, 1, unread)
	})

	t.Run("bulk unread", func(t *testing.T) {
		n, err := f.svc.UpdateReadStatus(ctx, nil, artistID, false)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestGetNotificationsCount(t *testing.T) {
	f := newFixture(t, Config{})
	seed(t, f)
	ctx := context.Background()

	all, err := f.svc.GetNotificationsCount(ctx, artistID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all)

	follow := notification.TypeFollow
	follows, err := f.svc.GetNotificationsCount(ctx, artistID, &follow)
	require.NoError(t, err)
	assert.Equal(t, 2, follows)

	bogus := notification.NotificationType("BOGUS")
	_, err = f.svc.GetNotificationsCount(ctx, artistID, &bogus)
	assert.ErrorIs(t, err, notification.ErrInvalidNotificationType)
}

func TestAnnouncementToAll(t *testing.T) {
	f := newFixture(t, Config{OperatorTokens: []string{"operator"}})
	f.devices.tokens[artistID] = []string{"a"}
	f.devices.tokens[fanID] = []string{"b"}

	res, err := f.svc.AnnouncementToAll(context.Background(), " Maintenance ", "Back soon")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Tokens)
	assert.Equal(t, 3, res.SuccessCount)

	sent := f.gateway.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"a", "b", "operator"}, sent[0].Tokens)
	assert.Equal(t, "Maintenance", sent[0].Notification.Title)
	assert.Empty(t, f.repo.all(), "announcements are not stored")

	_, err = f.svc.AnnouncementToAll(context.Background(), "", "body")
	assert.ErrorIs(t, err, notification.ErrEmptyAnnouncement)
}

func TestAnnouncementToAll_NoDevices(t *testing.T) {
	f := newFixture(t, Config{})

	res, err := f.svc.AnnouncementToAll(context.Background(), "Hi", "there")
	require.NoError(t, err)
	assert.Zero(t, res.Tokens)
	assert.Empty(t, f.gateway.sent())
}

func TestSubscribe_LogsConnectionCounts(t *testing.T) {
	var buf bytes.Buffer
	f := newFixture(t, Config{})
	svc := NewNotificationService(f.repo, f.dir, f.devices, f.gateway, f.hub, Config{}, slog.New(slog.NewJSONHandler(&buf, nil)))

	_, first := svc.Subscribe(t.Context(), artistID)
	_, second := svc.Subscribe(t.Context(), artistID)
	second()
	second()
	first()

	type entry struct {
		Msg             string `json:"msg"`
		UserConnections int    `json:"user_connections"`
		Total           int    `json:"total_connections"`
	}
	var got []entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e entry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		got = append(got, e)
	}

	assert.Equal(t, []entry{
		{"realtime client connected", 1, 1},
		{"realtime client connected", 2, 2},
		{"realtime client disconnected", 1, 1},
		{"realtime client disconnected", 0, 0},
	}, got)
}
