package user

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceID = "0190a8f2-0000-7000-8000-000000000001"
	bobID   = "0190a8f2-0000-7000-8000-000000000002"
	ghostID = "0190a8f2-0000-7000-8000-0000000000ff"
)

type inlineTx struct{ calls int }

func (t *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type memoryUsers struct {
	user.UserRepository
	users map[string]user.User
}

func (m *memoryUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest, avatarURL *string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	if req.Name != nil {
		u.Name = req.Name
	}
	if avatarURL != nil {
		u.AvatarURL = avatarURL
	}
	m.users[id] = u
	return u, nil
}

type memoryFollows struct {
	edges map[[2]string]bool
}

func (m *memoryFollows) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return m.edges[[2]string{followerID, followingID}], nil
}

func (m *memoryFollows) Follow(ctx context.Context, followerID, followingID string) error {
	m.edges[[2]string{followerID, followingID}] = true
	return nil
}

func (m *memoryFollows) Unfollow(ctx context.Context, followerID, followingID string) error {
	delete(m.edges, [2]string{followerID, followingID})
	return nil
}

func (m *memoryFollows) CountFollowers(ctx context.Context, userID string) (int, error) {
	n := 0
	for e := range m.edges {
		if e[1] == userID {
			n++
		}
	}
	return n, nil
}

func (m *memoryFollows) CountFollowing(ctx context.Context, userID string) (int, error) {
	n := 0
	for e := range m.edges {
		if e[0] == userID {
			n++
		}
	}
	return n, nil
}

func (m *memoryFollows) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for e := range m.edges {
		if e[1] == userID {
			ids = append(ids, e[0])
		}
	}
	return ids, nil
}

type recordedEvent struct {
	name    string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, name string, payload any) error {
	p.Emit(ctx, name, payload)
	return nil
}

func (p *recordingPublisher) Emit(ctx context.Context, name string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{name, payload})
}

func setup() (*UserServiceImpl, *memoryFollows, *recordingPublisher, *inlineTx) {
	alice := "Alice"
	users := &memoryUsers{users: map[string]user.User{
		aliceID: {ID: aliceID, Username: "alice", Email: "alice@example.com", Name: &alice, Role: user.RoleArtist},
		bobID:   {ID: bobID, Username: "bob", Email: "bob@example.com", Role: user.RoleUser},
	}}
	follows := &memoryFollows{edges: map[[2]string]bool{}}
	events := &recordingPublisher{}
	tx := &inlineTx{}
	svc := NewUserService(tx, users, follows, nil, events).(*UserServiceImpl)
	return svc, follows, events, tx
}

func TestToggleFollow_FollowEmitsAfterCommit(t *testing.T) {
	svc, _, events, tx := setup()

	resp, err := svc.ToggleFollow(context.Background(), bobID, aliceID)
	require.NoError(t, err)
	assert.True(t, resp.Following)
	assert.Equal(t, 1, resp.FollowerCount)
	assert.Equal(t, 1, tx.calls)

	require.Len(t, events.events, 1)
	assert.Equal(t, string(notification.TypeFollow), events.events[0].name)
	assert.Equal(t, notification.FollowPayload{FollowerID: bobID, FollowingID: aliceID}, events.events[0].payload)
}

func TestToggleFollow_UnfollowEmitsNothing(t *testing.T) {
	svc, follows, events, _ := setup()
	require.NoError(t, follows.Follow(context.Background(), bobID, aliceID))

	resp, err := svc.ToggleFollow(context.Background(), bobID, aliceID)
	require.NoError(t, err)
	assert.False(t, resp.Following)
	assert.Zero(t, resp.FollowerCount)
	assert.Empty(t, events.events)
}

func TestToggleFollow_Errors(t *testing.T) {
	svc, _, events, _ := setup()

	_, err := svc.ToggleFollow(context.Background(), bobID, bobID)
	assert.ErrorIs(t, err, user.ErrCannotFollowSelf)

	_, err = svc.ToggleFollow(context.Background(), bobID, ghostID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = svc.ToggleFollow(context.Background(), bobID, "nope")
	assert.True(t, errors.Is(err, user.ErrUserNotFound))

	assert.Empty(t, events.events)
}

func TestGetProfile(t *testing.T) {
	svc, follows, _, _ := setup()
	ctx := context.Background()
	require.NoError(t, follows.Follow(ctx, bobID, aliceID))

	other, err := svc.GetProfile(ctx, bobID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, 1, other.FollowerCount)
	assert.True(t, other.IsFollowing)
	assert.Empty(t, other.Email, "email hidden from other users")

	self, err := svc.GetProfile(ctx, bobID, bobID)
	require.NoError(t, err)
	assert.Equal(t, 1, self.FollowingCount)
	assert.Equal(t, "bob@example.com", self.Email)
}

func TestUpdateProfile_Name(t *testing.T) {
	svc, _, _, _ := setup()

	name := "Bobby"
	resp, err := svc.UpdateProfile(context.Background(), bobID, user.UpdateProfileRequest{Name: &name}, nil, "")
	require.NoError(t, err)
	require.NotNil(t, resp.Name)
	assert.Equal(t, "Bobby", *resp.Name)
}
