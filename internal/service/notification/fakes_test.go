package notification

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/musicverse/musicverse-backend-go/internal/domain/device"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/push"
)

type fakeRepo struct {
	mu      sync.Mutex
	rows    []*notification.Notification
	batches int
	nextID  int
}

func (r *fakeRepo) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

func (r *fakeRepo) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
	for _, n := range ns {
		r.nextID++
		if n.ID == "" {
			n.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", r.nextID)
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Unix(int64(r.nextID), 0)
		}
		cp := *n
		r.rows = append(r.rows, &cp)
	}
	return nil
}

func (r *fakeRepo) List(ctx context.Context, f notification.ListFilter) ([]*notification.Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*notification.Notification
	for _, n := range r.rows {
		if n.RecipientID != f.RecipientID {
			continue
		}
		if f.Type != nil && n.Type != *f.Type {
			continue
		}
		if f.Read != nil && n.Read != *f.Read {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(n.Title), q) && !strings.Contains(strings.ToLower(n.Body), q) {
				continue
			}
		}
		cp := *n
		matched = append(matched, &cp)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if f.SortOrder == notification.SortDesc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(f.Offset(), total)
	end := min(start+f.PageSize, total)
	return matched[start:end], total, nil
}

func (r *fakeRepo) Count(ctx context.Context, userID string, t *notification.NotificationType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.rows {
		if row.RecipientID == userID && (t == nil || row.Type == *t) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.rows {
		if row.RecipientID == userID && !row.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) SetRead(ctx context.Context, id, userID string, read bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id && row.RecipientID == userID {
			if row.Read == read {
				return 0, nil
			}
			row.Read = read
			return 1, nil
		}
	}
	return 0, notification.ErrNotificationNotFound
}

func (r *fakeRepo) SetReadAll(ctx context.Context, userID string, read bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.RecipientID == userID && row.Read != read {
			row.Read = read
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) byRecipient(id string) []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, row := range r.rows {
		if row.RecipientID == id {
			out = append(out, row)
		}
	}
	return out
}

func (r *fakeRepo) all() []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*notification.Notification(nil), r.rows...)
}

type fakeDirectory struct {
	mu        sync.Mutex
	users     map[string]user.User
	tracks    map[string]notification.Subject
	albums    map[string]notification.Subject
	playlists map[string]notification.Subject
	follows   map[string][]string // followingID -> followerIDs
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:     map[string]user.User{},
		tracks:    map[string]notification.Subject{},
		albums:    map[string]notification.Subject{},
		playlists: map[string]notification.Subject{},
		follows:   map[string][]string{},
	}
}

func (d *fakeDirectory) addUser(id, username string, name string) user.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := user.User{ID: id, Username: username, Role: user.RoleUser}
	if name != "" {
		u.Name = &name
	}
	d.users[id] = u
	return u
}

func (d *fakeDirectory) follow(followerID, followingID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.follows[followingID] = append(d.follows[followingID], followerID)
}

func (d *fakeDirectory) GetUser(ctx context.Context, id string) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, notification.ErrSubjectNotFound)
	}
	return u, nil
}

func (d *fakeDirectory) lookup(m map[string]notification.Subject, id string) (notification.Subject, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := m[id]
	if !ok {
		return notification.Subject{}, fmt.Errorf("%s: %w", id, notification.ErrSubjectNotFound)
	}
	return s, nil
}

func (d *fakeDirectory) GetTrack(ctx context.Context, id string) (notification.Subject, error) {
	return d.lookup(d.tracks, id)
}

func (d *fakeDirectory) GetAlbum(ctx context.Context, id string) (notification.Subject, error) {
	return d.lookup(d.albums, id)
}

func (d *fakeDirectory) GetPlaylist(ctx context.Context, id string) (notification.Subject, error) {
	return d.lookup(d.playlists, id)
}

func (d *fakeDirectory) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.follows[userID]), nil
}

func (d *fakeDirectory) FollowerCount(ctx context.Context, userID string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.follows[userID]), nil
}

type fakeDevices struct {
	device.Repository

	mu      sync.Mutex
	tokens  map[string][]string // userID -> tokens
	deleted []string
}

func newFakeDevices() *fakeDevices {
	return &fakeDevices{tokens: map[string][]string{}}
}

func (f *fakeDevices) TokensByUserIDs(ctx context.Context, userIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, id := range userIDs {
		out = append(out, f.tokens[id]...)
	}
	return out, nil
}

func (f *fakeDevices) AllTokens(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, ts := range f.tokens {
		out = append(out, ts...)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeDevices) DeleteTokens(ctx context.Context, tokens []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, tokens...)
	return int64(len(tokens)), nil
}

type fakeGateway struct {
	mu       sync.Mutex
	messages []push.Message
	invalid  []string
	err      error
	// partial returns the per-token result alongside err, as a gateway does
	// when only some batches fail.
	partial bool
}

func (g *fakeGateway) Send(ctx context.Context, msg push.Message) (push.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil && !g.partial {
		return push.Result{}, g.err
	}
	g.messages = append(g.messages, msg)
	return push.Result{
		SuccessCount:  len(msg.Tokens) - len(g.invalid),
		FailureCount:  len(g.invalid),
		InvalidTokens: g.invalid,
	}, g.err
}

func (g *fakeGateway) sent() []push.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]push.Message(nil), g.messages...)
}
