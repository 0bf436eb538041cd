package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/service/file"
)

const (
	artistID = "0190a8f2-0000-7000-8000-000000000001"
	fanID    = "0190a8f2-0000-7000-8000-000000000002"
	otherID  = "0190a8f2-0000-7000-8000-000000000003"
	ghostID  = "0190a8f2-0000-7000-8000-0000000000ff"
)

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
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

func newID(n int) string {
	return fmt.Sprintf("0190a8f2-0000-7000-9000-%012d", n)
}

type memoryCatalog struct {
	seq       int
	tracks    map[string]catalog.Track
	albums    map[string]catalog.Album
	playlists map[string]catalog.Playlist
	likes     map[[2]string]bool
	saved     map[[2]string]bool
	downloads [][2]string
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		tracks:    map[string]catalog.Track{},
		albums:    map[string]catalog.Album{},
		playlists: map[string]catalog.Playlist{},
		likes:     map[[2]string]bool{},
		saved:     map[[2]string]bool{},
	}
}

func (m *memoryCatalog) next() string {
	m.seq++
	return newID(m.seq)
}

type memoryTracks struct{ *memoryCatalog }

func (m memoryTracks) Create(ctx context.Context, t catalog.Track) (catalog.Track, error) {
	t.ID = m.next()
	m.tracks[t.ID] = t
	return t, nil
}

func (m memoryTracks) GetByID(ctx context.Context, id string) (catalog.Track, error) {
	t, ok := m.tracks[id]
	if !ok {
		return catalog.Track{}, catalog.ErrTrackNotFound
	}
	return t, nil
}

func (m memoryTracks) UpdateStatus(ctx context.Context, id string, status catalog.PublicStatus) (catalog.Track, error) {
	t, ok := m.tracks[id]
	if !ok {
		return catalog.Track{}, catalog.ErrTrackNotFound
	}
	t.PublicStatus = status
	m.tracks[id] = t
	return t, nil
}

func (m memoryTracks) IsLiked(ctx context.Context, userID, trackID string) (bool, error) {
	return m.likes[[2]string{userID, trackID}], nil
}

func (m memoryTracks) Like(ctx context.Context, userID, trackID string) error {
	m.likes[[2]string{userID, trackID}] = true
	return nil
}

func (m memoryTracks) Unlike(ctx context.Context, userID, trackID string) error {
	delete(m.likes, [2]string{userID, trackID})
	return nil
}

func (m memoryTracks) CountLikes(ctx context.Context, trackID string) (int, error) {
	n := 0
	for k := range m.likes {
		if k[1] == trackID {
			n++
		}
	}
	return n, nil
}

func (m memoryTracks) RecordDownload(ctx context.Context, userID, trackID string) error {
	m.downloads = append(m.downloads, [2]string{userID, trackID})
	return nil
}

type memoryAlbums struct{ *memoryCatalog }

func (m memoryAlbums) Create(ctx context.Context, a catalog.Album) (catalog.Album, error) {
	a.ID = m.next()
	m.albums[a.ID] = a
	return a, nil
}

func (m memoryAlbums) GetByID(ctx context.Context, id string) (catalog.Album, error) {
	a, ok := m.albums[id]
	if !ok {
		return catalog.Album{}, catalog.ErrAlbumNotFound
	}
	return a, nil
}

func (m memoryAlbums) IsSaved(ctx context.Context, userID, albumID string) (bool, error) {
	return m.saved[[2]string{userID, albumID}], nil
}

func (m memoryAlbums) Save(ctx context.Context, userID, albumID string) error {
	m.saved[[2]string{userID, albumID}] = true
	return nil
}

func (m memoryAlbums) Unsave(ctx context.Context, userID, albumID string) error {
	delete(m.saved, [2]string{userID, albumID})
	return nil
}

type memoryPlaylists struct{ *memoryCatalog }

func (m memoryPlaylists) Create(ctx context.Context, p catalog.Playlist) (catalog.Playlist, error) {
	p.ID = m.next()
	m.playlists[p.ID] = p
	return p, nil
}

func (m memoryPlaylists) GetByID(ctx context.Context, id string) (catalog.Playlist, error) {
	p, ok := m.playlists[id]
	if !ok {
		return catalog.Playlist{}, catalog.ErrPlaylistNotFound
	}
	return p, nil
}

func (m memoryPlaylists) IsSaved(ctx context.Context, userID, playlistID string) (bool, error) {
	return m.saved[[2]string{userID, playlistID}], nil
}

func (m memoryPlaylists) Save(ctx context.Context, userID, playlistID string) error {
	m.saved[[2]string{userID, playlistID}] = true
	return nil
}

func (m memoryPlaylists) Unsave(ctx context.Context, userID, playlistID string) error {
	delete(m.saved, [2]string{userID, playlistID})
	return nil
}

type fakeFiles struct {
	file.FileService
	mu       sync.Mutex
	uploaded []string
	err      error
}

func (f *fakeFiles) record(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.uploaded = append(f.uploaded, path)
	return "https://cdn.example.com/" + path, nil
}

func (f *fakeFiles) UploadCover(ctx context.Context, kind file.CoverKind, ownerID string, r io.Reader, filename string) (string, error) {
	return f.record(string(kind) + "/" + filename)
}

func (f *fakeFiles) UploadAudio(ctx context.Context, artistID string, r io.Reader, filename string) (string, error) {
	return f.record("audio/" + filename)
}

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func upload(name string, size int64) *catalog.Upload {
	var f multipart.File = memFile{bytes.NewReader([]byte("data"))}
	return &catalog.Upload{File: f, Header: &multipart.FileHeader{Filename: name, Size: size}}
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

type fixture struct {
	store     *memoryCatalog
	files     *fakeFiles
	events    *recordingPublisher
	tracks    catalog.TrackService
	albums    catalog.AlbumService
	playlists catalog.PlaylistService
}

func setup() *fixture {
	stage := "DJ Nova"
	users := &memoryUsers{users: map[string]user.User{
		artistID: {ID: artistID, Username: "nova", Name: &stage, Role: user.RoleArtist},
		fanID:    {ID: fanID, Username: "fan", Role: user.RoleUser},
		otherID:  {ID: otherID, Username: "rival", Role: user.RoleArtist},
	}}
	store := newMemoryCatalog()
	files := &fakeFiles{}
	events := &recordingPublisher{}
	tx := inlineTx{}

	return &fixture{
		store:     store,
		files:     files,
		events:    events,
		tracks:    NewTrackService(tx, memoryTracks{store}, memoryAlbums{store}, users, files, events),
		albums:    NewAlbumService(tx, memoryAlbums{store}, users, files, events),
		playlists: NewPlaylistService(tx, memoryPlaylists{store}, files, events),
	}
}
