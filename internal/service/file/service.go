package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

// Cover art above this size is recompressed to JPEG.
const (
	coverMaxSize = 300 * 1024
	coverMinSize = 50 * 1024
)

// CoverKind selects the folder a cover is stored in.
type CoverKind string

const (
	CoverTrack    CoverKind = "tracks"
	CoverAlbum    CoverKind = "albums"
	CoverPlaylist CoverKind = "playlists"
)

var (
	imageExts = []string{".jpg", ".jpeg", ".png"}
	audioExts = map[string]string{
		".mp3":  "audio/mpeg",
		".mpeg": "audio/mpeg",
		".wav":  "audio/wav",
	}
)

type FileService interface {
	// UploadCover stores cover art and returns its public URL
	UploadCover(ctx context.Context, kind CoverKind, ownerID string, file io.Reader, filename string) (string, error)

	// UploadAvatar stores a profile picture and returns its public URL
	UploadAvatar(ctx context.Context, userID string, file io.Reader, filename string) (string, error)

	// UploadAudio stores a track's audio file and returns its public URL
	UploadAudio(ctx context.Context, artistID string, file io.Reader, filename string) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadCover(ctx context.Context, kind CoverKind, ownerID string, file io.Reader, filename string) (string, error) {
	key, err := s.uploadImage(ctx, path.Join("covers", string(kind), ownerID), file, filename)
	if err != nil {
		return "", fmt.Errorf("failed to upload cover: %w", err)
	}
	return s.storage.GetURL(ctx, key, 0)
}

func (s *fileServiceImpl) UploadAvatar(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	key, err := s.uploadImage(ctx, path.Join("avatars", userID), file, filename)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return s.storage.GetURL(ctx, key, 0)
}

func (s *fileServiceImpl) UploadAudio(ctx context.Context, artistID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := audioExts[ext]
	if !ok {
		return "", fmt.Errorf("%w: only mp3, mpeg, wav allowed", storage.ErrInvalidType)
	}

	key := path.Join("audio", artistID, uuid.New().String()+ext)
	uploadedKey, err := s.storage.Upload(ctx, file, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	return s.storage.GetURL(ctx, uploadedKey, 0)
}

// uploadImage validates the extension, recompresses oversized images and
// stores the result under dir with a random name.
func (s *fileServiceImpl) uploadImage(ctx context.Context, dir string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !isAllowed(ext, imageExts) {
		return "", fmt.Errorf("%w: only jpg, jpeg, png allowed", storage.ErrInvalidType)
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	contentType := "image/jpeg"
	if ext == ".png" {
		contentType = "image/png"
	}

	if len(buffer) > coverMaxSize {
		buffer, err = compressImage(buffer, coverMaxSize, coverMinSize)
		if err != nil {
			return "", fmt.Errorf("failed to compress image: %w", err)
		}
		// Always JPEG after compression
		ext, contentType = ".jpg", "image/jpeg"
	}

	key := path.Join(dir, uuid.New().String()+ext)
	return s.storage.Upload(ctx, bytes.NewReader(buffer), key, contentType)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, key, expiry)
}

func isAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes an image as JPEG, lowering quality and then
// resizing until it fits under maxSize. Results below minSize are accepted
// once quality has dropped to 60.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	quality := 85
	var compressed []byte

	for quality >= 50 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize && len(compressed) >= minSize {
			return compressed, nil
		}
		if len(compressed) > maxSize {
			quality -= 5
			continue
		}
		if len(compressed) < minSize && quality <= 60 {
			return compressed, nil
		}
		break
	}

	if len(compressed) > maxSize {
		// Aim for the middle of the allowed range
		targetSize := (maxSize + minSize) / 2
		ratio := math.Sqrt(float64(targetSize) / float64(len(compressed)))
		newWidth := max(int(float64(originalWidth)*ratio), 300)
		newHeight := max(int(float64(originalHeight)*ratio), 300)

		resized := resizeImage(img, newWidth, newHeight)

		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 70}); err != nil {
			return nil, fmt.Errorf("failed to encode resized image: %w", err)
		}
		compressed = buf.Bytes()
	}

	return compressed, nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
