package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig holds Cloudinary credentials. URL takes precedence over
// the individual fields when set.
type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryStorage stores media in Cloudinary. Keys keep their file
// extension; the public ID is the key without it.
type CloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	cloudName  string
	folder     string
	httpClient *http.Client
}

func NewCloudinaryStorage(cfg CloudinaryConfig) (*CloudinaryStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStorage{
		cld:        cld,
		cloudName:  cld.Config.Cloud.CloudName,
		folder:     strings.Trim(cfg.Folder, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	cleanKey, err := cleanObjectKey(key)
	if err != nil {
		return "", err
	}

	overwrite := true
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     s.publicID(cleanKey),
		Overwrite:    &overwrite,
		ResourceType: resourceType(cleanKey),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload to cloudinary: %s", res.Error.Message)
	}

	return cleanKey, nil
}

func (s *CloudinaryStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	url, err := s.GetURL(ctx, key, 0)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download file: %s", resp.Status)
	}

	return resp.Body, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	cleanKey, err := cleanObjectKey(key)
	if err != nil {
		return err
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     s.publicID(cleanKey),
		ResourceType: resourceType(cleanKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to delete from cloudinary: %s", res.Error.Message)
	}

	return nil
}

// GetURL builds the delivery URL. Uploads are public so expiry is ignored.
func (s *CloudinaryStorage) GetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	cleanKey, err := cleanObjectKey(key)
	if err != nil {
		return "", err
	}
	return deliveryURL(s.cloudName, resourceType(cleanKey), s.publicID(cleanKey), path.Ext(cleanKey)), nil
}

func (s *CloudinaryStorage) Exists(ctx context.Context, key string) (bool, error) {
	cleanKey, err := cleanObjectKey(key)
	if err != nil {
		return false, err
	}

	assetType := api.Image
	switch resourceType(cleanKey) {
	case "video":
		assetType = api.Video
	case "raw":
		assetType = api.File
	}

	res, err := s.cld.Admin.Asset(ctx, admin.AssetParams{
		PublicID:  s.publicID(cleanKey),
		AssetType: assetType,
	})
	if err != nil {
		return false, fmt.Errorf("failed to query cloudinary asset: %w", err)
	}
	if res.Error.Message != "" {
		if strings.Contains(strings.ToLower(res.Error.Message), "not found") {
			return false, nil
		}
		return false, fmt.Errorf("failed to query cloudinary asset: %s", res.Error.Message)
	}

	return res.PublicID != "", nil
}

// publicID derives the Cloudinary public ID. Raw assets keep their extension.
func (s *CloudinaryStorage) publicID(cleanKey string) string {
	id := cleanKey
	if resourceType(cleanKey) != "raw" {
		id = strings.TrimSuffix(cleanKey, path.Ext(cleanKey))
	}
	if s.folder != "" {
		id = s.folder + "/" + id
	}
	return id
}

func cleanObjectKey(key string) (string, error) {
	cleanKey := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleanKey == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return cleanKey, nil
}

// resourceType maps a key to a Cloudinary resource type by extension.
// Cloudinary files audio under "video".
func resourceType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return "image"
	case ".mp3", ".wav", ".flac", ".m4a", ".aac", ".ogg", ".mp4":
		return "video"
	default:
		return "raw"
	}
}

func deliveryURL(cloudName, resourceType, publicID, ext string) string {
	if resourceType == "raw" {
		ext = ""
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/%s/upload/%s%s", cloudName, resourceType, publicID, ext)
}
