package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"golang.org/x/sync/semaphore"
)

// Uploader moves image bytes to durable storage and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

type CloudinaryOptions struct {
	Folder      string
	Timeout     time.Duration
	Concurrency int64
}

type CloudinaryService struct {
	cld     *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
	slots   *semaphore.Weighted
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string, opts CloudinaryOptions) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &CloudinaryService{
		cld:     cld,
		folder:  opts.Folder,
		timeout: opts.Timeout,
		slots:   semaphore.NewWeighted(opts.Concurrency),
	}, nil
}

// Upload sends data as an image resource into the configured folder.
// Blocks while all upload slots are busy.
func (s *CloudinaryService) Upload(ctx context.Context, data []byte) (string, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for upload slot: %w", err)
	}
	defer s.slots.Release(1)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	uploadResult, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	// API rejections come back in the result body with a nil error
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", uploadResult.Error.Message)
	}

	return absoluteURL(uploadResult.SecureURL)
}

func absoluteURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid upload url %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("upload returned non-absolute url %q", raw)
	}
	return u.String(), nil
}
