// Package uploader sends product and profile images to a file host and
// returns the public URL they can be served from.
package uploader

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/config"
)

const op = "uploading image"

// Asset is a local image to upload. URI names its source; when Content is
// nil the asset is read from the file at URI.
type Asset struct {
	URI      string    `validate:"required"`
	FileName string    `validate:"required"`
	Type     string    `validate:"required"`
	Content  io.Reader `validate:"-"`
}

// Uploader stores an asset and returns its hosted URL.
type Uploader interface {
	Upload(ctx context.Context, a Asset) (string, error)
}

// New returns the backend selected by cfg.UploaderBackend.
func New(cfg *config.Config, logger zerolog.Logger) (Uploader, error) {
	switch cfg.UploaderBackend {
	case config.UploaderHTTP, "":
		hc, err := cfg.HTTPClient()
		if err != nil {
			return nil, err
		}
		return NewHTTPUploader(cfg.UploaderURL, hc, logger), nil
	case config.UploaderS3:
		return NewS3Uploader(S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown uploader backend %q", cfg.UploaderBackend)
	}
}

// open validates a and returns a reader over its content. The caller closes
// the returned closer.
func open(a Asset) (io.Reader, io.Closer, error) {
	if err := apiclient.Validate(op, a); err != nil {
		apiErr := apiclient.Normalize(op, err)
		apiErr.Message = "image data is incomplete for upload"
		return nil, nil, apiErr
	}
	if a.Content != nil {
		return a.Content, io.NopCloser(a.Content), nil
	}
	f, err := os.Open(a.URI)
	if err != nil {
		return nil, nil, &apiclient.Error{
			Op:      op,
			Kind:    apiclient.KindValidation,
			Message: "image data is incomplete for upload",
			Err:     fmt.Errorf("open asset: %w", err),
		}
	}
	return f, f, nil
}
