package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/apiclient"
)

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base objects are served from. Empty means
	// Endpoint/Bucket, or the AWS virtual-hosted URL without an endpoint.
	PublicURL string
}

// S3Uploader stores assets in an S3-compatible bucket under uploads/.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
	logger    zerolog.Logger
}

func NewS3Uploader(cfg S3Config, logger zerolog.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 uploader: bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := s3.Options{
		Region:           cfg.Region,
		Credentials:      credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle:     true,
		RetryMaxAttempts: 1,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	publicURL := cfg.PublicURL
	switch {
	case publicURL != "":
	case cfg.Endpoint != "":
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Uploader{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger.With().Str("component", "uploader").Str("backend", "s3").Logger(),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, a Asset) (string, error) {
	url, err := u.upload(ctx, a)
	if err != nil {
		apiErr := apiclient.Normalize(op, err)
		u.logger.Warn().Str("kind", apiErr.Kind.String()).Int("status", apiErr.StatusCode).Msg(apiErr.Message)
		return "", apiErr
	}
	u.logger.Debug().Str("file", a.FileName).Str("url", url).Msg("uploaded")
	return url, nil
}

func (u *S3Uploader) upload(ctx context.Context, a Asset) (string, error) {
	content, closer, err := open(a)
	if err != nil {
		return "", err
	}
	defer closer.Close()

	// PutObject signs the payload, so it needs a seekable body.
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read asset: %w", err)
	}

	key := path.Join("uploads", uuid.NewString()+strings.ToLower(filepath.Ext(a.FileName)))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(a.Type),
	})
	if err != nil {
		return "", u.normalize(ctx, err)
	}
	return u.publicURL + "/" + key, nil
}

func (u *S3Uploader) normalize(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		apiErr := apiclient.FromResponse(op, respErr.HTTPStatusCode(), nil)
		apiErr.Err = err
		return apiErr
	}
	return &apiclient.Error{Op: op, Kind: apiclient.KindConnectivity, Message: apiclient.ConnectivityMessage, Err: err}
}
