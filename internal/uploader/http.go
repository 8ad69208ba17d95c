package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/model"
)

// HTTPUploader posts the asset as a multipart "file" field to an upload
// service that answers {"url": "..."}.
type HTTPUploader struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPUploader returns an uploader for endpoint. A nil client means
// http.DefaultClient.
func NewHTTPUploader(endpoint string, hc *http.Client, logger zerolog.Logger) *HTTPUploader {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPUploader{
		endpoint:   endpoint,
		httpClient: hc,
		logger:     logger.With().Str("component", "uploader").Str("backend", "http").Logger(),
	}
}

func (u *HTTPUploader) Upload(ctx context.Context, a Asset) (string, error) {
	url, err := u.upload(ctx, a)
	if err != nil {
		apiErr := apiclient.Normalize(op, err)
		u.logger.Warn().Str("kind", apiErr.Kind.String()).Int("status", apiErr.StatusCode).Msg(apiErr.Message)
		return "", apiErr
	}
	u.logger.Debug().Str("file", a.FileName).Str("url", url).Msg("uploaded")
	return url, nil
}

func (u *HTTPUploader) upload(ctx context.Context, a Asset) (string, error) {
	content, closer, err := open(a)
	if err != nil {
		return "", err
	}
	defer closer.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(a.FileName)))
	h.Set("Content-Type", a.Type)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("read asset: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &apiclient.Error{Op: op, Kind: apiclient.KindConnectivity, Message: apiclient.ConnectivityMessage, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apiclient.Error{Op: op, Kind: apiclient.KindConnectivity, Message: apiclient.ConnectivityMessage, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apiclient.FromResponse(op, resp.StatusCode, respBody)
	}

	var out model.UploadResponse
	if err := json.Unmarshal(respBody, &out); err != nil || out.URL == "" {
		return "", &apiclient.Error{
			Op:         op,
			Kind:       apiclient.KindMalformed,
			StatusCode: resp.StatusCode,
			Message:    "invalid server response after upload",
			Err:        err,
		}
	}
	return out.URL, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
