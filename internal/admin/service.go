// Package admin implements the operations behind the admin screens on top of
// the resource clients: edits that must send the full record, partner
// filtering, list reconciliation and the dashboard summary.
package admin

import (
	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/uploader"
)

type Service struct {
	api      *apiclient.API
	uploader uploader.Uploader
	logger   zerolog.Logger
}

// NewService returns a Service. up may be nil when no operation that uploads
// images will be used.
func NewService(api *apiclient.API, up uploader.Uploader, logger zerolog.Logger) *Service {
	return &Service{
		api:      api,
		uploader: up,
		logger:   logger.With().Str("component", "admin").Logger(),
	}
}

// API exposes the underlying resource clients.
func (s *Service) API() *apiclient.API {
	return s.api
}
