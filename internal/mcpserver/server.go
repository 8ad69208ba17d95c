package mcpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/admin"
)

// Server exposes the admin operations as MCP tools over streamable HTTP.
type Server struct {
	router chi.Router
	logger zerolog.Logger
	cfg    *Config
}

// New mounts the tool server at /mcp.
func New(svc *admin.Service, cfg *Config, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "mcp").Logger()
	tools := Tools(svc, cfg, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	mcpSrv := server.NewMCPServer(cfg.Name, "1.0.0",
		server.WithInstructions(cfg.Instructions),
	)
	mcpSrv.AddTools(tools...)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv,
		server.WithEndpointPath("/"),
	))

	logger.Info().Int("tools", len(tools)).Msg("mounted MCP endpoint at /mcp")

	return &Server{
		router: router,
		logger: logger,
		cfg:    cfg,
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
