package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/edvin/mitra-admin/internal/admin"
	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/config"
	"github.com/edvin/mitra-admin/internal/logging"
	"github.com/edvin/mitra-admin/internal/mcpserver"
	"github.com/edvin/mitra-admin/internal/metrics"
	"github.com/edvin/mitra-admin/internal/session"
	"github.com/edvin/mitra-admin/internal/uploader"
)

func main() {
	toolsFile := flag.String("tools", "", "Path to mcp.yaml tool overrides (default: $MCP_TOOLS_FILE)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "mcp-server"
	}
	if *toolsFile != "" {
		cfg.MCPToolsFile = *toolsFile
	}
	if err := cfg.Validate("mcp-server"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	toolsCfg, err := mcpserver.LoadConfig(cfg.MCPToolsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load tools file")
	}

	// Tools act as whoever last ran "mitra-admin login" against this
	// session directory.
	dir := cfg.SessionDir
	if dir == "" {
		if dir, err = session.DefaultDir(); err != nil {
			logger.Fatal().Err(err).Msg("failed to locate session directory")
		}
	}
	store, err := session.OpenFileStore(dir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", dir).Msg("failed to open session")
	}
	if store.Token() == "" {
		logger.Warn().Str("dir", dir).Msg("no session found; write tools will fail until you log in")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hc, err := cfg.HTTPClient()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure API transport")
	}
	api := apiclient.New(cfg.APIBaseURL, store,
		apiclient.WithHTTPClient(hc),
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(apiclient.NewMetrics(reg)),
	)

	up, err := uploader.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure uploader")
	}

	srv := mcpserver.New(admin.NewService(api, up, logger), toolsCfg, logger)

	httpSrv := &http.Server{
		Addr:         cfg.MCPAddr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr, reg)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", cfg.MCPAddr).Msg("MCP server starting")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-done
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	if metricsServer != nil {
		metricsServer.Shutdown(ctx)
	}
}
