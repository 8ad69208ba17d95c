package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/admin"
	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/cli"
	"github.com/edvin/mitra-admin/internal/config"
	"github.com/edvin/mitra-admin/internal/logging"
	"github.com/edvin/mitra-admin/internal/model"
	"github.com/edvin/mitra-admin/internal/session"
	"github.com/edvin/mitra-admin/internal/uploader"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "login":
		err = cmdLogin(ctx, args)
	case "logout":
		err = mustApp().Logout()
	case "whoami":
		err = mustApp().WhoAmI()
	case "products":
		err = cmdProducts(ctx, args)
	case "product":
		err = withID("product <id>", args, 1, func(id int64, _ []string) error {
			return mustApp().Product(ctx, id)
		})
	case "product-status":
		err = withID("product-status <id> <status>", args, 2, func(id int64, rest []string) error {
			return mustApp().ProductStatus(ctx, id, rest[0])
		})
	case "product-delete":
		err = withID("product-delete <id>", args, 1, func(id int64, _ []string) error {
			return mustApp().ProductDelete(ctx, id)
		})
	case "partners":
		err = cmdPartners(ctx, args)
	case "categories":
		err = mustApp().Categories(ctx)
	case "upload":
		if len(args) < 1 {
			usageError("upload <file>")
		}
		err = mustApp().Upload(ctx, args[0])
	case "dashboard":
		err = mustApp().Dashboard(ctx)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

// mustApp wires the command dependencies from the environment.
func mustApp() *cli.App {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "mitra-admin"
	}
	if err := cfg.Validate("cli"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg)

	dir := cfg.SessionDir
	if dir == "" {
		if dir, err = session.DefaultDir(); err != nil {
			fatal(logger, err, "failed to locate session directory")
		}
	}
	store, err := session.OpenFileStore(dir)
	if err != nil {
		fatal(logger, err, "failed to open session")
	}

	hc, err := cfg.HTTPClient()
	if err != nil {
		fatal(logger, err, "failed to configure API transport")
	}
	api := apiclient.New(cfg.APIBaseURL, store,
		apiclient.WithHTTPClient(hc),
		apiclient.WithLogger(logger),
	)

	up, err := uploader.New(cfg, logger)
	if err != nil {
		fatal(logger, err, "failed to configure uploader")
	}

	return &cli.App{
		Admin:    admin.NewService(api, up, logger),
		Session:  store,
		Uploader: up,
		Out:      os.Stdout,
	}
}

func fatal(logger zerolog.Logger, err error, msg string) {
	logger.Error().Err(err).Msg(msg)
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}

func cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", os.Getenv("MITRA_EMAIL"), "Username or email")
	password := fs.String("password", "", "Password (default: $MITRA_PASSWORD)")
	level := fs.String("level", string(apiclient.LevelSuperAdmin), "Login level: superadmin, admin or umkm")
	fs.Parse(args)

	if *password == "" {
		*password = os.Getenv("MITRA_PASSWORD")
	}
	if *email == "" || *password == "" {
		usageError("login -email EMAIL [-password PASSWORD] [-level superadmin|admin|umkm]")
	}

	return mustApp().Login(ctx, *email, *password, apiclient.LoginLevel(*level))
}

func cmdProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 10, "Products per page")
	query := fs.String("q", "", "Search on product name")
	category := fs.Int64("category", 0, "Business category ID")
	subsector := fs.String("subsector", "", "Sub-sector ID")
	fs.Parse(args)

	return mustApp().Products(ctx, model.ProductFilter{
		Page:        *page,
		Limit:       *limit,
		Query:       *query,
		CategoryID:  *category,
		SubSectorID: *subsector,
	})
}

func cmdPartners(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("partners", flag.ExitOnError)
	filter := fs.String("filter", "all", "all, active or inactive")
	query := fs.String("q", "", "Search on name, business name or email")
	fs.Parse(args)

	return mustApp().Partners(ctx, *filter, *query)
}

// withID parses args[0] as a product id and passes the remaining args on.
func withID(usage string, args []string, n int, fn func(id int64, rest []string) error) error {
	if len(args) < n {
		usageError(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	return fn(id, args[1:])
}

func usageError(usage string) {
	fmt.Fprintln(os.Stderr, "Usage: mitra-admin "+usage)
	os.Exit(1)
}

// describe renders client errors with their field messages.
func describe(err error) string {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	msg := apiErr.Message
	for _, f := range apiErr.Fields {
		msg += fmt.Sprintf("\n  %s: %s", f.Field, f.Message)
	}
	return msg
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `mitra-admin: marketplace admin client

Usage:
  mitra-admin login -email EMAIL [-password PASSWORD] [-level superadmin|admin|umkm]
  mitra-admin logout
  mitra-admin whoami
  mitra-admin products [-page N] [-limit N] [-q TEXT] [-category ID] [-subsector ID]
  mitra-admin product <id>
  mitra-admin product-status <id> <approved|pending|rejected|inactive>
  mitra-admin product-delete <id>
  mitra-admin partners [-filter all|active|inactive] [-q TEXT]
  mitra-admin categories
  mitra-admin upload <file>
  mitra-admin dashboard

The session is stored in ~/.config/mitra-admin/ (override with SESSION_DIR).
Configuration comes from the environment, a .env file, or the YAML file
named by MITRA_CONFIG.`)
}
