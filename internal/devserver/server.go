// Package devserver is an in-memory implementation of the marketplace admin
// API. It backs the client tests and lets the CLI run without the real
// backend. It reproduces the backend's observable contract, including the
// requirement that updates carry the full record.
package devserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edvin/mitra-admin/internal/model"
)

type Config struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
	// PublicURL prefixes uploaded file URLs. Empty means derive it from the
	// request host.
	PublicURL string
	// AdminEmail and AdminPassword seed a superadmin account when both are set.
	AdminEmail    string
	AdminPassword string
}

type Server struct {
	router chi.Router
	store  *store
	tokens *tokenIssuer
	cfg    Config
	logger zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("devserver: JWT secret is required")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "mitra-devserver"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	s := &Server{
		store:  newStore(),
		tokens: &tokenIssuer{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, ttl: cfg.TokenTTL},
		cfg:    cfg,
		logger: logger.With().Str("component", "devserver").Logger(),
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := s.AddUser(model.User{
			Name:    "Super Admin",
			Email:   cfg.AdminEmail,
			LevelID: "1",
		}, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/upload", s.upload)
	r.Get("/files/{name}", s.serveFile)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login/{level}", s.login)
			r.Post("/register/umkm", s.register)
			r.Post("/forgot-password", s.forgotPassword)
			r.Post("/reset-password", s.resetPassword)
			r.Post("/verify-email", s.verifyEmail)
		})

		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/business-categories", s.listCategories)
		r.Get("/business-categories/{id}", s.getCategory)
		r.Get("/subsectors", s.listSubSectors)
		r.Get("/subsectors/{id}", s.getSubSector)
		r.Get("/master-data/business-categories", s.listCategories)
		r.Get("/master-data/subsectors", s.listSubSectors)
		r.Get("/master-data/levels", s.listLevels)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/products", s.createProduct)
			r.Put("/products/{id}", s.updateProduct)
			r.Delete("/products/{id}", s.deleteProduct)
			r.Post("/products/{id}/links", s.createLink)
			r.Put("/products/{id}/links/{linkID}", s.updateLink)

			r.Get("/users/profile", s.profile)
			r.Get("/users", s.listUsers)
			r.Get("/users/{id}", s.getUser)
			r.Put("/users/{id}", s.updateUser)
			r.Delete("/users/{id}", s.deleteUser)
			r.Get("/users/{id}/products", s.userProducts)
			r.Get("/users/{id}/articles", s.userArticles)

			r.Post("/business-categories", s.createCategory)
			r.Put("/business-categories/{id}", s.updateCategory)
			r.Delete("/business-categories/{id}", s.deleteCategory)

			r.Post("/subsectors", s.createSubSector)
			r.Put("/subsectors/{id}", s.updateSubSector)
			r.Delete("/subsectors/{id}", s.deleteSubSector)

			r.Get("/articles", s.listArticles)
			r.Post("/articles", s.createArticle)
			r.Get("/articles/{id}", s.getArticle)
			r.Put("/articles/{id}", s.updateArticle)
			r.Delete("/articles/{id}", s.deleteArticle)
		})
	})

	return r
}

// AddUser inserts an account directly, bypassing registration. An empty ID
// is replaced with a fresh UUID.
func (s *Server) AddUser(u model.User, password string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return s.store.addAccount(u, hash), nil
}

// AddProduct inserts a product directly and returns it with its assigned ID.
func (s *Server) AddProduct(p model.Product) model.Product {
	return s.store.createProduct(p)
}

// AddBusinessCategory inserts a category directly.
func (s *Server) AddBusinessCategory(c model.BusinessCategory) model.BusinessCategory {
	created, _ := s.store.putCategory(0, c.Payload())
	return created
}

// AddSubSector inserts a subsector directly.
func (s *Server) AddSubSector(ss model.SubSector) model.SubSector {
	if ss.ID == "" {
		ss.ID = uuid.NewString()
	}
	if ss.Slug == "" {
		ss.Slug = slugify(ss.Title)
	}
	return s.store.putSubSector(ss)
}

// VerificationToken returns the pending email verification token for email.
func (s *Server) VerificationToken(email string) (string, bool) {
	return s.store.pendingToken(email)
}

// ResetToken returns the outstanding password reset token for email.
func (s *Server) ResetToken(email string) (string, bool) {
	u, _, ok := s.store.findLogin(email)
	if !ok {
		return "", false
	}
	return s.store.resetToken(u.ID)
}
