package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edvin/mitra-admin/internal/model"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	level, ok := s.store.levelByName(chi.URLParam(r, "level"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown login level")
		return
	}

	var creds model.Credentials
	if !decode(w, r, &creds) {
		return
	}

	u, hash, ok := s.store.findLogin(creds.UsernameOrEmail)
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if u.LevelID != level.ID {
		writeError(w, http.StatusForbidden, "account is not allowed to log in at this level")
		return
	}

	token, err := s.tokens.issue(u.ID, level.Name)
	if err != nil {
		s.logger.Error().Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{Message: "login successful", Token: token, User: u})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if !decode(w, r, &reg) {
		return
	}
	if s.store.emailTaken(reg.Email, reg.Username) {
		writeError(w, http.StatusConflict, "email or username already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	level, _ := s.store.levelByName(model.LevelUMKM)
	expiry := time.Now().UTC().Add(24 * time.Hour)
	p := model.PendingUser{
		Name:                    reg.Name,
		Username:                reg.Username,
		Email:                   strings.ToLower(reg.Email),
		Gender:                  reg.Gender,
		PhoneNumber:             reg.PhoneNumber,
		BusinessName:            reg.BusinessName,
		BusinessStatus:          reg.BusinessStatus,
		LevelID:                 level.ID,
		VerificationToken:       uuid.NewString(),
		VerificationTokenExpiry: &expiry,
		CreatedAt:               time.Now().UTC(),
	}
	if reg.BusinessCategoryID > 0 {
		id := reg.BusinessCategoryID
		p.BusinessCategoryID = &id
	}

	p = s.store.addPending(p, hash)
	writeJSON(w, http.StatusCreated, model.RegisterResponse{
		Message: "registration received, check your email to verify the account",
		User:    p,
	})
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyEmailRequest
	if !decode(w, r, &req) {
		return
	}

	p, ok := s.store.takePending(req.Token)
	if !ok || (p.user.VerificationTokenExpiry != nil && time.Now().After(*p.user.VerificationTokenExpiry)) {
		writeError(w, http.StatusBadRequest, "invalid or expired verification token")
		return
	}

	now := time.Now().UTC()
	u := s.store.addAccount(model.User{
		ID:                 uuid.NewString(),
		Name:               p.user.Name,
		Email:              p.user.Email,
		EmailVerifiedAt:    &now,
		Username:           p.user.Username,
		Gender:             p.user.Gender,
		PhoneNumber:        p.user.PhoneNumber,
		BusinessName:       p.user.BusinessName,
		BusinessStatus:     p.user.BusinessStatus,
		LevelID:            p.user.LevelID,
		BusinessCategoryID: p.user.BusinessCategoryID,
	}, p.passwordHash)

	writeJSON(w, http.StatusOK, model.VerifyEmailResponse{Message: "email verified", User: u})
}

// forgotPassword answers the same way whether or not the email exists.
func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if u, _, ok := s.store.findLogin(req.Email); ok {
		s.store.addReset(uuid.NewString(), u.ID)
	}
	writeMessage(w, http.StatusOK, "if the email is registered, a reset link has been sent")
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := s.store.takeReset(req.Token)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid or expired reset token")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	if !s.store.setPassword(userID, hash) {
		writeError(w, http.StatusBadRequest, "invalid or expired reset token")
		return
	}
	writeMessage(w, http.StatusOK, "password has been reset")
}
