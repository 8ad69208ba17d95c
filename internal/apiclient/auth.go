package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edvin/mitra-admin/internal/model"
	"github.com/edvin/mitra-admin/internal/session"
)

// LoginLevel selects the login endpoint.
type LoginLevel string

const (
	LevelSuperAdmin LoginLevel = model.LevelSuperAdmin
	LevelAdmin      LoginLevel = model.LevelAdmin
	LevelUMKM       LoginLevel = model.LevelUMKM
)

func (l LoginLevel) Valid() bool {
	switch l {
	case LevelSuperAdmin, LevelAdmin, LevelUMKM:
		return true
	}
	return false
}

// AuthClient covers /auth. It is the only client that writes the session.
type AuthClient struct {
	public  *Client
	session session.Store
}

// Login authenticates at the given level (UMKM when empty) and, on success,
// stores the returned token and user in the session.
func (c *AuthClient) Login(ctx context.Context, creds model.Credentials, level LoginLevel) (*model.LoginResponse, error) {
	const op = "logging in"
	if level == "" {
		level = LevelUMKM
	}
	if !level.Valid() {
		return nil, &Error{Op: op, Kind: KindValidation, Message: fmt.Sprintf("unknown login level %q", level)}
	}
	if err := Validate(op, creds); err != nil {
		return nil, err
	}

	var resp model.LoginResponse
	if err := c.public.do(ctx, op, http.MethodPost, "/auth/login/"+string(level), nil, creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &Error{Op: op, Kind: KindMalformed, Message: fallbackMessage(op)}
	}

	if c.session != nil {
		if err := c.session.Set(resp.Token, resp.User); err != nil {
			return nil, Normalize(op, fmt.Errorf("store session: %w", err))
		}
	}
	return &resp, nil
}

// Logout forgets the local session. The backend keeps no server-side session.
func (c *AuthClient) Logout() error {
	if c.session == nil {
		return nil
	}
	if err := c.session.Clear(); err != nil {
		return Normalize("logging out", fmt.Errorf("clear session: %w", err))
	}
	return nil
}

func (c *AuthClient) Register(ctx context.Context, r model.Registration) (*model.RegisterResponse, error) {
	const op = "registering"
	if err := Validate(op, r); err != nil {
		return nil, err
	}
	var resp model.RegisterResponse
	if err := c.public.do(ctx, op, http.MethodPost, "/auth/register/umkm", nil, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *AuthClient) ForgotPassword(ctx context.Context, r model.ForgotPasswordRequest) (string, error) {
	const op = "requesting password reset"
	if err := Validate(op, r); err != nil {
		return "", err
	}
	return sendMessage(ctx, c.public, op, http.MethodPost, "/auth/forgot-password", r)
}

func (c *AuthClient) ResetPassword(ctx context.Context, r model.ResetPasswordRequest) (string, error) {
	const op = "resetting password"
	if err := Validate(op, r); err != nil {
		return "", err
	}
	return sendMessage(ctx, c.public, op, http.MethodPost, "/auth/reset-password", r)
}

func (c *AuthClient) VerifyEmail(ctx context.Context, r model.VerifyEmailRequest) (*model.VerifyEmailResponse, error) {
	const op = "verifying email"
	if err := Validate(op, r); err != nil {
		return nil, err
	}
	var resp model.VerifyEmailResponse
	if err := c.public.do(ctx, op, http.MethodPost, "/auth/verify-email", nil, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
