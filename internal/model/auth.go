package model

import "time"

type Credentials struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Registration struct {
	Name               string         `json:"name" validate:"required"`
	Username           string         `json:"username" validate:"required"`
	Email              string         `json:"email" validate:"required,email"`
	Password           string         `json:"password" validate:"required,min=6"`
	Gender             Gender         `json:"gender" validate:"required,oneof=Laki-laki Perempuan"`
	PhoneNumber        string         `json:"phone_number" validate:"required"`
	BusinessName       string         `json:"business_name,omitempty"`
	BusinessStatus     BusinessStatus `json:"business_status,omitempty" validate:"omitempty,oneof=BARU SUDAH_LAMA"`
	BusinessCategoryID int64          `json:"business_category_id,omitempty"`
}

// PendingUser is a registration awaiting email verification.
type PendingUser struct {
	ID                      int64          `json:"id"`
	Name                    string         `json:"name"`
	Username                string         `json:"username"`
	Email                   string         `json:"email"`
	Gender                  Gender         `json:"gender"`
	PhoneNumber             string         `json:"phone_number,omitempty"`
	BusinessName            string         `json:"business_name,omitempty"`
	BusinessStatus          BusinessStatus `json:"business_status,omitempty"`
	LevelID                 string         `json:"level_id"`
	BusinessCategoryID      *int64         `json:"business_category_id,omitempty"`
	VerificationToken       string         `json:"verificationToken"`
	VerificationTokenExpiry *time.Time     `json:"verificationTokenExpiry,omitempty"`
	CreatedAt               time.Time      `json:"createdAt"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    PendingUser `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type VerifyEmailResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// Session is the locally persisted login: one bearer token and the user it
// was issued to.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
