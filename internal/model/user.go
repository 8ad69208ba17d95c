package model

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "Laki-laki"
	GenderFemale Gender = "Perempuan"
)

type BusinessStatus string

const (
	BusinessNew         BusinessStatus = "BARU"
	BusinessEstablished BusinessStatus = "SUDAH_LAMA"
)

// Level names as returned by the backend.
const (
	LevelSuperAdmin = "superadmin"
	LevelAdmin      = "admin"
	LevelUMKM       = "umkm"
)

type Level struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// User is any account on the platform. Partners (mitra) are users on the
// UMKM level.
type User struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Email              string            `json:"email"`
	EmailVerifiedAt    *time.Time        `json:"email_verified_at,omitempty"`
	Username           string            `json:"username,omitempty"`
	Gender             Gender            `json:"gender,omitempty"`
	PhoneNumber        string            `json:"phone_number,omitempty"`
	Image              string            `json:"image,omitempty"`
	BusinessName       string            `json:"business_name,omitempty"`
	BusinessStatus     BusinessStatus    `json:"business_status,omitempty"`
	LevelID            string            `json:"level_id"`
	BusinessCategoryID *int64            `json:"business_category_id,omitempty"`
	VerifiedAt         *time.Time        `json:"verifiedAt,omitempty"`
	CreatedAt          *time.Time        `json:"created_at,omitempty"`
	UpdatedAt          *time.Time        `json:"updated_at,omitempty"`
	Level              *Level            `json:"levels,omitempty"`
	LevelName          string            `json:"level,omitempty"`
	BusinessCategory   *BusinessCategory `json:"business_categories,omitempty"`
	ProductCount       int               `json:"productCount,omitempty"`
}

// Active reports whether the partner has been verified. There is no separate
// flag; the timestamp is authoritative.
func (u User) Active() bool {
	return u.VerifiedAt != nil
}

// Role returns the lower-cased level name, or "" when the backend sent none.
func (u User) Role() string {
	if u.Level != nil && u.Level.Name != "" {
		return strings.ToLower(u.Level.Name)
	}
	return strings.ToLower(u.LevelName)
}

func (u User) IsPartner() bool {
	return u.Role() == LevelUMKM
}

// Payload returns the full writable record for u.
func (u User) Payload() UserPayload {
	return UserPayload{
		Name:               u.Name,
		Email:              u.Email,
		Username:           u.Username,
		Gender:             u.Gender,
		PhoneNumber:        u.PhoneNumber,
		Image:              u.Image,
		BusinessName:       u.BusinessName,
		BusinessStatus:     u.BusinessStatus,
		LevelID:            u.LevelID,
		BusinessCategoryID: u.BusinessCategoryID,
		VerifiedAt:         u.VerifiedAt,
	}
}

// UserPayload is the body of a user update. The backend requires the whole
// record even when only one field changes.
type UserPayload struct {
	Name               string         `json:"name" validate:"required"`
	Email              string         `json:"email" validate:"required,email"`
	Username           string         `json:"username,omitempty"`
	Gender             Gender         `json:"gender,omitempty"`
	PhoneNumber        string         `json:"phone_number,omitempty"`
	Image              string         `json:"image,omitempty"`
	BusinessName       string         `json:"business_name,omitempty"`
	BusinessStatus     BusinessStatus `json:"business_status,omitempty"`
	LevelID            string         `json:"level_id" validate:"required"`
	BusinessCategoryID *int64         `json:"business_category_id,omitempty"`
	VerifiedAt         *time.Time     `json:"verifiedAt"`
}
