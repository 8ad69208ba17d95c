package model

import "time"

type BusinessCategory struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Image       string     `json:"image,omitempty"`
	SubSectorID string     `json:"sub_sector_id,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	SubSector   *SubSector `json:"sub_sectors,omitempty"`
}

// Payload returns the full writable record for c.
func (c BusinessCategory) Payload() BusinessCategoryPayload {
	return BusinessCategoryPayload{
		Name:        c.Name,
		Image:       c.Image,
		SubSectorID: c.SubSectorID,
		Description: c.Description,
	}
}

type BusinessCategoryPayload struct {
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image,omitempty"`
	SubSectorID string `json:"sub_sector_id" validate:"required"`
	Description string `json:"description,omitempty"`
}

type SubSector struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Image       string     `json:"image,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type SubSectorPayload struct {
	Title string `json:"title" validate:"required"`
}

type Article struct {
	ID         int64      `json:"id"`
	AuthorID   string     `json:"author_id"`
	CategoryID string     `json:"artikel_kategori_id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Thumbnail  string     `json:"thumbnail"`
	Content    string     `json:"content"`
	IsFeatured bool       `json:"is_featured"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	Author     *User      `json:"users,omitempty"`
}

type ArticlePayload struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	CategoryID string `json:"artikel_kategori_id" validate:"required"`
	Thumbnail  string `json:"thumbnail" validate:"required"`
	IsFeatured bool   `json:"is_featured"`
}

// ArticleUpdate is a partial article edit; nil fields are left untouched.
type ArticleUpdate struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *string `json:"artikel_kategori_id,omitempty"`
	Thumbnail  *string `json:"thumbnail,omitempty"`
	IsFeatured *bool   `json:"is_featured,omitempty"`
}
