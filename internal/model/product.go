package model

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID                 int64             `json:"id"`
	Name               string            `json:"name"`
	OwnerName          string            `json:"owner_name,omitempty"`
	Description        string            `json:"description"`
	Price              int64             `json:"price"`
	Stock              int               `json:"stock"`
	Image              string            `json:"image"`
	PhoneNumber        string            `json:"phone_number"`
	Status             ProductStatus     `json:"status"`
	UserID             string            `json:"user_id,omitempty"`
	BusinessCategoryID int64             `json:"business_category_id,omitempty"`
	SubSectorID        string            `json:"sub_sector_id,omitempty"`
	UploadedAt         *time.Time        `json:"uploaded_at,omitempty"`
	CreatedAt          *time.Time        `json:"created_at,omitempty"`
	UpdatedAt          *time.Time        `json:"updated_at,omitempty"`
	BusinessCategory   *BusinessCategory `json:"business_categories,omitempty"`
	Owner              *User             `json:"users,omitempty"`
	SubSector          *SubSector        `json:"sub_sectors,omitempty"`
	Links              []OnlineStoreLink `json:"online_store_links,omitempty"`
}

// UnmarshalJSON reads the status from "status", falling back to the legacy
// "status_produk" field. A product without either is pending.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var aux struct {
		plain
		Status       *string `json:"status"`
		StatusProduk *string `json:"status_produk"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Product(aux.plain)

	switch {
	case aux.Status != nil && *aux.Status != "":
		p.Status = ParseProductStatus(*aux.Status)
	case aux.StatusProduk != nil:
		p.Status = ParseProductStatus(*aux.StatusProduk)
	default:
		p.Status = ProductPending
	}
	return nil
}

// Payload returns the full writable record for p. The backend validates every
// required field on update, so edits start from this and change what they need.
func (p Product) Payload() ProductPayload {
	return ProductPayload{
		Name:               p.Name,
		OwnerName:          p.OwnerName,
		Description:        p.Description,
		Price:              p.Price,
		Stock:              p.Stock,
		PhoneNumber:        p.PhoneNumber,
		BusinessCategoryID: p.BusinessCategoryID,
		SubSectorID:        p.SubSectorID,
		Image:              p.Image,
		Status:             p.Status,
	}
}

// ProductPayload is the body of product create and update requests.
type ProductPayload struct {
	Name               string        `json:"name" validate:"required"`
	OwnerName          string        `json:"owner_name,omitempty"`
	Description        string        `json:"description"`
	Price              int64         `json:"price" validate:"gt=0"`
	Stock              int           `json:"stock" validate:"gte=0"`
	PhoneNumber        string        `json:"phone_number"`
	BusinessCategoryID int64         `json:"business_category_id" validate:"required"`
	SubSectorID        string        `json:"sub_sector_id,omitempty"`
	Image              string        `json:"image"`
	Status             ProductStatus `json:"status,omitempty"`
}

type OnlineStoreLink struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	PlatformName string `json:"platform_name,omitempty"`
	URL          string `json:"url"`
}

type LinkPayload struct {
	PlatformName string `json:"platform_name,omitempty"`
	URL          string `json:"url" validate:"required,url"`
}

// LinkUpdate is a partial link edit; nil fields are left untouched.
type LinkUpdate struct {
	PlatformName *string `json:"platform_name,omitempty"`
	URL          *string `json:"url,omitempty" validate:"omitempty,url"`
}

// ProductFilter holds the list query. Zero values are omitted from the request.
type ProductFilter struct {
	Page        int    `validate:"gte=0"`
	Limit       int    `validate:"gte=0"`
	Query       string
	CategoryID  int64
	SubSectorID string
}
