package model

import (
	"encoding/json"
	"strings"
)

// ProductStatus is the moderation state of a product listing.
type ProductStatus string

const (
	ProductApproved ProductStatus = "approved"
	ProductPending  ProductStatus = "pending"
	ProductRejected ProductStatus = "rejected"
	ProductInactive ProductStatus = "inactive"
)

// ProductStatuses lists every valid status in display order.
var ProductStatuses = []ProductStatus{ProductApproved, ProductPending, ProductRejected, ProductInactive}

// wireStatus maps canonical statuses to the values the backend stores.
var wireStatus = map[ProductStatus]string{
	ProductApproved: "disetujui",
	ProductPending:  "pending",
	ProductRejected: "ditolak",
	ProductInactive: "tidak_aktif",
}

// ParseProductStatus accepts canonical or backend values, case-insensitively.
// Anything it does not recognize becomes ProductPending.
func ParseProductStatus(s string) ProductStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	for status, wire := range wireStatus {
		if s == string(status) || s == wire {
			return status
		}
	}
	return ProductPending
}

// Valid reports whether s is one of the four known statuses.
func (s ProductStatus) Valid() bool {
	_, ok := wireStatus[s]
	return ok
}

// Wire returns the backend representation of s.
func (s ProductStatus) Wire() string {
	if w, ok := wireStatus[s]; ok {
		return w
	}
	return wireStatus[ProductPending]
}

func (s ProductStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Wire())
}

func (s *ProductStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = ProductPending
		return nil
	}
	*s = ParseProductStatus(*raw)
	return nil
}
