package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ProductStatus
	}{
		{"approved", ProductApproved},
		{"disetujui", ProductApproved},
		{"DITOLAK", ProductRejected},
		{"rejected", ProductRejected},
		{"tidak_aktif", ProductInactive},
		{" inactive ", ProductInactive},
		{"pending", ProductPending},
		{"", ProductPending},
		{"archived", ProductPending},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseProductStatus(tt.in))
		})
	}
}

func TestProductStatus_Wire(t *testing.T) {
	assert.Equal(t, "disetujui", ProductApproved.Wire())
	assert.Equal(t, "ditolak", ProductRejected.Wire())
	assert.Equal(t, "tidak_aktif", ProductInactive.Wire())
	assert.Equal(t, "pending", ProductStatus("bogus").Wire())
	assert.False(t, ProductStatus("bogus").Valid())
	assert.True(t, ProductInactive.Valid())
}

func TestProduct_UnmarshalStatusFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ProductStatus
	}{
		{"status field", `{"id":1,"status":"disetujui"}`, ProductApproved},
		{"legacy field", `{"id":1,"status_produk":"ditolak"}`, ProductRejected},
		{"status wins over legacy", `{"id":1,"status":"tidak_aktif","status_produk":"disetujui"}`, ProductInactive},
		{"empty status falls back", `{"id":1,"status":"","status_produk":"disetujui"}`, ProductApproved},
		{"missing", `{"id":1}`, ProductPending},
		{"null", `{"id":1,"status":null}`, ProductPending},
		{"unknown", `{"id":1,"status":"draft"}`, ProductPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, int64(1), p.ID)
			assert.Equal(t, tt.want, p.Status)
		})
	}
}

func TestProduct_UnmarshalKeepsOtherFields(t *testing.T) {
	body := `{
		"id": 7, "name": "Kopi Gayo", "owner_name": null, "description": "arabika",
		"price": 45000, "stock": 12, "image": "https://cdn/x.png", "phone_number": "0812",
		"status_produk": "pending", "business_category_id": 3,
		"business_categories": {"id": 3, "name": "Kuliner"},
		"online_store_links": [{"id": 1, "product_id": 7, "url": "https://shop/x"}]
	}`
	var p Product
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, "Kopi Gayo", p.Name)
	assert.Empty(t, p.OwnerName)
	assert.Equal(t, int64(45000), p.Price)
	assert.Equal(t, 12, p.Stock)
	assert.Equal(t, int64(3), p.BusinessCategoryID)
	require.NotNil(t, p.BusinessCategory)
	assert.Equal(t, "Kuliner", p.BusinessCategory.Name)
	require.Len(t, p.Links, 1)
	assert.Equal(t, "https://shop/x", p.Links[0].URL)
}

func TestProductPayload_MarshalsWireStatus(t *testing.T) {
	data, err := json.Marshal(ProductPayload{Name: "x", Price: 1, BusinessCategoryID: 2, Status: ProductRejected})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"ditolak"`)
	assert.NotContains(t, string(data), "status_produk")

	data, err = json.Marshal(ProductPayload{Name: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"status"`)
}

func TestProduct_Payload(t *testing.T) {
	p := Product{ID: 9, Name: "Batik", Price: 150000, Stock: 4, BusinessCategoryID: 2, Image: "img", Status: ProductApproved}
	pl := p.Payload()
	assert.Equal(t, "Batik", pl.Name)
	assert.Equal(t, int64(150000), pl.Price)
	assert.Equal(t, 4, pl.Stock)
	assert.Equal(t, int64(2), pl.BusinessCategoryID)
	assert.Equal(t, ProductApproved, pl.Status)
}
