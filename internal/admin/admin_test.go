package admin

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/devserver"
	"github.com/edvin/mitra-admin/internal/model"
	"github.com/edvin/mitra-admin/internal/session"
	"github.com/edvin/mitra-admin/internal/uploader"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "rahasia123"
)

type fixture struct {
	srv *devserver.Server
	url string
	svc *Service
	cat model.BusinessCategory
}

func newFixture(t *testing.T, up uploader.Uploader) *fixture {
	t.Helper()
	ds, err := devserver.New(devserver.Config{
		JWTSecret:     "test-secret",
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}, zerolog.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(ds)
	t.Cleanup(ts.Close)

	api := apiclient.New(ts.URL+"/api", session.NewMemoryStore())
	_, err = api.Auth.Login(context.Background(),
		model.Credentials{UsernameOrEmail: adminEmail, Password: adminPassword}, apiclient.LevelSuperAdmin)
	require.NoError(t, err)

	if up == nil {
		up = uploader.NewHTTPUploader(ts.URL+"/upload", nil, zerolog.Nop())
	}

	ss := ds.AddSubSector(model.SubSector{Title: "Kuliner"})
	return &fixture{
		srv: ds,
		url: ts.URL,
		svc: NewService(api, up, zerolog.Nop()),
		cat: ds.AddBusinessCategory(model.BusinessCategory{Name: "Makanan", SubSectorID: ss.ID}),
	}
}

func (f *fixture) addProduct(name string) model.Product {
	return f.srv.AddProduct(model.Product{
		Name:               name,
		Description:        "enak",
		Price:              12000,
		Stock:              7,
		PhoneNumber:        "0812",
		Image:              "https://cdn/x.png",
		BusinessCategoryID: f.cat.ID,
	})
}

type countingUploader struct {
	calls atomic.Int32
	url   string
	err   error
}

func (u *countingUploader) Upload(context.Context, uploader.Asset) (string, error) {
	u.calls.Add(1)
	return u.url, u.err
}

// ---------- products ----------

func TestSetProductStatus_SendsFullRecord(t *testing.T) {
	f := newFixture(t, nil)
	p := f.addProduct("Rendang")

	updated, err := f.svc.SetProductStatus(context.Background(), p.ID, model.ProductApproved)
	require.NoError(t, err)

	assert.Equal(t, model.ProductApproved, updated.Status)
	assert.Equal(t, "Rendang", updated.Name)
	assert.Equal(t, int64(12000), updated.Price)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, "https://cdn/x.png", updated.Image)
	assert.Equal(t, f.cat.ID, updated.BusinessCategoryID)
}

func TestSetProductStatus_InvalidStatus(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.SetProductStatus(context.Background(), 1, "archived")
	assert.True(t, apiclient.IsValidation(err))
}

func TestChangeProductStatus_PatchesListInPlace(t *testing.T) {
	f := newFixture(t, nil)
	a := f.addProduct("Satu")
	b := f.addProduct("Dua")
	c := f.addProduct("Tiga")

	list := f.svc.NewProductList(model.ProductFilter{Limit: 10})
	require.NoError(t, list.Reload(context.Background()))
	before := list.Items()

	require.NoError(t, f.svc.ChangeProductStatus(context.Background(), list, b.ID, model.ProductRejected))

	after := list.Items()
	require.Len(t, after, 3)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
	assert.Equal(t, b.ID, after[1].ID)
	assert.Equal(t, model.ProductRejected, after[1].Status)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, []int64{after[0].ID, after[1].ID, after[2].ID})
}

func TestChangeProductStatus_FailureResyncsToServerTruth(t *testing.T) {
	f := newFixture(t, nil)
	f.addProduct("Satu")
	gone := f.addProduct("Dua")

	list := f.svc.NewProductList(model.ProductFilter{Limit: 10})
	require.NoError(t, list.Reload(context.Background()))

	// Deleted behind the list's back.
	_, err := f.svc.API().Products.Delete(context.Background(), gone.ID)
	require.NoError(t, err)

	err = f.svc.ChangeProductStatus(context.Background(), list, gone.ID, model.ProductApproved)
	require.True(t, apiclient.IsNotFound(err))

	items := list.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Satu", items[0].Name)
	assert.Equal(t, model.ProductPending, items[0].Status)
}

func TestDeleteProduct_RemovesFromList(t *testing.T) {
	f := newFixture(t, nil)
	f.addProduct("Satu")
	p := f.addProduct("Dua")

	list := f.svc.NewProductList(model.ProductFilter{})
	require.NoError(t, list.Reload(context.Background()))

	require.NoError(t, f.svc.DeleteProduct(context.Background(), list, p.ID))
	assert.Len(t, list.Items(), 1)

	_, err := f.svc.API().Products.Get(context.Background(), p.ID)
	assert.True(t, apiclient.IsNotFound(err))
}

func TestProductList_LoadMore(t *testing.T) {
	f := newFixture(t, nil)
	for range 12 {
		f.addProduct("Kopi")
	}
	f.addProduct("Teh")

	list := f.svc.NewProductList(model.ProductFilter{Query: "kopi", Limit: 5})
	require.NoError(t, list.Reload(context.Background()))
	assert.Len(t, list.Items(), 5)

	for list.HasMore() {
		_, err := list.LoadMore(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, list.Items(), 12)
}

func TestSaveProduct_UploadsImageThenCreates(t *testing.T) {
	f := newFixture(t, nil)

	created, err := f.svc.SaveProduct(context.Background(), 0, ProductForm{
		Payload: model.ProductPayload{Name: "Kerupuk", Price: 5000, Stock: 10, BusinessCategoryID: f.cat.ID},
		Image: &uploader.Asset{
			URI:      "content://media/1",
			FileName: "kerupuk.jpg",
			Type:     "image/jpeg",
			Content:  strings.NewReader("jpeg"),
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Image, f.url+"/files/"))

	pl := created.Payload()
	pl.Stock = 3
	updated, err := f.svc.SaveProduct(context.Background(), created.ID, ProductForm{Payload: pl})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)
	assert.Equal(t, created.Image, updated.Image)
}

func TestSaveProduct_ValidatesBeforeUpload(t *testing.T) {
	up := &countingUploader{url: "https://cdn/x.png"}
	f := newFixture(t, up)

	_, err := f.svc.SaveProduct(context.Background(), 0, ProductForm{
		Payload: model.ProductPayload{Name: "Tanpa harga", BusinessCategoryID: f.cat.ID},
		Image:   &uploader.Asset{URI: "x", FileName: "x.png", Type: "image/png", Content: strings.NewReader("x")},
	})
	assert.True(t, apiclient.IsValidation(err))
	assert.Equal(t, int32(0), up.calls.Load())
}

func TestSaveProduct_UploadFailureStops(t *testing.T) {
	up := &countingUploader{err: &apiclient.Error{Op: "uploading image", Kind: apiclient.KindConnectivity, Message: apiclient.ConnectivityMessage}}
	f := newFixture(t, up)

	_, err := f.svc.SaveProduct(context.Background(), 0, ProductForm{
		Payload: model.ProductPayload{Name: "Batik", Price: 1, BusinessCategoryID: f.cat.ID},
		Image:   &uploader.Asset{URI: "x", FileName: "x.png", Type: "image/png", Content: strings.NewReader("x")},
	})
	assert.True(t, apiclient.IsConnectivity(err))

	page, err := f.svc.API().Products.List(context.Background(), model.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

// ---------- partners ----------

func addPartner(t *testing.T, f *fixture, name, business, email string, verified bool) model.User {
	t.Helper()
	u := model.User{Name: name, BusinessName: business, Email: email, LevelID: "3"}
	if verified {
		now := time.Now().UTC()
		u.VerifiedAt = &now
	}
	created, err := f.srv.AddUser(u, "secret1")
	require.NoError(t, err)
	return created
}

func TestPartners(t *testing.T) {
	f := newFixture(t, nil)
	addPartner(t, f, "Andi", "Kopi Andi", "andi@example.com", true)
	addPartner(t, f, "Bela", "Batik Bela", "bela@example.com", false)
	addPartner(t, f, "Citra", "Kopi Citra", "citra@example.com", false)

	tests := []struct {
		name     string
		filter   PartnerFilter
		query    string
		wantName []string
	}{
		{"all", PartnersAll, "", []string{"Andi", "Bela", "Citra"}},
		{"active", PartnersActive, "", []string{"Andi"}},
		{"inactive", PartnersInactive, "", []string{"Bela", "Citra"}},
		{"query business name", PartnersAll, "kopi", []string{"Andi", "Citra"}},
		{"query and filter", PartnersInactive, "KOPI", []string{"Citra"}},
		{"query email", PartnersAll, "bela@", []string{"Bela"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.svc.Partners(context.Background(), tt.filter, tt.query)
			require.NoError(t, err)

			var names []string
			for _, p := range list.Partners {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, tt.wantName, names)
			assert.Equal(t, 1, list.Active)
			assert.Equal(t, 2, list.Inactive)
		})
	}
}

func TestParsePartnerFilter(t *testing.T) {
	f, err := ParsePartnerFilter("")
	require.NoError(t, err)
	assert.Equal(t, PartnersAll, f)

	f, err = ParsePartnerFilter("Active")
	require.NoError(t, err)
	assert.Equal(t, PartnersActive, f)

	_, err = ParsePartnerFilter("banned")
	assert.Error(t, err)
}

func TestSetPartnerActive(t *testing.T) {
	f := newFixture(t, nil)
	p := addPartner(t, f, "Dewi", "Tenun Dewi", "dewi@example.com", false)

	require.NoError(t, f.svc.SetPartnerActive(context.Background(), p.ID, true))
	got, err := f.svc.API().Users.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Active())
	assert.Equal(t, "Tenun Dewi", got.BusinessName)

	require.NoError(t, f.svc.SetPartnerActive(context.Background(), p.ID, false))
	got, err = f.svc.API().Users.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active())
}

func TestDeletePartner(t *testing.T) {
	f := newFixture(t, nil)
	p := addPartner(t, f, "Eka", "", "eka@example.com", true)

	require.NoError(t, f.svc.DeletePartner(context.Background(), p.ID))

	users, err := f.svc.API().Users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	err = f.svc.DeletePartner(context.Background(), users[0].ID)
	assert.True(t, apiclient.IsValidation(err))
}

// ---------- categories ----------

func TestUpdateBusinessCategory_KeepsSubSector(t *testing.T) {
	f := newFixture(t, nil)

	updated, err := f.svc.UpdateBusinessCategory(context.Background(), f.cat.ID, func(p *model.BusinessCategoryPayload) {
		p.Name = "Makanan Ringan"
	})
	require.NoError(t, err)
	assert.Equal(t, "Makanan Ringan", updated.Name)
	assert.Equal(t, f.cat.SubSectorID, updated.SubSectorID)
}

func TestSaveBusinessCategory(t *testing.T) {
	f := newFixture(t, nil)

	created, err := f.svc.SaveBusinessCategory(context.Background(), 0,
		model.BusinessCategoryPayload{Name: "Minuman", SubSectorID: f.cat.SubSectorID},
		&uploader.Asset{URI: "x", FileName: "m.webp", Type: "image/webp", Content: strings.NewReader("w")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(created.Image, ".webp"))

	_, err = f.svc.SaveBusinessCategory(context.Background(), created.ID, model.BusinessCategoryPayload{Name: "x"}, nil)
	assert.True(t, apiclient.IsValidation(err))
}

// ---------- dashboard ----------

func TestDashboard(t *testing.T) {
	f := newFixture(t, nil)
	addPartner(t, f, "Andi", "", "andi@example.com", true)
	addPartner(t, f, "Bela", "", "bela@example.com", false)
	var products []model.Product
	for range 12 {
		products = append(products, f.addProduct("Produk"))
	}
	ctx := context.Background()
	_, err := f.svc.SetProductStatus(ctx, products[1].ID, model.ProductApproved)
	require.NoError(t, err)

	sum, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Partners)
	assert.Equal(t, 1, sum.ActivePartners)
	assert.Equal(t, 10, sum.Products)
	assert.Equal(t, 2, sum.ProductPages)
	assert.Equal(t, 1, sum.Categories)
	assert.Len(t, sum.RecentProducts, 5)
	assert.Len(t, sum.RecentPartners, 2)
	assert.Equal(t, 1, sum.ProductsByStatus[model.ProductApproved])
	assert.Equal(t, 9, sum.ProductsByStatus[model.ProductPending])
	assert.Equal(t, 0, sum.ProductsByStatus[model.ProductRejected])
}

func TestDashboard_FailsWhenAnyRequestFails(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.svc.API().Auth.Logout())

	_, err := f.svc.Dashboard(context.Background())
	require.Error(t, err)
	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiclient.IsUnauthorized(err))
}
