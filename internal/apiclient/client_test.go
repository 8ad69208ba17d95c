package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mitra-admin/internal/devserver"
	"github.com/edvin/mitra-admin/internal/model"
	"github.com/edvin/mitra-admin/internal/session"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "rahasia123"
)

type fixture struct {
	srv   *devserver.Server
	url   string
	store *session.MemoryStore
	api   *API
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv, err := devserver.New(devserver.Config{
		JWTSecret:     "test-secret",
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}, zerolog.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	store := session.NewMemoryStore()
	return &fixture{
		srv:   srv,
		url:   ts.URL + "/api",
		store: store,
		api:   New(ts.URL+"/api", store),
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	_, err := f.api.Auth.Login(context.Background(),
		model.Credentials{UsernameOrEmail: adminEmail, Password: adminPassword}, LevelSuperAdmin)
	require.NoError(t, err)
}

func asAPIError(t *testing.T, err error) *Error {
	t.Helper()
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	return apiErr
}

// ---------- transport ----------

func TestAuthenticatedClient_BearerFollowsSession(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"ok","data":[]}`))
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	c := NewAuthenticatedClient(srv.URL, store)
	ctx := context.Background()

	_, err := getList[model.User](ctx, c, "listing users", "/users", nil)
	require.NoError(t, err)

	require.NoError(t, store.Set("tok-1", model.User{ID: "u1"}))
	_, err = getList[model.User](ctx, c, "listing users", "/users", nil)
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	_, err = getList[model.User](ctx, c, "listing users", "/users", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok-1", ""}, got)
}

func TestPublicClient_NeverSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"message":"ok","data":[]}`))
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Set("tok", model.User{}))
	api := New(srv.URL, store)

	_, err := api.BusinessCategories.List(context.Background())
	require.NoError(t, err)
}

func TestClient_ConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	api := New(url, session.NewMemoryStore())
	_, err := api.Products.Get(context.Background(), 7)
	apiErr := asAPIError(t, err)
	assert.Equal(t, KindConnectivity, apiErr.Kind)
	assert.Equal(t, ConnectivityMessage, apiErr.Message)
	assert.Equal(t, "fetching product #7", apiErr.Op)
	assert.True(t, IsConnectivity(err))
}

func TestClient_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok","data":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := New(srv.URL, session.NewMemoryStore())
	_, err := api.BusinessCategories.List(ctx)
	assert.True(t, IsCanceled(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	api := New(srv.URL, session.NewMemoryStore())
	_, err := api.Products.Get(context.Background(), 1)
	apiErr := asAPIError(t, err)
	assert.Equal(t, KindMalformed, apiErr.Kind)
	assert.Equal(t, "failed fetching product #1", apiErr.Message)
}

func TestClient_ServerErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	api := New(srv.URL, session.NewMemoryStore())
	_, err := api.Products.Delete(context.Background(), 42)
	apiErr := asAPIError(t, err)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "deleting product #42: failed deleting product #42", apiErr.Error())
}

func TestClient_RecordsMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"product 9 not found"}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	api := New(srv.URL, session.NewMemoryStore(), WithMetrics(m))

	_, err := api.Products.Get(context.Background(), 9)
	require.True(t, IsNotFound(err))

	families, err := reg.Gather()
	require.NoError(t, err)
	labels := map[string]string{}
	var count float64
	for _, mf := range families {
		if mf.GetName() != "mitra_api_requests_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		count = mf.GetMetric()[0].GetCounter().GetValue()
	}
	assert.Equal(t, 1.0, count)
	assert.Equal(t, "/products/{id}", labels["route"])
	assert.Equal(t, "404", labels["status"])
	assert.Equal(t, http.MethodGet, labels["method"])
}

func TestRouteOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/products", "/products"},
		{"/products/42", "/products/{id}"},
		{"/products/42/links/7", "/products/{id}/links/{id}"},
		{"/users/8b6d1c4e-3f7a-4c2b-9a51-0e2f6c7d8a90/products", "/users/{id}/products"},
		{"/master-data/levels", "/master-data/levels"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, routeOf(tt.path))
		})
	}
}

// ---------- products against the dev server ----------

func TestProducts_ListPagination(t *testing.T) {
	f := newFixture(t)
	for i := range 15 {
		f.srv.AddProduct(model.Product{Name: fmt.Sprintf("Kopi %d", i), Price: 1000})
	}

	page, err := f.api.Products.List(context.Background(), model.ProductFilter{Page: 1, Limit: 10, Query: "kopi"})
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.True(t, page.HasMore())
}

func TestProducts_ListRejectsNegativeLimit(t *testing.T) {
	api := New("http://127.0.0.1:0", session.NewMemoryStore())
	_, err := api.Products.List(context.Background(), model.ProductFilter{Limit: -1})
	assert.True(t, IsValidation(err))
}

func TestProducts_CreateGetUpdateDelete(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	cat := f.srv.AddBusinessCategory(model.BusinessCategory{Name: "Kuliner", SubSectorID: "ss"})

	created, err := f.api.Products.Create(ctx, model.ProductPayload{
		Name: "Sambal", Price: 25000, Stock: 4, BusinessCategoryID: cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProductPending, created.Status)

	got, err := f.api.Products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sambal", got.Name)

	pl := got.Payload()
	pl.Status = model.ProductApproved
	updated, err := f.api.Products.Update(ctx, got.ID, pl)
	require.NoError(t, err)
	assert.Equal(t, model.ProductApproved, updated.Status)
	assert.Equal(t, int64(25000), updated.Price)

	msg, err := f.api.Products.Delete(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "product deleted", msg)

	_, err = f.api.Products.Delete(ctx, got.ID)
	apiErr := asAPIError(t, err)
	assert.Equal(t, KindNotFound, apiErr.Kind)
	assert.Contains(t, apiErr.Op, fmt.Sprintf("product #%d", got.ID))
	assert.Equal(t, fmt.Sprintf("product %d not found", got.ID), apiErr.Message)
}

func TestProducts_CreateValidatesLocally(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	api := New(srv.URL, session.NewMemoryStore())
	_, err := api.Products.Create(context.Background(), model.ProductPayload{Name: "", Price: 0})
	apiErr := asAPIError(t, err)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, 0, hits)

	fields := map[string]string{}
	for _, fe := range apiErr.Fields {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "price must be greater than 0", fields["price"])
	assert.Contains(t, fields, "business_category_id")
}

func TestProducts_WriteWithoutSessionIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	_, err := f.api.Products.Delete(context.Background(), 1)
	assert.True(t, IsUnauthorized(err))
}

func TestProducts_Links(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	p := f.srv.AddProduct(model.Product{Name: "Tenun", Price: 1})

	link, err := f.api.Products.CreateLink(ctx, p.ID, model.LinkPayload{PlatformName: "Shopee", URL: "https://shopee.co.id/tenun"})
	require.NoError(t, err)

	name := "Shopee Mall"
	updated, err := f.api.Products.UpdateLink(ctx, p.ID, link.ID, model.LinkUpdate{PlatformName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.PlatformName)
	assert.Equal(t, "https://shopee.co.id/tenun", updated.URL)

	_, err = f.api.Products.CreateLink(ctx, p.ID, model.LinkPayload{URL: "not a url"})
	assert.True(t, IsValidation(err))
}

// ---------- status wire mapping ----------

func TestProducts_LegacyStatusField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok","data":{"id":3,"name":"Lama","status_produk":"ditolak"}}`))
	}))
	defer srv.Close()

	api := New(srv.URL, session.NewMemoryStore())
	p, err := api.Products.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, model.ProductRejected, p.Status)
}

func TestProducts_GetNullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"","data":null}`))
	}))
	defer srv.Close()

	api := New(srv.URL, session.NewMemoryStore())
	_, err := api.Products.Get(context.Background(), 3)
	assert.True(t, IsNotFound(err))
}
