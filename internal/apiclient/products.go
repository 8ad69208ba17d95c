package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/edvin/mitra-admin/internal/model"
)

// ProductsClient covers /products. Reads are public; writes need a session.
type ProductsClient struct {
	public  *Client
	private *Client
}

// List returns one page of products matching f.
func (c *ProductsClient) List(ctx context.Context, f model.ProductFilter) (*model.Page[model.Product], error) {
	const op = "listing products"
	if err := Validate(op, f); err != nil {
		return nil, err
	}
	return getPage[model.Product](ctx, c.public, op, "/products", productQuery(f))
}

func productQuery(f model.ProductFilter) url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.CategoryID > 0 {
		q.Set("kategori", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.SubSectorID != "" {
		q.Set("subsector", f.SubSectorID)
	}
	return q
}

func (c *ProductsClient) Get(ctx context.Context, id int64) (*model.Product, error) {
	return getOne[model.Product](ctx, c.public, fmt.Sprintf("fetching product #%d", id), fmt.Sprintf("/products/%d", id))
}

func (c *ProductsClient) Create(ctx context.Context, p model.ProductPayload) (*model.Product, error) {
	const op = "creating product"
	if err := Validate(op, p); err != nil {
		return nil, err
	}
	return send[model.Product](ctx, c.private, op, http.MethodPost, "/products", p)
}

// Update replaces product id with p. The backend validates the full record on
// every update, so p must be complete; build it from Product.Payload and
// change the fields you need rather than sending only the changed ones.
func (c *ProductsClient) Update(ctx context.Context, id int64, p model.ProductPayload) (*model.Product, error) {
	op := fmt.Sprintf("updating product #%d", id)
	if err := Validate(op, p); err != nil {
		return nil, err
	}
	return send[model.Product](ctx, c.private, op, http.MethodPut, fmt.Sprintf("/products/%d", id), p)
}

// Delete removes product id and returns the server's confirmation message.
func (c *ProductsClient) Delete(ctx context.Context, id int64) (string, error) {
	return sendMessage(ctx, c.private, fmt.Sprintf("deleting product #%d", id), http.MethodDelete, fmt.Sprintf("/products/%d", id), nil)
}

// CreateLink attaches an online store link to a product.
func (c *ProductsClient) CreateLink(ctx context.Context, productID int64, l model.LinkPayload) (*model.OnlineStoreLink, error) {
	op := fmt.Sprintf("adding link to product #%d", productID)
	if err := Validate(op, l); err != nil {
		return nil, err
	}
	return send[model.OnlineStoreLink](ctx, c.private, op, http.MethodPost, fmt.Sprintf("/products/%d/links", productID), l)
}

func (c *ProductsClient) UpdateLink(ctx context.Context, productID, linkID int64, l model.LinkUpdate) (*model.OnlineStoreLink, error) {
	op := fmt.Sprintf("updating link #%d", linkID)
	if err := Validate(op, l); err != nil {
		return nil, err
	}
	return send[model.OnlineStoreLink](ctx, c.private, op, http.MethodPut, fmt.Sprintf("/products/%d/links/%d", productID, linkID), l)
}
