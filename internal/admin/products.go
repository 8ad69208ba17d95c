package admin

import (
	"context"
	"fmt"

	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/model"
	"github.com/edvin/mitra-admin/internal/reconcile"
	"github.com/edvin/mitra-admin/internal/uploader"
)

// ProductList is the reconciled product list behind the product management
// screen.
type ProductList = reconcile.List[int64, model.Product]

func productKey(p model.Product) int64 { return p.ID }

// NewProductList returns an unloaded list over f. f.Page is ignored; the list
// manages paging itself. Call Reload to fetch the first page.
func (s *Service) NewProductList(f model.ProductFilter, opts ...reconcile.Option) *ProductList {
	opts = append([]reconcile.Option{reconcile.WithLogger(s.logger)}, opts...)
	return reconcile.New(productKey, func(ctx context.Context, page int) (*model.Page[model.Product], error) {
		q := f
		q.Page = page
		return s.api.Products.List(ctx, q)
	}, opts...)
}

// SetProductStatus changes only the status of product id. The backend
// rejects partial updates, so the current record is fetched and sent back in
// full with the new status.
func (s *Service) SetProductStatus(ctx context.Context, id int64, status model.ProductStatus) (*model.Product, error) {
	if !status.Valid() {
		return nil, &apiclient.Error{
			Op:      fmt.Sprintf("updating product #%d", id),
			Kind:    apiclient.KindValidation,
			Message: fmt.Sprintf("unknown product status %q", status),
		}
	}

	current, err := s.api.Products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := current.Payload()
	payload.Status = status

	updated, err := s.api.Products.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("product_id", id).Str("status", string(status)).Msg("product status changed")
	return updated, nil
}

// ChangeProductStatus sets the status of product id and patches list in
// place on success.
func (s *Service) ChangeProductStatus(ctx context.Context, list *ProductList, id int64, status model.ProductStatus) error {
	return list.Patch(ctx, id,
		func(ctx context.Context) error {
			_, err := s.SetProductStatus(ctx, id, status)
			return err
		},
		func(p model.Product) model.Product {
			p.Status = status
			return p
		},
	)
}

// DeleteProduct deletes product id and drops it from list on success.
func (s *Service) DeleteProduct(ctx context.Context, list *ProductList, id int64) error {
	return list.Remove(ctx, id, func(ctx context.Context) error {
		_, err := s.api.Products.Delete(ctx, id)
		return err
	})
}

// ProductForm is the product create/edit form. When Image is set it is
// uploaded first and its URL replaces Payload.Image.
type ProductForm struct {
	Payload model.ProductPayload
	Image   *uploader.Asset
}

// SaveProduct creates a product when id is 0 and replaces product id
// otherwise. The payload is validated before anything is uploaded.
func (s *Service) SaveProduct(ctx context.Context, id int64, form ProductForm) (*model.Product, error) {
	op := "creating product"
	if id != 0 {
		op = fmt.Sprintf("updating product #%d", id)
	}
	if err := apiclient.Validate(op, form.Payload); err != nil {
		return nil, err
	}

	payload := form.Payload
	if form.Image != nil {
		url, err := s.upload(ctx, *form.Image)
		if err != nil {
			return nil, err
		}
		payload.Image = url
	}

	if id == 0 {
		return s.api.Products.Create(ctx, payload)
	}
	return s.api.Products.Update(ctx, id, payload)
}

func (s *Service) upload(ctx context.Context, a uploader.Asset) (string, error) {
	if s.uploader == nil {
		return "", &apiclient.Error{Op: "uploading image", Kind: apiclient.KindUnexpected, Message: "no uploader configured"}
	}
	return s.uploader.Upload(ctx, a)
}
