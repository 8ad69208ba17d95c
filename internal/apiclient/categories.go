package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edvin/mitra-admin/internal/model"
)

type BusinessCategoriesClient struct {
	public  *Client
	private *Client
}

func (c *BusinessCategoriesClient) List(ctx context.Context) ([]model.BusinessCategory, error) {
	return getList[model.BusinessCategory](ctx, c.public, "listing business categories", "/business-categories", nil)
}

func (c *BusinessCategoriesClient) Get(ctx context.Context, id int64) (*model.BusinessCategory, error) {
	return getOne[model.BusinessCategory](ctx, c.public, fmt.Sprintf("fetching business category #%d", id),
		fmt.Sprintf("/business-categories/%d", id))
}

func (c *BusinessCategoriesClient) Create(ctx context.Context, p model.BusinessCategoryPayload) (*model.BusinessCategory, error) {
	const op = "creating business category"
	if err := Validate(op, p); err != nil {
		return nil, err
	}
	return send[model.BusinessCategory](ctx, c.private, op, http.MethodPost, "/business-categories", p)
}

// Update replaces category id with p; the sub-sector is required even when
// only the name changes.
func (c *BusinessCategoriesClient) Update(ctx context.Context, id int64, p model.BusinessCategoryPayload) (*model.BusinessCategory, error) {
	op := fmt.Sprintf("updating business category #%d", id)
	if err := Validate(op, p); err != nil {
		return nil, err
	}
	return send[model.BusinessCategory](ctx, c.private, op, http.MethodPut, fmt.Sprintf("/business-categories/%d", id), p)
}

func (c *BusinessCategoriesClient) Delete(ctx context.Context, id int64) (string, error) {
	return sendMessage(ctx, c.private, fmt.Sprintf("deleting business category #%d", id),
		http.MethodDelete, fmt.Sprintf("/business-categories/%d", id), nil)
}

type SubSectorsClient struct {
	public  *Client
	private *Client
}

func (c *SubSectorsClient) List(ctx context.Context) ([]model.SubSector, error) {
	return getList[model.SubSector](ctx, c.public, "listing subsectors", "/subsectors", nil)
}

func (c *SubSectorsClient) Get(ctx context.Context, id string) (*model.SubSector, error) {
	return getOne[model.SubSector](ctx, c.public, fmt.Sprintf("fetching subsector #%s", id), "/subsectors/"+url.PathEscape(id))
}

func (c *SubSectorsClient) Create(ctx context.Context, p model.SubSectorPayload) (*model.SubSector, error) {
	const op = "creating subsector"
	if err := Validate(op, p); err != nil {
		return nil, err
	}
	return send[model.SubSector](ctx, c.private, op, http.MethodPost, "/subsectors", p)
}

func (c *SubSectorsClient) Update(ctx context.Context, id string, p model.SubSectorPayload) (*model.SubSector, error) {
	op := fmt.Sprintf("updating subsector #%s", id)
	if err := Validate(op, p); err != nil {
		return nil, err
	}
	return send[model.SubSector](ctx, c.private, op, http.MethodPut, "/subsectors/"+url.PathEscape(id), p)
}

func (c *SubSectorsClient) Delete(ctx context.Context, id string) (string, error) {
	return sendMessage(ctx, c.private, fmt.Sprintf("deleting subsector #%s", id), http.MethodDelete, "/subsectors/"+url.PathEscape(id), nil)
}

// MasterDataClient reads the reference lists used to populate forms.
type MasterDataClient struct {
	public *Client
}

func (c *MasterDataClient) BusinessCategories(ctx context.Context) ([]model.BusinessCategory, error) {
	return getList[model.BusinessCategory](ctx, c.public, "fetching business categories", "/master-data/business-categories", nil)
}

func (c *MasterDataClient) Levels(ctx context.Context) ([]model.Level, error) {
	return getList[model.Level](ctx, c.public, "fetching user levels", "/master-data/levels", nil)
}

func (c *MasterDataClient) SubSectors(ctx context.Context) ([]model.SubSector, error) {
	return getList[model.SubSector](ctx, c.public, "fetching subsectors", "/master-data/subsectors", nil)
}
