package admin

import (
	"context"
	"fmt"

	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/model"
	"github.com/edvin/mitra-admin/internal/uploader"
)

// SaveBusinessCategory creates a category when id is 0 and replaces category
// id otherwise, uploading image first when set.
func (s *Service) SaveBusinessCategory(ctx context.Context, id int64, payload model.BusinessCategoryPayload, image *uploader.Asset) (*model.BusinessCategory, error) {
	op := "creating business category"
	if id != 0 {
		op = fmt.Sprintf("updating business category #%d", id)
	}
	if err := apiclient.Validate(op, payload); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		payload.Image = url
	}

	if id == 0 {
		return s.api.BusinessCategories.Create(ctx, payload)
	}
	return s.api.BusinessCategories.Update(ctx, id, payload)
}

// UpdateBusinessCategory applies change to the full current record of
// category id and sends it back.
func (s *Service) UpdateBusinessCategory(ctx context.Context, id int64, change func(*model.BusinessCategoryPayload)) (*model.BusinessCategory, error) {
	current, err := s.api.BusinessCategories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := current.Payload()
	change(&payload)
	return s.api.BusinessCategories.Update(ctx, id, payload)
}
