package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edvin/mitra-admin/internal/model"
)

type ArticlesClient struct {
	private *Client
}

func (c *ArticlesClient) List(ctx context.Context) ([]model.Article, error) {
	return getList[model.Article](ctx, c.private, "listing articles", "/articles", nil)
}

func (c *ArticlesClient) Get(ctx context.Context, id int64) (*model.Article, error) {
	return getOne[model.Article](ctx, c.private, fmt.Sprintf("fetching article #%d", id), fmt.Sprintf("/articles/%d", id))
}

func (c *ArticlesClient) Create(ctx context.Context, p model.ArticlePayload) (*model.Article, error) {
	const op = "creating article"
	if err := Validate(op, p); err != nil {
		return nil, err
	}
	return send[model.Article](ctx, c.private, op, http.MethodPost, "/articles", p)
}

// Update sends a partial edit; articles are the one resource whose backend
// accepts partial bodies.
func (c *ArticlesClient) Update(ctx context.Context, id int64, p model.ArticleUpdate) (*model.Article, error) {
	return send[model.Article](ctx, c.private, fmt.Sprintf("updating article #%d", id), http.MethodPut, fmt.Sprintf("/articles/%d", id), p)
}

func (c *ArticlesClient) Delete(ctx context.Context, id int64) (string, error) {
	return sendMessage(ctx, c.private, fmt.Sprintf("deleting article #%d", id), http.MethodDelete, fmt.Sprintf("/articles/%d", id), nil)
}
