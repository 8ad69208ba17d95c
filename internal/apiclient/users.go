package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edvin/mitra-admin/internal/model"
)

// UsersClient covers /users. Every endpoint needs a session.
type UsersClient struct {
	private *Client
}

// Profile returns the logged-in user.
func (c *UsersClient) Profile(ctx context.Context) (*model.User, error) {
	return getOne[model.User](ctx, c.private, "fetching profile", "/users/profile")
}

func (c *UsersClient) List(ctx context.Context) ([]model.User, error) {
	return getList[model.User](ctx, c.private, "listing users", "/users", nil)
}

func (c *UsersClient) Get(ctx context.Context, id string) (*model.User, error) {
	return getOne[model.User](ctx, c.private, fmt.Sprintf("fetching user #%s", id), "/users/"+url.PathEscape(id))
}

// Update replaces user id with u. Like products, the backend expects the whole
// record; start from User.Payload.
func (c *UsersClient) Update(ctx context.Context, id string, u model.UserPayload) (string, error) {
	op := fmt.Sprintf("updating user #%s", id)
	if err := Validate(op, u); err != nil {
		return "", err
	}
	return sendMessage(ctx, c.private, op, http.MethodPut, "/users/"+url.PathEscape(id), u)
}

func (c *UsersClient) Delete(ctx context.Context, id string) (string, error) {
	return sendMessage(ctx, c.private, fmt.Sprintf("deleting user #%s", id), http.MethodDelete, "/users/"+url.PathEscape(id), nil)
}

// Products lists the products owned by a user.
func (c *UsersClient) Products(ctx context.Context, userID string) ([]model.Product, error) {
	return getList[model.Product](ctx, c.private, fmt.Sprintf("fetching products of user #%s", userID),
		"/users/"+url.PathEscape(userID)+"/products", nil)
}

// Articles lists the articles written by a user.
func (c *UsersClient) Articles(ctx context.Context, userID string) ([]model.Article, error) {
	return getList[model.Article](ctx, c.private, fmt.Sprintf("fetching articles of user #%s", userID),
		"/users/"+url.PathEscape(userID)+"/articles", nil)
}
