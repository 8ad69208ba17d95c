// Package cli implements the mitra-admin operator commands. Each command
// writes human-readable output to App.Out and returns an error for the
// caller to report.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/edvin/mitra-admin/internal/admin"
	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/model"
	"github.com/edvin/mitra-admin/internal/session"
	"github.com/edvin/mitra-admin/internal/uploader"
)

type App struct {
	Admin    *admin.Service
	Session  session.Store
	Uploader uploader.Uploader
	Out      io.Writer
}

// ErrNotLoggedIn is returned by commands that need a session when there is
// none.
var ErrNotLoggedIn = errors.New("not logged in, run: mitra-admin login")

func (a *App) api() *apiclient.API {
	return a.Admin.API()
}

func (a *App) Login(ctx context.Context, email, password string, level apiclient.LoginLevel) error {
	resp, err := a.api().Auth.Login(ctx, model.Credentials{UsernameOrEmail: email, Password: password}, level)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
	return nil
}

func (a *App) Logout() error {
	if err := a.api().Auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "Logged out")
	return nil
}

func (a *App) WhoAmI() error {
	u := a.Session.User()
	if a.Session.Token() == "" || u == nil {
		return ErrNotLoggedIn
	}
	fmt.Fprintf(a.Out, "Name:   %s\n", u.Name)
	fmt.Fprintf(a.Out, "Email:  %s\n", u.Email)
	if role := u.Role(); role != "" {
		fmt.Fprintf(a.Out, "Level:  %s\n", role)
	}
	return nil
}

func (a *App) Products(ctx context.Context, f model.ProductFilter) error {
	page, err := a.api().Products.List(ctx, f)
	if err != nil {
		return err
	}
	if len(page.Data) == 0 {
		fmt.Fprintln(a.Out, "No products found.")
		return nil
	}

	fmt.Fprintf(a.Out, "%-6s %-30s %12s %6s %s\n", "ID", "NAME", "PRICE", "STOCK", "STATUS")
	for _, p := range page.Data {
		fmt.Fprintf(a.Out, "%-6d %-30s %12d %6d %s\n", p.ID, truncate(p.Name, 30), p.Price, p.Stock, p.Status)
	}
	fmt.Fprintf(a.Out, "\nPage %d of %d\n", page.CurrentPage, page.TotalPages)
	return nil
}

func (a *App) Product(ctx context.Context, id int64) error {
	p, err := a.api().Products.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "ID:          %d\n", p.ID)
	fmt.Fprintf(a.Out, "Name:        %s\n", p.Name)
	fmt.Fprintf(a.Out, "Status:      %s\n", p.Status)
	fmt.Fprintf(a.Out, "Price:       %d\n", p.Price)
	fmt.Fprintf(a.Out, "Stock:       %d\n", p.Stock)
	fmt.Fprintf(a.Out, "Phone:       %s\n", p.PhoneNumber)
	if p.BusinessCategory != nil {
		fmt.Fprintf(a.Out, "Category:    %s\n", p.BusinessCategory.Name)
	}
	if p.Owner != nil {
		fmt.Fprintf(a.Out, "Owner:       %s\n", p.Owner.Name)
	}
	fmt.Fprintf(a.Out, "Image:       %s\n", p.Image)
	if p.Description != "" {
		fmt.Fprintf(a.Out, "Description: %s\n", p.Description)
	}
	if len(p.Links) > 0 {
		fmt.Fprintln(a.Out)
		fmt.Fprintln(a.Out, "Links:")
		for _, l := range p.Links {
			fmt.Fprintf(a.Out, "  %s → %s\n", l.PlatformName, l.URL)
		}
	}
	return nil
}

func (a *App) ProductStatus(ctx context.Context, id int64, status string) error {
	st := model.ProductStatus(strings.ToLower(status))
	if !st.Valid() {
		return fmt.Errorf("unknown status %q (want approved, pending, rejected or inactive)", status)
	}
	p, err := a.Admin.SetProductStatus(ctx, id, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Product #%d is now %s\n", p.ID, p.Status)
	return nil
}

func (a *App) ProductDelete(ctx context.Context, id int64) error {
	msg, err := a.api().Products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = fmt.Sprintf("Deleted product #%d", id)
	}
	fmt.Fprintln(a.Out, msg)
	return nil
}

func (a *App) Partners(ctx context.Context, filter, query string) error {
	f, err := admin.ParsePartnerFilter(filter)
	if err != nil {
		return err
	}
	list, err := a.Admin.Partners(ctx, f, query)
	if err != nil {
		return err
	}

	if len(list.Partners) == 0 {
		fmt.Fprintln(a.Out, "No partners found.")
	} else {
		fmt.Fprintf(a.Out, "%-36s %-24s %-24s %s\n", "ID", "NAME", "BUSINESS", "ACTIVE")
		for _, u := range list.Partners {
			active := "no"
			if u.Active() {
				active = "yes"
			}
			fmt.Fprintf(a.Out, "%-36s %-24s %-24s %s\n", u.ID, truncate(u.Name, 24), truncate(u.BusinessName, 24), active)
		}
	}
	fmt.Fprintf(a.Out, "\nActive: %d  Inactive: %d\n", list.Active, list.Inactive)
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.api().MasterData.BusinessCategories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		fmt.Fprintln(a.Out, "No business categories.")
		return nil
	}
	fmt.Fprintf(a.Out, "%-6s %s\n", "ID", "NAME")
	for _, c := range cats {
		fmt.Fprintf(a.Out, "%-6d %s\n", c.ID, c.Name)
	}
	return nil
}

// Upload sends the image at path and prints its hosted URL.
func (a *App) Upload(ctx context.Context, path string) error {
	if a.Uploader == nil {
		return errors.New("no uploader configured")
	}
	name := filepath.Base(path)
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if typ == "" {
		typ = "application/octet-stream"
	}

	url, err := a.Uploader.Upload(ctx, uploader.Asset{URI: path, FileName: name, Type: typ})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, url)
	return nil
}

// Dashboard prints the summary as indented JSON.
func (a *App) Dashboard(ctx context.Context) error {
	sum, err := a.Admin.Dashboard(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
