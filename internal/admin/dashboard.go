package admin

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/mitra-admin/internal/model"
)

const (
	dashboardProducts       = 10
	dashboardRecentProducts = 5
	dashboardRecentPartners = 3
)

// Summary is the dashboard's headline numbers. Product figures cover only the
// first page of products fetched for the dashboard.
type Summary struct {
	Partners         int                         `json:"partners"`
	ActivePartners   int                         `json:"active_partners"`
	Products         int                         `json:"products"`
	ProductPages     int                         `json:"product_pages"`
	Categories       int                         `json:"categories"`
	ProductsByStatus map[model.ProductStatus]int `json:"products_by_status"`
	RecentProducts   []model.Product             `json:"recent_products"`
	RecentPartners   []model.User                `json:"recent_partners"`
}

// Dashboard fetches users, the first products and the business categories
// concurrently. Any failure cancels the other requests and is returned.
func (s *Service) Dashboard(ctx context.Context) (*Summary, error) {
	var (
		users      []model.User
		products   *model.Page[model.Product]
		categories []model.BusinessCategory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.api.Users.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.api.Products.List(gctx, model.ProductFilter{Limit: dashboardProducts})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.api.MasterData.BusinessCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{
		Products:         len(products.Data),
		ProductPages:     products.TotalPages,
		Categories:       len(categories),
		ProductsByStatus: make(map[model.ProductStatus]int, len(model.ProductStatuses)),
		RecentProducts:   products.Data[:min(dashboardRecentProducts, len(products.Data))],
		RecentPartners:   []model.User{},
	}
	for _, st := range model.ProductStatuses {
		sum.ProductsByStatus[st] = 0
	}
	for _, p := range products.Data {
		sum.ProductsByStatus[p.Status]++
	}
	for _, u := range users {
		if !u.IsPartner() {
			continue
		}
		sum.Partners++
		if u.Active() {
			sum.ActivePartners++
		}
		if len(sum.RecentPartners) < dashboardRecentPartners {
			sum.RecentPartners = append(sum.RecentPartners, u)
		}
	}
	return sum, nil
}
