package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/model"
)

type PartnerFilter string

const (
	PartnersAll      PartnerFilter = "all"
	PartnersActive   PartnerFilter = "active"
	PartnersInactive PartnerFilter = "inactive"
)

func ParsePartnerFilter(s string) (PartnerFilter, error) {
	switch f := PartnerFilter(strings.ToLower(s)); f {
	case "", PartnersAll:
		return PartnersAll, nil
	case PartnersActive, PartnersInactive:
		return f, nil
	}
	return "", fmt.Errorf("unknown partner filter %q (want all, active or inactive)", s)
}

// PartnerList holds the partners matching a filter. Active and Inactive count
// every partner regardless of the filter and query.
type PartnerList struct {
	Partners []model.User
	Active   int
	Inactive int
}

// Partners lists UMKM users, keeping those that match filter and whose name,
// business name or email contains query (case-insensitive).
func (s *Service) Partners(ctx context.Context, filter PartnerFilter, query string) (*PartnerList, error) {
	users, err := s.api.Users.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := &PartnerList{Partners: []model.User{}}
	for _, u := range users {
		if !u.IsPartner() {
			continue
		}
		if u.Active() {
			out.Active++
		} else {
			out.Inactive++
		}

		switch filter {
		case PartnersActive:
			if !u.Active() {
				continue
			}
		case PartnersInactive:
			if u.Active() {
				continue
			}
		}
		if query != "" && !matchesPartner(u, query) {
			continue
		}
		out.Partners = append(out.Partners, u)
	}
	return out, nil
}

func matchesPartner(u model.User, query string) bool {
	for _, field := range []string{u.Name, u.BusinessName, u.Email} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// UpdatePartner applies change to the full current record of user id and
// sends it back, since the backend rejects partial user updates.
func (s *Service) UpdatePartner(ctx context.Context, id string, change func(*model.UserPayload)) error {
	current, err := s.api.Users.Get(ctx, id)
	if err != nil {
		return err
	}
	payload := current.Payload()
	change(&payload)

	_, err = s.api.Users.Update(ctx, id, payload)
	return err
}

// SetPartnerActive verifies or unverifies partner id.
func (s *Service) SetPartnerActive(ctx context.Context, id string, active bool) error {
	err := s.UpdatePartner(ctx, id, func(p *model.UserPayload) {
		if !active {
			p.VerifiedAt = nil
			return
		}
		if p.VerifiedAt == nil {
			now := time.Now().UTC()
			p.VerifiedAt = &now
		}
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Bool("active", active).Msg("partner activation changed")
	return nil
}

// DeletePartner removes partner id. Non-partner accounts are refused.
func (s *Service) DeletePartner(ctx context.Context, id string) error {
	u, err := s.api.Users.Get(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsPartner() {
		return &apiclient.Error{
			Op:      fmt.Sprintf("deleting user #%s", id),
			Kind:    apiclient.KindValidation,
			Message: "only partner accounts can be deleted here",
		}
	}
	_, err = s.api.Users.Delete(ctx, id)
	return err
}
