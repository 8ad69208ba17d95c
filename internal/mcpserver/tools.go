package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/admin"
	"github.com/edvin/mitra-admin/internal/apiclient"
	"github.com/edvin/mitra-admin/internal/model"
)

const (
	toolListProducts     = "list_products"
	toolGetProduct       = "get_product"
	toolSetProductStatus = "set_product_status"
	toolDeleteProduct    = "delete_product"
	toolListPartners     = "list_partners"
	toolListCategories   = "list_business_categories"
	toolDashboardSummary = "dashboard_summary"
)

var toolNames = map[string]struct{}{
	toolListProducts:     {},
	toolGetProduct:       {},
	toolSetProductStatus: {},
	toolDeleteProduct:    {},
	toolListPartners:     {},
	toolListCategories:   {},
	toolDashboardSummary: {},
}

type hints struct {
	readOnly, destructive, idempotent bool
}

var (
	readOnly    = hints{readOnly: true, idempotent: true}
	update      = hints{idempotent: true}
	destructive = hints{destructive: true, idempotent: true}
)

// Tools builds the admin tool set. Descriptions and annotations from cfg
// override the built-in ones.
func Tools(svc *admin.Service, cfg *Config, logger zerolog.Logger) []server.ServerTool {
	h := &handlers{svc: svc, logger: logger}
	statuses := make([]string, len(model.ProductStatuses))
	for i, s := range model.ProductStatuses {
		statuses[i] = string(s)
	}

	tools := []server.ServerTool{
		build(cfg, toolListProducts, readOnly, h.listProducts,
			"List marketplace products, one page at a time.",
			mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
			mcp.WithNumber("limit", mcp.Description("Products per page")),
			mcp.WithString("query", mcp.Description("Free-text search on the product name")),
			mcp.WithNumber("category_id", mcp.Description("Only products in this business category")),
			mcp.WithString("sub_sector_id", mcp.Description("Only products in this sub-sector")),
		),
		build(cfg, toolGetProduct, readOnly, h.getProduct,
			"Get one product with its category, owner and online store links.",
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Product id")),
		),
		build(cfg, toolSetProductStatus, update, h.setProductStatus,
			"Approve, reject, deactivate or reset a product to pending.",
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Product id")),
			mcp.WithString("status", mcp.Required(), mcp.Description("New moderation status"), mcp.Enum(statuses...)),
		),
		build(cfg, toolDeleteProduct, destructive, h.deleteProduct,
			"Delete a product permanently.",
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Product id")),
		),
		build(cfg, toolListPartners, readOnly, h.listPartners,
			"List UMKM partners with active and inactive counts.",
			mcp.WithString("filter", mcp.Description("Which partners to return"),
				mcp.Enum(string(admin.PartnersAll), string(admin.PartnersActive), string(admin.PartnersInactive))),
			mcp.WithString("query", mcp.Description("Search on name, business name or email")),
		),
		build(cfg, toolListCategories, readOnly, h.listCategories,
			"List business categories.",
		),
		build(cfg, toolDashboardSummary, readOnly, h.dashboard,
			"Summarize partners, products by status and categories.",
		),
	}
	return tools
}

func build(cfg *Config, name string, def hints, fn server.ToolHandlerFunc, desc string, params ...mcp.ToolOption) server.ServerTool {
	ro, de, id := def.readOnly, def.destructive, def.idempotent
	if o, ok := cfg.Overrides[name]; ok {
		if o.Description != "" {
			desc = o.Description
		}
		if o.ReadOnly != nil {
			ro = *o.ReadOnly
		}
		if o.Destructive != nil {
			de = *o.Destructive
		}
		if o.Idempotent != nil {
			id = *o.Idempotent
		}
	}

	opts := []mcp.ToolOption{
		mcp.WithDescription(desc),
		mcp.WithReadOnlyHintAnnotation(ro),
		mcp.WithDestructiveHintAnnotation(de),
		mcp.WithIdempotentHintAnnotation(id),
	}
	opts = append(opts, params...)

	return server.ServerTool{
		Tool:    mcp.NewTool(name, opts...),
		Handler: fn,
	}
}

type handlers struct {
	svc    *admin.Service
	logger zerolog.Logger
}

func (h *handlers) listProducts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var f model.ProductFilter
	var err error
	if f.Page, err = intArg(args, "page"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if f.Limit, err = intArg(args, "limit"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cat, err := idArg(args, "category_id", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f.CategoryID = cat
	f.Query = stringArg(args, "query")
	f.SubSectorID = stringArg(args, "sub_sector_id")

	page, err := h.svc.API().Products.List(ctx, f)
	return h.result(req, page, err)
}

func (h *handlers) getProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(req.GetArguments(), "id", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := h.svc.API().Products.Get(ctx, id)
	return h.result(req, p, err)
}

func (h *handlers) setProductStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := idArg(args, "id", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw := stringArg(args, "status")
	status := model.ProductStatus(strings.ToLower(raw))
	if !status.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", raw)), nil
	}
	p, err := h.svc.SetProductStatus(ctx, id, status)
	return h.result(req, p, err)
}

func (h *handlers) deleteProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(req.GetArguments(), "id", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg, err := h.svc.API().Products.Delete(ctx, id)
	return h.result(req, map[string]any{"id": id, "message": msg}, err)
}

type partnersResult struct {
	Partners []model.User `json:"partners"`
	Active   int          `json:"active"`
	Inactive int          `json:"inactive"`
}

func (h *handlers) listPartners(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	filter, err := admin.ParsePartnerFilter(stringArg(args, "filter"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := h.svc.Partners(ctx, filter, stringArg(args, "query"))
	if err != nil {
		return h.result(req, nil, err)
	}
	return h.result(req, partnersResult{
		Partners: list.Partners,
		Active:   list.Active,
		Inactive: list.Inactive,
	}, nil)
}

func (h *handlers) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := h.svc.API().MasterData.BusinessCategories(ctx)
	return h.result(req, cats, err)
}

func (h *handlers) dashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sum, err := h.svc.Dashboard(ctx)
	return h.result(req, sum, err)
}

// result renders v as JSON text, or err as a tool error. Client errors are
// reported to the agent rather than failing the JSON-RPC call.
func (h *handlers) result(req mcp.CallToolRequest, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		h.logger.Warn().Err(err).Str("tool", req.Params.Name).Msg("tool call failed")
		return mcp.NewToolResultError(errorText(err)), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %s", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func errorText(err error) string {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(apiErr.Error())
	b.WriteString(" (")
	b.WriteString(apiErr.Kind.String())
	b.WriteString(")")
	for _, f := range apiErr.Fields {
		fmt.Fprintf(&b, "\n- %s: %s", f.Field, f.Message)
	}
	return b.String()
}

func stringArg(args map[string]any, name string) string {
	v, ok := args[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

func intArg(args map[string]any, name string) (int, error) {
	n, err := idArg(args, name, false)
	return int(n), err
}

// idArg reads a whole number. JSON numbers arrive as float64; some clients
// send strings.
func idArg(args map[string]any, name string, required bool) (int64, error) {
	v, ok := args[name]
	if !ok || v == nil {
		if required {
			return 0, fmt.Errorf("missing required parameter: %s", name)
		}
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("parameter %s must be a whole number", name)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		if n == "" && !required {
			return 0, nil
		}
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %s must be a whole number", name)
		}
		return i, nil
	}
	return 0, fmt.Errorf("parameter %s must be a whole number", name)
}
