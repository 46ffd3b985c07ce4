package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/api/transport"
	"github.com/fastygo/storefront/pkg/httpcontext"
	productUC "github.com/fastygo/storefront/usecase/product"
)

type ProductHandler struct {
	baseHandler
	uc *productUC.UseCase
}

func NewProductHandler(uc *productUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List products
// @Tags catalog
// @Router /api/v1/products [get]
func (h *ProductHandler) List(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := productUC.Filter{
		Category:    string(args.Peek("category")),
		Search:      string(args.Peek("q")),
		Sort:        productUC.SortOrder(args.Peek("sort")),
		InStockOnly: parseBool(string(args.Peek("inStock"))),
		Limit:       parseInt(string(args.Peek("limit")), 0),
	}
	h.list(ctx, filter)
}

// @Summary List products of a category
// @Tags catalog
// @Router /api/v1/categories/{slug}/products [get]
func (h *ProductHandler) ListByCategory(ctx *fasthttp.RequestCtx) {
	slug, _ := ctx.UserValue("slug").(string)
	args := ctx.QueryArgs()
	h.list(ctx, productUC.Filter{
		Category:    slug,
		Sort:        productUC.SortOrder(args.Peek("sort")),
		InStockOnly: parseBool(string(args.Peek("inStock"))),
		Limit:       parseInt(string(args.Peek("limit")), 0),
	})
}

func (h *ProductHandler) list(ctx *fasthttp.RequestCtx, filter productUC.Filter) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	products, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, products, len(products))
}

// @Summary Get product
// @Tags catalog
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	p, err := h.uc.GetByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, p)
}

// @Summary Related products
// @Tags catalog
// @Router /api/v1/products/{id}/related [get]
func (h *ProductHandler) Related(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	related, err := h.uc.Related(stdCtx, id, parseInt(string(ctx.QueryArgs().Peek("limit")), 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, related, len(related))
}

// @Summary Create product
// @Tags admin
// @Router /api/v1/admin/products [post]
func (h *ProductHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.ProductRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Add(stdCtx, req.Product())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update product
// @Tags admin
// @Router /api/v1/admin/products/{id} [put]
func (h *ProductHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.ProductRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, id, req.Patch())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete product
// @Tags admin
// @Router /api/v1/admin/products/{id} [delete]
func (h *ProductHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}
