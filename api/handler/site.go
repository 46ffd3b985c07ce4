package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/api/transport"
	"github.com/fastygo/storefront/pkg/httpcontext"
	productUC "github.com/fastygo/storefront/usecase/product"
	siteUC "github.com/fastygo/storefront/usecase/site"
	siteinfoUC "github.com/fastygo/storefront/usecase/siteinfo"
)

type SiteHandler struct {
	baseHandler
	site     *siteUC.UseCase
	info     *siteinfoUC.UseCase
	products *productUC.UseCase
}

func NewSiteHandler(site *siteUC.UseCase, info *siteinfoUC.UseCase, products *productUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{
		baseHandler: newBaseHandler(adapter, logger),
		site:        site,
		info:        info,
		products:    products,
	}
}

// @Summary Public storefront data
// @Tags site
// @Router /api/v1/site [get]
func (h *SiteHandler) Public(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	doc, info := h.site.Document(stdCtx)
	featured, err := h.products.Featured(stdCtx, 0)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(
		transport.NewPublicSite(doc, featured),
		transport.NewDocumentMeta(info),
	))
}

// @Summary Site settings
// @Tags admin
// @Router /api/v1/admin/site [get]
func (h *SiteHandler) GetInfo(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	info, err := h.info.Get(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, info)
}

// @Summary Update site settings
// @Tags admin
// @Router /api/v1/admin/site [put]
func (h *SiteHandler) UpdateInfo(ctx *fasthttp.RequestCtx) {
	var req transport.SiteInfoRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.info.Update(stdCtx, req.Patch())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Dashboard statistics
// @Tags admin
// @Router /api/v1/admin/stats [get]
func (h *SiteHandler) Stats(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.site.Stats(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}
