package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/api/transport"
	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/pkg/httpcontext"
	siteUC "github.com/fastygo/storefront/usecase/site"
)

// DataHandler exposes the whole site document. Responses carry the snapshot
// name as ETag and writes honour If-Match.
type DataHandler struct {
	baseHandler
	uc *siteUC.UseCase
}

func NewDataHandler(uc *siteUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DataHandler {
	return &DataHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Full site document
// @Tags data
// @Router /api/v1/admin/data [get]
func (h *DataHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	doc, info := h.uc.Document(stdCtx)
	if info.Version != "" {
		ctx.Response.Header.Set("ETag", formatETag(info.Version))
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(doc, transport.NewDocumentMeta(info)))
}

// @Summary Replace the site document
// @Tags data
// @Router /api/v1/admin/data [post]
func (h *DataHandler) Replace(ctx *fasthttp.RequestCtx) {
	var doc domain.SiteDocument
	if err := json.Unmarshal(ctx.PostBody(), &doc); err != nil {
		h.respondInvalid(ctx, "invalid site document")
		return
	}

	var opts []docstore.SaveOption
	if version, ok := parseIfMatch(string(ctx.Request.Header.Peek("If-Match"))); ok {
		opts = append(opts, docstore.IfMatch(version))
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	loc, err := h.uc.Replace(stdCtx, &doc, opts...)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.Response.Header.Set("ETag", formatETag(loc.Name))
	h.respondSuccess(ctx, http.StatusOK, loc)
}

// @Summary Delete every snapshot except the latest
// @Tags data
// @Router /api/v1/admin/data [delete]
func (h *DataHandler) Prune(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	deleted, err := h.uc.Prune(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"deleted": deleted})
}

// @Summary List stored snapshots
// @Tags data
// @Router /api/v1/admin/data/snapshots [get]
func (h *DataHandler) Snapshots(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snapshots, err := h.uc.Snapshots(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, snapshots, len(snapshots))
}

// @Summary Store the bundled seed document
// @Tags data
// @Router /api/v1/admin/data/seed [post]
func (h *DataHandler) Seed(ctx *fasthttp.RequestCtx) {
	force := parseBool(string(ctx.QueryArgs().Peek("force")))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Seed(stdCtx, force)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.Response.Header.Set("ETag", formatETag(result.Location.Name))
	h.respondSuccess(ctx, http.StatusCreated, result)
}

func formatETag(version string) string {
	return `"` + version + `"`
}

// parseIfMatch extracts the snapshot name from an If-Match header. An
// absent header or "*" means the write is unconditional.
func parseIfMatch(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" || header == "*" {
		return "", false
	}
	header = strings.TrimPrefix(header, "W/")
	return strings.Trim(header, `"`), true
}
