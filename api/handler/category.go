package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/api/transport"
	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/pkg/httpcontext"
	categoryUC "github.com/fastygo/storefront/usecase/category"
)

type CategoryHandler struct {
	baseHandler
	uc *categoryUC.UseCase
}

func NewCategoryHandler(uc *categoryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// categoryView adds the number of products filed under the category.
type categoryView struct {
	Category     domain.Category
	ProductCount int
}

func (v categoryView) MarshalJSON() ([]byte, error) {
	c := v.Category
	extra := make(domain.Extras, len(c.Extra)+1)
	for k, raw := range c.Extra {
		extra[k] = raw
	}
	extra["productCount"] = json.RawMessage(strconv.Itoa(v.ProductCount))
	c.Extra = extra
	return json.Marshal(c)
}

// @Summary List categories
// @Tags catalog
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	categories, err := h.uc.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	counts, err := h.uc.ProductCounts(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, categoryView{Category: c, ProductCount: counts[c.Slug]})
	}
	h.respondList(ctx, views, len(views))
}

// @Summary Get category by slug
// @Tags catalog
// @Router /api/v1/categories/{slug} [get]
func (h *CategoryHandler) GetBySlug(ctx *fasthttp.RequestCtx) {
	slug, _ := ctx.UserValue("slug").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.GetBySlug(stdCtx, slug)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Get category
// @Tags admin
// @Router /api/v1/admin/categories/{id} [get]
func (h *CategoryHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.GetByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Create category
// @Tags admin
// @Router /api/v1/admin/categories [post]
func (h *CategoryHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CategoryRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Add(stdCtx, req.Category())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update category
// @Tags admin
// @Router /api/v1/admin/categories/{id} [put]
func (h *CategoryHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.CategoryRequest
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

// @Summary Delete category
// @Tags admin
// @Router /api/v1/admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(ctx *fasthttp.RequestCtx) {
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
