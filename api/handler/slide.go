package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/api/transport"
	"github.com/fastygo/storefront/pkg/httpcontext"
	slideUC "github.com/fastygo/storefront/usecase/slide"
)

type SlideHandler struct {
	baseHandler
	uc *slideUC.UseCase
}

func NewSlideHandler(uc *slideUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SlideHandler {
	return &SlideHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List slides in display order
// @Tags catalog
// @Router /api/v1/slides [get]
func (h *SlideHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	slides, err := h.uc.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, slides, len(slides))
}

// @Summary Get slide
// @Tags admin
// @Router /api/v1/admin/slides/{id} [get]
func (h *SlideHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	s, err := h.uc.GetByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, s)
}

// @Summary Create slide
// @Tags admin
// @Router /api/v1/admin/slides [post]
func (h *SlideHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.SlideRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Add(stdCtx, req.Slide())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update slide
// @Tags admin
// @Router /api/v1/admin/slides/{id} [put]
func (h *SlideHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.SlideRequest
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

// @Summary Move slide one position up or down
// @Tags admin
// @Router /api/v1/admin/slides/{id}/move [post]
func (h *SlideHandler) Move(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.MoveRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	slides, err := h.uc.Move(stdCtx, id, req.Direction)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, slides, len(slides))
}

// @Summary Delete slide
// @Tags admin
// @Router /api/v1/admin/slides/{id} [delete]
func (h *SlideHandler) Delete(ctx *fasthttp.RequestCtx) {
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
