package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/api/transport"
	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/pkg/httpcontext"
	contactUC "github.com/fastygo/storefront/usecase/contact"
)

type ContactHandler struct {
	baseHandler
	uc *contactUC.UseCase
}

func NewContactHandler(uc *contactUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Contact form schema
// @Tags contact
// @Router /api/v1/contact [get]
func (h *ContactHandler) Form(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	form, err := h.uc.Form(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, form)
}

// @Summary Submit the contact form
// @Tags contact
// @Router /api/v1/contact [post]
func (h *ContactHandler) Submit(ctx *fasthttp.RequestCtx) {
	var req transport.ContactRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Submit(stdCtx, req.Submission())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.requestLogger(stdCtx).Debug("contact form submitted", zap.Int("id", created.ID))
	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{
		"id":     created.ID,
		"status": created.Status,
	})
}

// @Summary List contact submissions
// @Tags admin
// @Router /api/v1/admin/contact [get]
func (h *ContactHandler) List(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := contactUC.ListFilter{
		Status:      domain.SubmissionStatus(args.Peek("status")),
		NewestFirst: string(args.Peek("order")) != "oldest",
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	submissions, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, submissions, len(submissions))
}

// @Summary View a contact submission (marks new ones as read)
// @Tags admin
// @Router /api/v1/admin/contact/{id} [get]
func (h *ContactHandler) View(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	s, err := h.uc.View(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, s)
}

// @Summary Change the status of a contact submission
// @Tags admin
// @Router /api/v1/admin/contact/{id}/status [put]
func (h *ContactHandler) SetStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.StatusRequest
	if !h.decode(ctx, &req) {
		return
	}
	status, err := domain.ParseSubmissionStatus(req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.SetStatus(stdCtx, id, status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete a contact submission
// @Tags admin
// @Router /api/v1/admin/contact/{id} [delete]
func (h *ContactHandler) Delete(ctx *fasthttp.RequestCtx) {
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
