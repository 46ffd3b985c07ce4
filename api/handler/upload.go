package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/internal/infrastructure/uploads"
	"github.com/fastygo/storefront/pkg/httpcontext"
)

type UploadHandler struct {
	baseHandler
	store *uploads.Store
}

func NewUploadHandler(store *uploads.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary Upload an image (multipart fields "file" and "type")
// @Tags admin
// @Router /api/v1/admin/upload [post]
func (h *UploadHandler) Upload(ctx *fasthttp.RequestCtx) {
	tag, err := uploads.ParseTag(string(ctx.FormValue("type")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.save(ctx, tag)
}

// @Summary Upload an image attached to the contact form
// @Tags contact
// @Router /api/v1/contact/upload [post]
func (h *UploadHandler) ContactUpload(ctx *fasthttp.RequestCtx) {
	h.save(ctx, uploads.TagContact)
}

func (h *UploadHandler) save(ctx *fasthttp.RequestCtx, tag uploads.Tag) {
	header, err := ctx.FormFile("file")
	if err != nil {
		h.respondInvalid(ctx, "file is required")
		return
	}
	if header.Size > h.store.MaxSize() {
		h.respondInvalid(ctx, "file is too large")
		return
	}
	f, err := header.Open()
	if err != nil {
		h.respondInvalid(ctx, "file is unreadable")
		return
	}
	defer f.Close()

	result, err := h.store.Save(tag, header.Filename, f)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, result)
}
