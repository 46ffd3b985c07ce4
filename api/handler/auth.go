package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/api/transport"
	"github.com/fastygo/storefront/pkg/httpcontext"
	authUC "github.com/fastygo/storefront/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Admin login
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	token, err := h.uc.Login(stdCtx, req.Username, req.Password)
	if err != nil {
		h.requestLogger(stdCtx).Warn("admin login rejected", zap.String("username", req.Username), zap.Error(err))
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, token)
}

// @Summary Current admin
// @Tags auth
// @Router /api/v1/admin/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	username, _ := ctx.UserValue(httpcontext.UserValueUsername).(string)
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"username": username})
}
