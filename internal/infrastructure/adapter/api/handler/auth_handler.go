package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AuthHandler drives the login flow over HTTP
type AuthHandler struct {
	flow   usecase.AuthUseCase
	ledger usecase.LedgerUseCase
	logger coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(flow usecase.AuthUseCase, ledger usecase.LedgerUseCase, logger coreport.Logger) *AuthHandler {
	return &AuthHandler{
		flow:   flow,
		ledger: ledger,
		logger: logger,
	}
}

// Begin handles POST /auth/begin
func (h *AuthHandler) Begin(c *gin.Context) {
	var req dto.BeginRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := h.flow.Begin(c.Request.Context(), auth.Form{
		Mode:     auth.Mode(req.Mode),
		Name:     req.Name,
		GameName: req.GameName,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewAuthStatusResponse(status))
}

// Resend handles POST /auth/resend
func (h *AuthHandler) Resend(c *gin.Context) {
	status, err := h.flow.ResendOTP()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthStatusResponse(status))
}

// Verify handles POST /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.flow.VerifyOTP(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// SignOut handles POST /auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.flow.SignOut(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Status handles GET /auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewAuthStatusResponse(h.flow.Status()))
}

// Session handles GET /session
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.ledger.CurrentUser()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
