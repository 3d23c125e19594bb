package handler

import (
	"net/http"

	domainerr "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// StatusFor maps a failure kind to its HTTP status
func StatusFor(kind domainerr.Kind) int {
	switch kind {
	case domainerr.KindNotFound:
		return http.StatusNotFound
	case domainerr.KindConflict, domainerr.KindUnavailable:
		return http.StatusConflict
	case domainerr.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case domainerr.KindInvalidAmount, domainerr.KindValidation:
		return http.StatusBadRequest
	case domainerr.KindForbidden:
		return http.StatusForbidden
	case domainerr.KindUnauthenticated:
		return http.StatusUnauthorized
	case domainerr.KindCooldown:
		return http.StatusTooManyRequests
	case domainerr.KindBusy:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. Internal failures never leak their message.
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	kind := domainerr.KindOf(err)
	status := StatusFor(kind)
	message := err.Error()

	if kind == domainerr.KindInternal {
		fields := domainerr.LogFields(err)
		fields["path"] = c.Request.URL.Path
		fields["method"] = c.Request.Method
		logger.Error("Request failed", fields)
		message = "Internal server error"
	}

	_ = c.Error(err)
	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Kind:    string(kind),
		Message: message,
	})
}

// bindJSON decodes the request body or writes a validation error
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeValidation,
			Kind:    string(domainerr.KindValidation),
			Message: "Invalid request format: " + err.Error(),
		})
		return false
	}
	return true
}
