package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainerr "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	mockcore "github.com/amirhossein-jamali/arena-ledger/mocks/port/core"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind domainerr.Kind
		want int
	}{
		{domainerr.KindNotFound, http.StatusNotFound},
		{domainerr.KindConflict, http.StatusConflict},
		{domainerr.KindUnavailable, http.StatusConflict},
		{domainerr.KindInsufficientFunds, http.StatusPaymentRequired},
		{domainerr.KindInvalidAmount, http.StatusBadRequest},
		{domainerr.KindValidation, http.StatusBadRequest},
		{domainerr.KindForbidden, http.StatusForbidden},
		{domainerr.KindUnauthenticated, http.StatusUnauthorized},
		{domainerr.KindCooldown, http.StatusTooManyRequests},
		{domainerr.KindBusy, http.StatusLocked},
		{domainerr.KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.kind))
		})
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("should hide the message of an internal failure and log it", func(t *testing.T) {
		// Arrange
		log := mockcore.NewMockLogger(t)
		log.EXPECT().Error("Request failed", mock.MatchedBy(func(fields map[string]interface{}) bool {
			return fields["path"] == "/wallet/deposit"
		})).Return().Once()
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/wallet/deposit", nil)

		// Act
		respondError(c, log, errors.New("disk on fire"))

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "disk on fire")
		assert.Contains(t, rec.Body.String(), "Internal server error")
	})

	t.Run("should pass a business failure through without logging", func(t *testing.T) {
		log := mockcore.NewMockLogger(t)
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/wallet/withdraw", nil)

		respondError(c, log, &domainerr.InsufficientFundsError{UserID: "u-1", Required: "100.00", Available: "99.00"})

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Contains(t, rec.Body.String(), `"kind":"InsufficientFunds"`)
	})
}
