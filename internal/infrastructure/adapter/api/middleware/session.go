package middleware

import (
	"net/http"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

const sessionUserKey = "session_user"

// SessionSource yields the signed-in user
type SessionSource interface {
	CurrentUser() (*entity.User, error)
}

// RequireSession rejects requests made without a signed-in user
func RequireSession(source SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := source.CurrentUser()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrUnauthenticated),
				Kind:    string(domainerr.KindUnauthenticated),
				Message: "Sign in required",
			})
			return
		}
		c.Set(sessionUserKey, user)
		c.Next()
	}
}

// SessionUser returns the user stored by RequireSession
func SessionUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(sessionUserKey); ok {
		if user, ok := v.(*entity.User); ok {
			return user
		}
	}
	return nil
}
