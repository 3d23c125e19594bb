package dto

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/auth"
)

// BeginRequest submits the sign-in or sign-up form
type BeginRequest struct {
	Mode     string `json:"mode" binding:"required,oneof=signin create"`
	Name     string `json:"name" binding:"required"`
	GameName string `json:"gameName"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyRequest submits the OTP code
type VerifyRequest struct {
	Code string `json:"code"`
}

// AuthStatusResponse describes the login flow
type AuthStatusResponse struct {
	State           string `json:"state"`
	Mode            string `json:"mode,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ResendInSeconds int    `json:"resendInSeconds"`
}

// NewAuthStatusResponse maps a flow status
func NewAuthStatusResponse(s auth.Status) AuthStatusResponse {
	return AuthStatusResponse{
		State:           string(s.State),
		Mode:            string(s.Mode),
		Phone:           s.Phone,
		ResendInSeconds: int((s.ResendIn + time.Second - 1) / time.Second),
	}
}
