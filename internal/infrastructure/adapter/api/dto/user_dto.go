package dto

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// UserResponse is the public view of a user; money is a 2-decimal string
type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	GameName       string    `json:"gameName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Wallet         string    `json:"wallet"`
	Role           string    `json:"role"`
	Avatar         string    `json:"avatar"`
	JoinedMatchIDs []string  `json:"joinedMatchIds"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewUserResponse maps a user entity
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		GameName:       u.GameName,
		Email:          u.Email,
		Phone:          u.Phone,
		Wallet:         u.GetWallet(),
		Role:           string(u.Role),
		Avatar:         u.Avatar,
		JoinedMatchIDs: u.JoinedMatchIDs(),
		CreatedAt:      u.CreatedAt,
	}
}

// NewUserListResponse maps a user list
func NewUserListResponse(users entity.UserList) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// ProfileRequest carries profile edits; omitted fields stay unchanged
type ProfileRequest struct {
	GameName *string `json:"gameName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
}

// RoleRequest sets a user's role
type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// AdjustRequest is a signed wallet adjustment, e.g. "-200"
type AdjustRequest struct {
	Delta string `json:"delta" binding:"required"`
}

// AwardRequest credits a prize for a tournament
type AwardRequest struct {
	TournamentID string `json:"tournamentId" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
}
