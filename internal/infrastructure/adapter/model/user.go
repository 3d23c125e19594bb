package model

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// User is the stored form of a registry entry and of the session user
type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	GameName       string          `json:"gameName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Wallet         decimal.Decimal `json:"wallet"`
	InitialWallet  decimal.Decimal `json:"initialWallet"`
	Role           string          `json:"role"`
	Avatar         string          `json:"avatar"`
	JoinedMatchIDs []string        `json:"joinedMatchIds"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// UserFromEntity converts a user entity to its stored form
func UserFromEntity(u *entity.User) User {
	joined := u.JoinedMatchIDs()
	if joined == nil {
		joined = []string{}
	}
	return User{
		ID:             u.ID,
		Name:           u.Name,
		GameName:       u.GameName,
		Email:          u.Email,
		Phone:          u.Phone,
		Wallet:         entity.AmountToDecimal(u.Wallet()),
		InitialWallet:  entity.AmountToDecimal(u.InitialWallet()),
		Role:           string(u.Role),
		Avatar:         u.Avatar,
		JoinedMatchIDs: joined,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// ToEntity converts the stored form back to a user entity
func (m User) ToEntity() (*entity.User, error) {
	wallet, err := entity.AmountFromDecimal(m.Wallet)
	if err != nil {
		return nil, err
	}
	initial, err := entity.AmountFromDecimal(m.InitialWallet)
	if err != nil {
		return nil, err
	}

	role := entity.Role(m.Role)
	if !entity.IsValidRole(m.Role) {
		role = entity.RoleUser
	}

	return entity.RestoreUser(entity.User{
		ID:        m.ID,
		Name:      m.Name,
		GameName:  m.GameName,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      role,
		Avatar:    m.Avatar,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, wallet, initial, m.JoinedMatchIDs), nil
}
