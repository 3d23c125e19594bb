package entity

import (
	"slices"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
)

// Role is the privilege level of a user
type Role string

// Roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValidRole reports whether r is a known role
func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleAdmin)
}

// User represents a registered player with a wallet
type User struct {
	ID        string // Opaque identifier, immutable after creation
	Name      string // Unique handle
	GameName  string // Display name in game
	Email     string
	Phone     string // Exactly 11 digits
	Role      Role
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time

	wallet        int64    // Minor units (private)
	initialWallet int64    // Balance the ledger invariant is measured from
	joined        []string // Sorted set of joined tournament ids
}

// NewUser creates a user whose wallet starts at initialWallet minor units
func NewUser(id, name, gameName, phone, email, avatar string, role Role, initialWallet int64, timeProvider coreport.TimeProvider) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.NewValidationError("id", "must not be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewValidationError("name", "must not be empty")
	}
	if !IsValidRole(string(role)) {
		return nil, errs.NewValidationError("role", "unknown role "+string(role))
	}

	now := timeProvider.Now()
	return &User{
		ID:            id,
		Name:          name,
		GameName:      gameName,
		Email:         email,
		Phone:         phone,
		Role:          role,
		Avatar:        avatar,
		CreatedAt:     now,
		UpdatedAt:     now,
		wallet:        initialWallet,
		initialWallet: initialWallet,
	}, nil
}

// RestoreUser rebuilds a user from persisted state (for repositories)
func RestoreUser(u User, wallet, initialWallet int64, joined []string) *User {
	u.wallet = wallet
	u.initialWallet = initialWallet
	u.joined = nil
	for _, id := range joined {
		u.AddJoinedMatch(id)
	}
	return &u
}

// Wallet returns the balance in minor units
func (u *User) Wallet() int64 {
	return u.wallet
}

// InitialWallet returns the opening balance in minor units
func (u *User) InitialWallet() int64 {
	return u.initialWallet
}

// GetWallet returns the balance as a string with 2 decimal places
func (u *User) GetWallet() string {
	return FormatAmount(u.wallet)
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAfford checks if the wallet covers amount
func (u *User) CanAfford(amount int64) bool {
	return u.wallet >= amount
}

// Credit adds amount to the wallet
func (u *User) Credit(amount int64, timeProvider coreport.TimeProvider) {
	u.wallet += amount
	u.UpdatedAt = timeProvider.Now()
}

// Debit subtracts amount from the wallet if it is covered
func (u *User) Debit(amount int64, timeProvider coreport.TimeProvider) error {
	if !u.CanAfford(amount) {
		return errs.NewInsufficientFundsError(u.ID, FormatAmount(amount), u.GetWallet())
	}
	u.wallet -= amount
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// Adjust applies a signed administrative delta; the result may go negative
func (u *User) Adjust(delta int64, timeProvider coreport.TimeProvider) {
	u.wallet += delta
	u.UpdatedAt = timeProvider.Now()
}

// JoinedMatchIDs returns a copy of the joined tournament ids in sorted order
func (u *User) JoinedMatchIDs() []string {
	return slices.Clone(u.joined)
}

// HasJoined reports whether tournamentID is in the joined set
func (u *User) HasJoined(tournamentID string) bool {
	_, found := slices.BinarySearch(u.joined, tournamentID)
	return found
}

// AddJoinedMatch inserts tournamentID into the joined set; returns false if already present
func (u *User) AddJoinedMatch(tournamentID string) bool {
	i, found := slices.BinarySearch(u.joined, tournamentID)
	if found {
		return false
	}
	u.joined = slices.Insert(u.joined, i, tournamentID)
	return true
}

// Clone returns an independent copy of the user
func (u *User) Clone() *User {
	c := *u
	c.joined = slices.Clone(u.joined)
	return &c
}

// UserList is the in-memory form of the user registry
type UserList []*User

// ByID finds a user by id
func (l UserList) ByID(id string) (*User, bool) {
	for _, u := range l {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// ByName finds a user by handle
func (l UserList) ByName(name string) (*User, bool) {
	for _, u := range l {
		if u.Name == name {
			return u, true
		}
	}
	return nil, false
}

// ByPhone finds a user by phone number
func (l UserList) ByPhone(phone string) (*User, bool) {
	for _, u := range l {
		if u.Phone == phone {
			return u, true
		}
	}
	return nil, false
}

// Without returns the list minus the user with id
func (l UserList) Without(id string) UserList {
	out := make(UserList, 0, len(l))
	for _, u := range l {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}
