package service

import (
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"

	"github.com/google/uuid"
)

// Principal is the authenticated operator. Its fields are unexported so code
// outside this package can only obtain one from AuthService; the zero value
// holds no role and is refused by every guarded operation.
type Principal struct {
	userID   uuid.UUID
	username string
	role     model.Role
}

func principalFor(u *model.User) Principal {
	return Principal{userID: u.ID, username: u.Username, role: u.Role}
}

func (p Principal) UserID() uuid.UUID { return p.userID }
func (p Principal) Username() string  { return p.username }
func (p Principal) Role() model.Role  { return p.role }

// IsZero reports whether p was never authenticated.
func (p Principal) IsZero() bool { return p.username == "" }

// require fails with a PermissionError unless p holds one of roles. Admin
// passes every check.
func (p Principal) require(action string, roles ...model.Role) error {
	if !p.IsZero() {
		if p.role == model.RoleAdmin {
			return nil
		}
		for _, r := range roles {
			if p.role == r {
				return nil
			}
		}
	}
	return &PermissionError{Role: p.role, Action: action}
}
