package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role gates which stock operation a user may perform.
type Role string

const (
	RoleGoodsReceiving Role = "goods_receiving"
	RoleSales          Role = "sales"
	RoleAdmin          Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGoodsReceiving, RoleSales, RoleAdmin:
		return true
	}
	return false
}

// User stores operators. PasswordHash is a bcrypt hash, never the plaintext.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)
	return nil
}
