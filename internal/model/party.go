package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier is referenced by goods receiving records for traceability.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"index;not null"`
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s *Supplier) BeforeCreate(_ *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// Customer is referenced by sale records for traceability.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"index;not null"`
	Phone     *string
	Email     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
