package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. StockQuantity is owned by the stock ledger:
// catalog code creates it at zero and never writes it again.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Barcode     *string   `gorm:"uniqueIndex"`
	SKU         string    `gorm:"column:sku;uniqueIndex;not null"`
	Category    string    `gorm:"not null"`
	Subcategory string    `gorm:"not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	// TaxRate is a percentage in [0, 100].
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit          string          `gorm:"not null;default:'piece'"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	ReorderLevel  decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	ImagePath     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// BelowReorderLevel reports whether the product should raise a low-stock alert.
func (p *Product) BelowReorderLevel() bool {
	return p.ReorderLevel.IsPositive() && p.StockQuantity.LessThanOrEqual(p.ReorderLevel)
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
