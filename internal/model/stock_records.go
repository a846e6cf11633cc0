package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GoodsReceiving is an immutable stock-in record. It is written in the same
// transaction that adds Quantity to the product's stock.
type GoodsReceiving struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	RatePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ReceivedAt  time.Time       `gorm:"not null;index"`
	ReceivedBy  string          `gorm:"not null"`

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (GoodsReceiving) TableName() string { return "goods_receiving" }

func (g *GoodsReceiving) BeforeCreate(_ *gorm.DB) error {
	assignID(&g.ID)
	return nil
}

// Sale is an immutable stock-out record. RatePerUnit is the catalog price at
// the moment of the sale.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	RatePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	SoldAt      time.Time       `gorm:"not null;index"`
	SoldBy      string          `gorm:"not null"`

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Customer *Customer `gorm:"foreignKey:CustomerID"`
}

func (Sale) TableName() string { return "sales" }

func (s *Sale) BeforeCreate(_ *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
