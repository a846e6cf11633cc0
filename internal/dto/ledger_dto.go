package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ReceiveRequest struct {
	ProductID   string          `json:"product_id"    validate:"required,uuid"`
	SupplierID  string          `json:"supplier_id"   validate:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity"      validate:"required"`
	RatePerUnit decimal.Decimal `json:"rate_per_unit"`
}

// SellRequest carries no price: sales always use the catalog price.
type SellRequest struct {
	ProductID  string          `json:"product_id"  validate:"required,uuid"`
	CustomerID string          `json:"customer_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"    validate:"required"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReceivingResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	SupplierID  string          `json:"supplier_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	RatePerUnit decimal.Decimal `json:"rate_per_unit"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ReceivedAt  time.Time       `json:"received_at"`
	ReceivedBy  string          `json:"received_by"`
	// StockAfter is the product balance right after this movement committed.
	StockAfter decimal.Decimal `json:"stock_after"`
}

type SaleResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	CustomerID  string          `json:"customer_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	RatePerUnit decimal.Decimal `json:"rate_per_unit"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SoldAt      time.Time       `json:"sold_at"`
	SoldBy      string          `json:"sold_by"`
	StockAfter  decimal.Decimal `json:"stock_after"`
}

type ReceivingListResponse struct {
	Data  []ReceivingResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// StockDiscrepancy is a product whose stored balance disagrees with its ledger.
type StockDiscrepancy struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	Received      decimal.Decimal `json:"received"`
	Sold          decimal.Decimal `json:"sold"`
	Expected      decimal.Decimal `json:"expected"`
}

type ReconciliationReport struct {
	CheckedProducts int                `json:"checked_products"`
	Discrepancies   []StockDiscrepancy `json:"discrepancies"`
	CheckedAt       time.Time          `json:"checked_at"`
}

// LowStockAlert is published after a sale leaves a product at or below its
// reorder level.
type LowStockAlert struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	Unit          string          `json:"unit"`
}
