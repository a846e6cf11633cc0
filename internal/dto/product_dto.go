package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Barcode      *string         `json:"barcode"       validate:"omitempty,min=1,max=64"`
	SKU          string          `json:"sku"           validate:"required,min=1,max=64"`
	Category     string          `json:"category"      validate:"required"`
	Subcategory  string          `json:"subcategory"   validate:"required"`
	Name         string          `json:"name"          validate:"required,min=1,max=120"`
	Description  *string         `json:"description"`
	TaxRate      decimal.Decimal `json:"tax_rate"      validate:"min=0,max=100"`
	Price        decimal.Decimal `json:"price"         validate:"min=0"`
	Unit         string          `json:"unit"          validate:"required"`
	ReorderLevel decimal.Decimal `json:"reorder_level" validate:"min=0"`
	ImagePath    *string         `json:"image_path"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	Barcode       *string         `json:"barcode"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Price         decimal.Decimal `json:"price"`
	Unit          string          `json:"unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	ImagePath     *string         `json:"image_path"`
}

// InventoryRow is the joined product + stock view shown on the inventory tab.
type InventoryRow struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	LowStock      bool            `json:"low_stock"`
}

type StockResponse struct {
	ProductID     string          `json:"product_id"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	Unit          string          `json:"unit"`
}
