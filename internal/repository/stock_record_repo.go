package repository

import (
	"context"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementFilter defines filters for listing receivings and sales.
type MovementFilter struct {
	ProductID *uuid.UUID
	Page      int
	Limit     int
}

// Normalize clamps Page and Limit to the values List will actually use.
func (f MovementFilter) Normalize() MovementFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 100
	}
	return f
}

func (f MovementFilter) offset() int { return (f.Page - 1) * f.Limit }

type quantityRow struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// sumQuantities adds up quantities per product in Go so that the totals keep
// full decimal precision on every dialect.
func sumQuantities(tx *gorm.DB, table string) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []quantityRow
	if err := tx.Table(table).Select("product_id, quantity").Scan(&rows).Error; err != nil {
		return nil, err
	}
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, r := range rows {
		sums[r.ProductID] = sums[r.ProductID].Add(r.Quantity)
	}
	return sums, nil
}

type ReceivingRepository interface {
	CreateTx(tx *gorm.DB, r *model.GoodsReceiving) error
	List(ctx context.Context, filter MovementFilter) ([]model.GoodsReceiving, int64, error)
	// QuantitiesByProductTx returns the received quantity per product.
	QuantitiesByProductTx(tx *gorm.DB) (map[uuid.UUID]decimal.Decimal, error)
}

type receivingRepo struct{ db *gorm.DB }

func NewReceivingRepository(db *gorm.DB) ReceivingRepository {
	return &receivingRepo{db: db}
}

func (r *receivingRepo) CreateTx(tx *gorm.DB, rec *model.GoodsReceiving) error {
	return tx.Omit("Product", "Supplier").Create(rec).Error
}

func (r *receivingRepo) List(ctx context.Context, filter MovementFilter) ([]model.GoodsReceiving, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.GoodsReceiving{})
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	// Count and Find each get their own copy of the statement.
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	filter = filter.Normalize()
	var records []model.GoodsReceiving
	err := q.Preload("Product").Preload("Supplier").
		Order("received_at DESC").Offset(filter.offset()).Limit(filter.Limit).Find(&records).Error
	return records, total, err
}

func (r *receivingRepo) QuantitiesByProductTx(tx *gorm.DB) (map[uuid.UUID]decimal.Decimal, error) {
	return sumQuantities(tx, model.GoodsReceiving{}.TableName())
}

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	List(ctx context.Context, filter MovementFilter) ([]model.Sale, int64, error)
	QuantitiesByProductTx(tx *gorm.DB) (map[uuid.UUID]decimal.Decimal, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit("Product", "Customer").Create(s).Error
}

func (r *saleRepo) List(ctx context.Context, filter MovementFilter) ([]model.Sale, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	// Count and Find each get their own copy of the statement.
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	filter = filter.Normalize()
	var sales []model.Sale
	err := q.Preload("Product").Preload("Customer").
		Order("sold_at DESC").Offset(filter.offset()).Limit(filter.Limit).Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) QuantitiesByProductTx(tx *gorm.DB) (map[uuid.UUID]decimal.Decimal, error) {
	return sumQuantities(tx, model.Sale{}.TableName())
}
