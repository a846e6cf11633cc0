package repository

import (
	"context"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)

	// Used inside transactions: callers must pass the tx instance

	// LockByIDTx reads the product and, on stores that support it, holds a row
	// lock on it until tx ends.
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	ListTx(tx *gorm.DB) ([]model.Product, error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	return r.ListTx(r.db.WithContext(ctx))
}

func (r *productRepo) ListTx(tx *gorm.DB) ([]model.Product, error) {
	var products []model.Product
	err := tx.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	q := tx
	// SQLite has no row locks; its writer lock plus the ledger's per-product
	// mutex serialize movements there.
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p model.Product
	if err := q.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	res := tx.Model(&model.Product{}).Where("id = ?", id).Update("stock_quantity", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) DB() *gorm.DB { return r.db }
