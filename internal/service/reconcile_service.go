package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReconcileService checks every product's stored stock against its ledger.
type ReconcileService interface {
	Verify(ctx context.Context) (*dto.ReconciliationReport, error)
}

type reconcileService struct {
	products   repository.ProductRepository
	receivings repository.ReceivingRepository
	sales      repository.SaleRepository
}

func NewReconcileService(
	products repository.ProductRepository,
	receivings repository.ReceivingRepository,
	sales repository.SaleRepository,
) ReconcileService {
	return &reconcileService{products: products, receivings: receivings, sales: sales}
}

// Verify reads products and both ledgers from one snapshot and reports every
// product where stock_quantity != Σ received − Σ sold.
func (s *reconcileService) Verify(ctx context.Context) (*dto.ReconciliationReport, error) {
	report := &dto.ReconciliationReport{
		Discrepancies: []dto.StockDiscrepancy{},
		CheckedAt:     time.Now().UTC(),
	}

	db := s.products.DB().WithContext(ctx)
	var opts []*sql.TxOptions
	if db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		products, err := s.products.ListTx(tx)
		if err != nil {
			return err
		}
		received, err := s.receivings.QuantitiesByProductTx(tx)
		if err != nil {
			return err
		}
		sold, err := s.sales.QuantitiesByProductTx(tx)
		if err != nil {
			return err
		}

		report.CheckedProducts = len(products)
		for _, p := range products {
			in, out := received[p.ID], sold[p.ID]
			expected := in.Sub(out)
			if !p.StockQuantity.Equal(expected) {
				report.Discrepancies = append(report.Discrepancies, dto.StockDiscrepancy{
					ProductID:     p.ID.String(),
					SKU:           p.SKU,
					StockQuantity: p.StockQuantity,
					Received:      in,
					Sold:          out,
					Expected:      expected,
				})
			}
		}
		return nil
	}, opts...)
	if err != nil {
		return nil, storeErr("reconcile", err)
	}

	for _, d := range report.Discrepancies {
		log.Error().Str("product_id", d.ProductID).Str("sku", d.SKU).
			Str("stock", d.StockQuantity.String()).Str("expected", d.Expected.String()).
			Msg("reconcile: stock does not match ledger")
	}
	return report, nil
}
