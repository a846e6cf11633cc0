package worker

// alert_worker.go
// Processes low-stock alerts from QueueLowStock: always logged, and mailed to
// the configured address when SMTP is set up.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"

	"github.com/rs/zerolog/log"
)

// TextMailer is satisfied by *infra.Mailer.
type TextMailer interface {
	SendText(to, subject, body string) error
}

// LowStockWorker handles JobTypeLowStock jobs.
type LowStockWorker struct {
	mailer TextMailer
	to     string
}

// NewLowStockWorker returns a worker that only logs when mailer is nil or to
// is empty.
func NewLowStockWorker(mailer TextMailer, to string) *LowStockWorker {
	return &LowStockWorker{mailer: mailer, to: to}
}

func (w *LowStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var alert dto.LowStockAlert
	if err := json.Unmarshal(raw, &alert); err != nil {
		// Not retryable; surfaces through the DLQ after maxAttempts.
		return fmt.Errorf("low_stock: invalid payload: %w", err)
	}

	log.Warn().
		Str("product_id", alert.ProductID).
		Str("sku", alert.SKU).
		Str("stock", alert.StockQuantity.String()).
		Str("reorder_level", alert.ReorderLevel.String()).
		Msg("low stock")

	if w.mailer == nil || w.to == "" {
		return nil
	}
	subject := fmt.Sprintf("Low stock: %s (%s)", alert.Name, alert.SKU)
	body := fmt.Sprintf("%s (%s) is down to %s %s; reorder level is %s.\n",
		alert.Name, alert.SKU, alert.StockQuantity, alert.Unit, alert.ReorderLevel)
	if err := w.mailer.SendText(w.to, subject, body); err != nil {
		return err
	}
	log.Info().Str("to", w.to).Str("sku", alert.SKU).Msg("low_stock: alert mailed")
	return nil
}
