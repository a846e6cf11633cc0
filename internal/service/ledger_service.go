package service

import (
	"context"
	"errors"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/infra"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockLedger is the only writer of products.stock_quantity. Every movement
// appends its record and moves the counter in one transaction, so
// stock = Σ received − Σ sold holds between any two calls.
type StockLedger interface {
	Receive(ctx context.Context, operator Principal, req dto.ReceiveRequest) (*dto.ReceivingResponse, error)
	Sell(ctx context.Context, operator Principal, req dto.SellRequest) (*dto.SaleResponse, error)
	// CurrentStock is advisory: Sell re-checks stock inside its transaction.
	CurrentStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	ListReceivings(ctx context.Context, filter dto.MovementFilter) (*dto.ReceivingListResponse, error)
	ListSales(ctx context.Context, filter dto.MovementFilter) (*dto.SaleListResponse, error)
}

// AlertPublisher receives low-stock alerts after a sale commits.
type AlertPublisher interface {
	PublishLowStock(ctx context.Context, alert dto.LowStockAlert) error
}

// LedgerOptions carries the optional collaborators of the ledger. Zero values
// mean a single attempt, no breaker and no alerts.
type LedgerOptions struct {
	Retry   infra.RetryPolicy
	Breaker *infra.CircuitBreaker
	Alerts  AlertPublisher
}

type stockLedger struct {
	products   repository.ProductRepository
	suppliers  repository.SupplierRepository
	customers  repository.CustomerRepository
	receivings repository.ReceivingRepository
	sales      repository.SaleRepository

	locks   *keyedMutex
	retry   infra.RetryPolicy
	breaker *infra.CircuitBreaker
	alerts  AlertPublisher
}

func NewStockLedger(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	customers repository.CustomerRepository,
	receivings repository.ReceivingRepository,
	sales repository.SaleRepository,
	opts LedgerOptions,
) StockLedger {
	return &stockLedger{
		products:   products,
		suppliers:  suppliers,
		customers:  customers,
		receivings: receivings,
		sales:      sales,
		locks:      newKeyedMutex(),
		retry:      opts.Retry,
		breaker:    opts.Breaker,
		alerts:     opts.Alerts,
	}
}

// ── movement primitive ───────────────────────────────────────────────────────

type direction int

const (
	stockIn  direction = 1
	stockOut direction = -1
)

// movement describes one receive or sell. rate and insert run inside the
// transaction against the freshly locked product row.
type movement struct {
	action    string
	productID uuid.UUID
	quantity  decimal.Decimal
	dir       direction
	// checkRefs resolves the counterparty inside the transaction.
	checkRefs func(tx *gorm.DB) error
	rate      func(p *model.Product) decimal.Decimal
	insert    func(tx *gorm.DB, p *model.Product, rate decimal.Decimal, a Amounts, at time.Time) error
}

// applied is what a committed movement leaves behind.
type applied struct {
	product model.Product
	rate    decimal.Decimal
	amounts Amounts
	at      time.Time
}

// applyStockMovement runs m as one atomic unit: lock the product, read its
// tax rate and price, price the movement, check sufficiency, insert the record
// and write the new stock. Any error rolls the whole unit back.
func (s *stockLedger) applyStockMovement(ctx context.Context, m movement) (*applied, error) {
	// A caller that already gave up gets nothing started on its behalf.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(m.productID)
	defer unlock()

	// Once begun, the transaction is not cut short by the caller going away.
	txCtx := context.WithoutCancel(ctx)

	var out applied
	run := func() error {
		return infra.Retry(ctx, s.retry, m.action, func() error {
			return s.products.DB().WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
				p, err := s.products.LockByIDTx(tx, m.productID)
				if err != nil {
					return lookupErr(err, "product", m.productID.String())
				}
				if err := m.checkRefs(tx); err != nil {
					return err
				}

				delta := m.quantity
				if m.dir == stockOut {
					delta = delta.Neg()
				}
				next := p.StockQuantity.Add(delta)
				if next.IsNegative() {
					return &InsufficientStockError{Available: p.StockQuantity, Requested: m.quantity}
				}

				rate := m.rate(p)
				amounts := ComputeAmounts(m.quantity, rate, p.TaxRate)
				if err := checkMovementFits(next, amounts); err != nil {
					return err
				}
				at := time.Now().UTC()

				if err := m.insert(tx, p, rate, amounts, at); err != nil {
					return err
				}
				if err := s.products.SetStockTx(tx, p.ID, next); err != nil {
					return err
				}

				p.StockQuantity = next
				out = applied{product: *p, rate: rate, amounts: amounts, at: at}
				return nil
			})
		})
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Execute(run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, storeErr(m.action, err)
	}
	return &out, nil
}

// storeErr passes domain errors through and wraps everything else.
func storeErr(op string, err error) error {
	if isDomainError(err) {
		return err
	}
	retryable := errors.Is(err, infra.ErrCircuitOpen) || infra.IsTransient(err)
	return &StoreError{Op: op, Retryable: retryable, Err: err}
}

// ── operations ──────────────────────────────────────────────────────────────

func (s *stockLedger) Receive(ctx context.Context, operator Principal, req dto.ReceiveRequest) (*dto.ReceivingResponse, error) {
	if err := operator.require("receive goods", model.RoleGoodsReceiving); err != nil {
		return nil, err
	}
	productID, err := parseID("product_id", req.ProductID)
	if err != nil {
		return nil, err
	}
	supplierID, err := parseID("supplier_id", req.SupplierID)
	if err != nil {
		return nil, err
	}
	if err := validateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := validateRate("rate_per_unit", req.RatePerUnit); err != nil {
		return nil, err
	}

	var rec model.GoodsReceiving
	res, err := s.applyStockMovement(ctx, movement{
		action:    "receive",
		productID: productID,
		quantity:  req.Quantity,
		dir:       stockIn,
		checkRefs: func(tx *gorm.DB) error {
			_, err := s.suppliers.FindByIDTx(tx, supplierID)
			return lookupErr(err, "supplier", supplierID.String())
		},
		rate: func(*model.Product) decimal.Decimal { return req.RatePerUnit },
		insert: func(tx *gorm.DB, p *model.Product, rate decimal.Decimal, a Amounts, at time.Time) error {
			rec = model.GoodsReceiving{
				ProductID:   p.ID,
				SupplierID:  supplierID,
				Quantity:    req.Quantity,
				RatePerUnit: rate,
				TaxAmount:   a.Tax,
				TotalAmount: a.Total,
				ReceivedAt:  at,
				ReceivedBy:  operator.Username(),
			}
			return s.receivings.CreateTx(tx, &rec)
		},
	})
	if err != nil {
		logRejected("receive", productID, req.Quantity, operator, err)
		return nil, err
	}

	log.Info().
		Str("action", "receive").
		Str("product_id", productID.String()).
		Str("delta", req.Quantity.String()).
		Str("stock", res.product.StockQuantity.String()).
		Str("operator", operator.Username()).
		Msg("ledger: stock movement committed")

	resp := toReceivingResponse(&rec)
	resp.StockAfter = res.product.StockQuantity
	return &resp, nil
}

func (s *stockLedger) Sell(ctx context.Context, operator Principal, req dto.SellRequest) (*dto.SaleResponse, error) {
	if err := operator.require("sell", model.RoleSales); err != nil {
		return nil, err
	}
	productID, err := parseID("product_id", req.ProductID)
	if err != nil {
		return nil, err
	}
	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := validateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	var sale model.Sale
	res, err := s.applyStockMovement(ctx, movement{
		action:    "sell",
		productID: productID,
		quantity:  req.Quantity,
		dir:       stockOut,
		checkRefs: func(tx *gorm.DB) error {
			_, err := s.customers.FindByIDTx(tx, customerID)
			return lookupErr(err, "customer", customerID.String())
		},
		// Sales always use the catalog price as of this transaction.
		rate: func(p *model.Product) decimal.Decimal { return p.Price },
		insert: func(tx *gorm.DB, p *model.Product, rate decimal.Decimal, a Amounts, at time.Time) error {
			sale = model.Sale{
				ProductID:   p.ID,
				CustomerID:  customerID,
				Quantity:    req.Quantity,
				RatePerUnit: rate,
				TaxAmount:   a.Tax,
				TotalAmount: a.Total,
				SoldAt:      at,
				SoldBy:      operator.Username(),
			}
			return s.sales.CreateTx(tx, &sale)
		},
	})
	if err != nil {
		logRejected("sell", productID, req.Quantity, operator, err)
		return nil, err
	}

	log.Info().
		Str("action", "sell").
		Str("product_id", productID.String()).
		Str("delta", req.Quantity.Neg().String()).
		Str("stock", res.product.StockQuantity.String()).
		Str("operator", operator.Username()).
		Msg("ledger: stock movement committed")

	s.notifyLowStock(ctx, &res.product)

	resp := toSaleResponse(&sale)
	resp.StockAfter = res.product.StockQuantity
	return &resp, nil
}

// notifyLowStock is best effort: the sale has already committed.
func (s *stockLedger) notifyLowStock(ctx context.Context, p *model.Product) {
	if s.alerts == nil || !p.BelowReorderLevel() {
		return
	}
	alert := dto.LowStockAlert{
		ProductID:     p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
		Unit:          p.Unit,
	}
	if err := s.alerts.PublishLowStock(context.WithoutCancel(ctx), alert); err != nil {
		log.Warn().Err(err).Str("product_id", alert.ProductID).Msg("ledger: low-stock alert not published")
	}
}

func (s *stockLedger) CurrentStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return decimal.Zero, storeErr("current stock", lookupErr(err, "product", productID.String()))
	}
	return p.StockQuantity, nil
}

func (s *stockLedger) ListReceivings(ctx context.Context, filter dto.MovementFilter) (*dto.ReceivingListResponse, error) {
	f, err := repoFilter(filter)
	if err != nil {
		return nil, err
	}
	records, total, err := s.receivings.List(ctx, f)
	if err != nil {
		return nil, storeErr("list receivings", err)
	}
	data := make([]dto.ReceivingResponse, len(records))
	for i := range records {
		data[i] = toReceivingResponse(&records[i])
	}
	return &dto.ReceivingListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *stockLedger) ListSales(ctx context.Context, filter dto.MovementFilter) (*dto.SaleListResponse, error) {
	f, err := repoFilter(filter)
	if err != nil {
		return nil, err
	}
	sales, total, err := s.sales.List(ctx, f)
	if err != nil {
		return nil, storeErr("list sales", err)
	}
	data := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		data[i] = toSaleResponse(&sales[i])
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func logRejected(action string, productID uuid.UUID, qty decimal.Decimal, operator Principal, err error) {
	var se *StoreError
	ev := log.Info()
	if errors.As(err, &se) {
		ev = log.Error()
	}
	ev.Err(err).
		Str("action", action).
		Str("product_id", productID.String()).
		Str("quantity", qty.String()).
		Str("operator", operator.Username()).
		Msg("ledger: stock movement rejected")
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ValidationError{Field: field, Reason: "must be a UUID"}
	}
	return id, nil
}

func repoFilter(f dto.MovementFilter) (repository.MovementFilter, error) {
	out := repository.MovementFilter{Page: f.Page, Limit: f.Limit}.Normalize()
	if f.ProductID != "" {
		id, err := parseID("product_id", f.ProductID)
		if err != nil {
			return out, err
		}
		out.ProductID = &id
	}
	return out, nil
}

func toReceivingResponse(r *model.GoodsReceiving) dto.ReceivingResponse {
	return dto.ReceivingResponse{
		ID:          r.ID.String(),
		ProductID:   r.ProductID.String(),
		SupplierID:  r.SupplierID.String(),
		Quantity:    r.Quantity,
		RatePerUnit: r.RatePerUnit,
		TaxAmount:   r.TaxAmount,
		TotalAmount: r.TotalAmount,
		ReceivedAt:  r.ReceivedAt,
		ReceivedBy:  r.ReceivedBy,
	}
}

func toSaleResponse(s *model.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:          s.ID.String(),
		ProductID:   s.ProductID.String(),
		CustomerID:  s.CustomerID.String(),
		Quantity:    s.Quantity,
		RatePerUnit: s.RatePerUnit,
		TaxAmount:   s.TaxAmount,
		TotalAmount: s.TotalAmount,
		SoldAt:      s.SoldAt,
		SoldBy:      s.SoldBy,
	}
}
