package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/infra"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testStore is a real SQLite file per test, so transactions and rollbacks
// behave exactly as in production.
type testStore struct {
	db         *gorm.DB
	products   repository.ProductRepository
	suppliers  repository.SupplierRepository
	customers  repository.CustomerRepository
	users      repository.UserRepository
	receivings repository.ReceivingRepository
	sales      repository.SaleRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "inventory.db"), infra.DatabaseOptions{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &testStore{
		db:         db,
		products:   repository.NewProductRepository(db),
		suppliers:  repository.NewSupplierRepository(db),
		customers:  repository.NewCustomerRepository(db),
		users:      repository.NewUserRepository(db),
		receivings: repository.NewReceivingRepository(db),
		sales:      repository.NewSaleRepository(db),
	}
}

func (s *testStore) ledger(opts LedgerOptions) StockLedger {
	return NewStockLedger(s.products, s.suppliers, s.customers, s.receivings, s.sales, opts)
}

func (s *testStore) reconciler() ReconcileService {
	return NewReconcileService(s.products, s.receivings, s.sales)
}

// fixture is one product with a supplier and a customer to move it with.
type fixture struct {
	product  *model.Product
	supplier *model.Supplier
	customer *model.Customer
}

func (s *testStore) seedFixture(t *testing.T, price, taxRate string) fixture {
	t.Helper()
	ctx := context.Background()
	p := &model.Product{
		SKU:         "SKU-" + t.Name(),
		Category:    "Electronics",
		Subcategory: "Accessories",
		Name:        "Wireless Mouse",
		TaxRate:     dec(taxRate),
		Price:       dec(price),
		Unit:        "piece",
	}
	require.NoError(t, s.products.Create(ctx, p))
	sup := &model.Supplier{Name: "Tech Suppliers Ltd"}
	require.NoError(t, s.suppliers.Create(ctx, sup))
	cust := &model.Customer{Name: "ABC Corporation"}
	require.NoError(t, s.customers.Create(ctx, cust))
	return fixture{product: p, supplier: sup, customer: cust}
}

func (s *testStore) stockOf(t *testing.T, p *model.Product) decimal.Decimal {
	t.Helper()
	got, err := s.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got.StockQuantity
}

func (s *testStore) recordCounts(t *testing.T) (receivings, sales int64) {
	t.Helper()
	require.NoError(t, s.db.Model(&model.GoodsReceiving{}).Count(&receivings).Error)
	require.NoError(t, s.db.Model(&model.Sale{}).Count(&sales).Error)
	return receivings, sales
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

var (
	receiver = Principal{username: "goods_operator", role: model.RoleGoodsReceiving}
	seller   = Principal{username: "sales_operator", role: model.RoleSales}
	admin    = Principal{username: "admin", role: model.RoleAdmin}
)
