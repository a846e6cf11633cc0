package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/infra"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSeeder(t *testing.T, adminPassword string) *Seeder {
	t.Helper()
	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "seed.db"), infra.DatabaseOptions{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	users := repository.NewUserRepository(db)
	auth, err := service.NewAuthService(users, bcrypt.MinCost)
	require.NoError(t, err)
	return &Seeder{
		Users:         users,
		Products:      repository.NewProductRepository(db),
		Suppliers:     repository.NewSupplierRepository(db),
		Customers:     repository.NewCustomerRepository(db),
		Auth:          auth,
		AdminPassword: adminPassword,
	}
}

func TestRun_SeedsEmptyStoreOnce(t *testing.T) {
	s := newSeeder(t, "")
	ctx := context.Background()

	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Run(ctx))

	users, err := s.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, users)

	products, err := s.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
	for _, p := range products {
		assert.True(t, p.StockQuantity.IsZero(), p.SKU)
	}

	suppliers, err := s.Suppliers.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, suppliers)
	customers, err := s.Customers.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, customers)

	p, err := s.Auth.Authenticate(ctx, "goods_operator", DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, model.RoleGoodsReceiving, p.Role())
}

func TestRun_AdminOnlyWhenPasswordSet(t *testing.T) {
	s := newSeeder(t, "admin-password")
	ctx := context.Background()

	require.NoError(t, s.Run(ctx))
	p, err := s.Auth.Authenticate(ctx, "admin", "admin-password")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, p.Role())

	// A second run must not reset a password the admin may have changed.
	_, err = s.Auth.EnsureUser(ctx, "admin", "changed-password", model.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, s.Run(ctx))
	_, err = s.Auth.Authenticate(ctx, "admin", "changed-password")
	assert.NoError(t, err)
}
