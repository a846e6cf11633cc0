package infra

import (
	"path/filepath"
	"testing"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "inventory.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("inventory.db"))
	assert.Equal(t, "file:x.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("file:x.db?mode=rwc"))
	assert.Equal(t, "x.db?_pragma=journal_mode(WAL)", sqliteDSN("x.db?_pragma=journal_mode(WAL)"))
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, isPostgresDSN("postgres://u:p@localhost:5432/inventory"))
	assert.True(t, isPostgresDSN("postgresql://localhost/inventory"))
	assert.False(t, isPostgresDSN("inventory.db"))
	assert.False(t, isPostgresDSN("/var/lib/postgres/inventory.db"))
}

func TestNewDatabase_SQLiteMigratesSchema(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "inventory.db"), DatabaseOptions{MaxOpenConns: 20})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	assert.Equal(t, "sqlite", db.Dialector.Name())
	for _, m := range []interface{}{
		&model.Product{}, &model.Supplier{}, &model.Customer{},
		&model.User{}, &model.GoodsReceiving{}, &model.Sale{},
	} {
		assert.True(t, db.Migrator().HasTable(m))
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	// Running migrations again is a no-op.
	require.NoError(t, RunMigrations(db))
}
