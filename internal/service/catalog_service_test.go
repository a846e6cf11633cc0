package service

import (
	"context"
	"testing"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productReq(sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:          sku,
		Category:     "Electronics",
		Subcategory:  "Accessories",
		Name:         "USB-C Cable",
		TaxRate:      dec("18"),
		Price:        dec("9.99"),
		Unit:         "piece",
		ReorderLevel: dec("5"),
	}
}

func TestCreateProduct_StartsAtZeroStock(t *testing.T) {
	s := newTestStore(t)
	catalog := NewCatalogService(s.products, s.suppliers, s.customers)
	ctx := context.Background()

	p, err := catalog.CreateProduct(ctx, admin, productReq("ELC-100"))
	require.NoError(t, err)
	requireDec(t, "0", p.StockQuantity)

	id := uuid.MustParse(p.ID)
	got, err := catalog.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ELC-100", got.SKU)

	inventory, err := catalog.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 1)
	assert.True(t, inventory[0].LowStock)
}

func TestCreateProduct_Rejections(t *testing.T) {
	s := newTestStore(t)
	catalog := NewCatalogService(s.products, s.suppliers, s.customers)
	ctx := context.Background()

	_, err := catalog.CreateProduct(ctx, receiver, productReq("ELC-1"))
	var pe *PermissionError
	require.ErrorAs(t, err, &pe)

	_, err = catalog.CreateProduct(ctx, admin, productReq("ELC-1"))
	require.NoError(t, err)

	var ve *ValidationError
	_, err = catalog.CreateProduct(ctx, admin, productReq("ELC-1"))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sku", ve.Field)

	bad := productReq("ELC-2")
	bad.TaxRate = dec("101")
	_, err = catalog.CreateProduct(ctx, admin, bad)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tax_rate", ve.Field)

	bad = productReq("ELC-3")
	bad.Price = dec("1.999")
	_, err = catalog.CreateProduct(ctx, admin, bad)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "price", ve.Field)

	bad = productReq("ELC-4")
	bad.Price = dec("10000000000")
	_, err = catalog.CreateProduct(ctx, admin, bad)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "price", ve.Field)

	bad = productReq("ELC-5")
	bad.TaxRate = dec("18.125")
	_, err = catalog.CreateProduct(ctx, admin, bad)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tax_rate", ve.Field)

	bad = productReq("ELC-6")
	bad.ReorderLevel = dec("2.0005")
	_, err = catalog.CreateProduct(ctx, admin, bad)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "reorder_level", ve.Field)

	products, err := catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestGetProduct_Unknown(t *testing.T) {
	s := newTestStore(t)
	catalog := NewCatalogService(s.products, s.suppliers, s.customers)

	_, err := catalog.GetProduct(context.Background(), uuid.New())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestParties_CreateAndListByName(t *testing.T) {
	s := newTestStore(t)
	catalog := NewCatalogService(s.products, s.suppliers, s.customers)
	ctx := context.Background()

	for _, name := range []string{"Zeta Traders", "Alpha Components"} {
		_, err := catalog.CreateSupplier(ctx, admin, dto.CreateSupplierRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := catalog.CreateCustomer(ctx, admin, dto.CreateCustomerRequest{Name: "ABC Corporation"})
	require.NoError(t, err)

	_, err = catalog.CreateSupplier(ctx, admin, dto.CreateSupplierRequest{Name: " "})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = catalog.CreateCustomer(ctx, seller, dto.CreateCustomerRequest{Name: "XYZ"})
	var pe *PermissionError
	require.ErrorAs(t, err, &pe)

	suppliers, err := catalog.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Alpha Components", suppliers[0].Name)

	customers, err := catalog.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}
