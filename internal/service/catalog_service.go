package service

import (
	"context"
	"strings"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CatalogService is the read side of products, suppliers and customers plus
// catalog entry. It never writes stock_quantity.
type CatalogService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	ListInventory(ctx context.Context) ([]dto.InventoryRow, error)
	ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error)
	ListCustomers(ctx context.Context) ([]dto.CustomerResponse, error)

	CreateProduct(ctx context.Context, operator Principal, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	CreateSupplier(ctx context.Context, operator Principal, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	CreateCustomer(ctx context.Context, operator Principal, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
}

type catalogService struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
}

func NewCatalogService(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	customers repository.CustomerRepository,
) CatalogService {
	return &catalogService{products: products, suppliers: suppliers, customers: customers}
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("get product", lookupErr(err, "product", id.String()))
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, storeErr("list products", err)
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = toProductResponse(&products[i])
	}
	return resp, nil
}

func (s *catalogService) ListInventory(ctx context.Context) ([]dto.InventoryRow, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, storeErr("list inventory", err)
	}
	rows := make([]dto.InventoryRow, len(products))
	for i, p := range products {
		rows[i] = dto.InventoryRow{
			ProductID:     p.ID.String(),
			SKU:           p.SKU,
			Name:          p.Name,
			Category:      p.Category,
			Subcategory:   p.Subcategory,
			StockQuantity: p.StockQuantity,
			Unit:          p.Unit,
			Price:         p.Price,
			LowStock:      p.BelowReorderLevel(),
		}
	}
	return rows, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, storeErr("list suppliers", err)
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		resp[i] = toSupplierResponse(&suppliers[i])
	}
	return resp, nil
}

func (s *catalogService) ListCustomers(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, storeErr("list customers", err)
	}
	resp := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = toCustomerResponse(&customers[i])
	}
	return resp, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, operator Principal, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := operator.require("create products"); err != nil {
		return nil, err
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	p := &model.Product{
		Barcode:      blankToNil(req.Barcode),
		SKU:          strings.TrimSpace(req.SKU),
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		Name:         req.Name,
		Description:  req.Description,
		TaxRate:      req.TaxRate,
		Price:        req.Price,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		ImagePath:    req.ImagePath,
		// Stock only ever arrives through the ledger.
		StockQuantity: decimal.Zero,
	}
	if err := s.products.Create(ctx, p); err != nil {
		if isDuplicateKey(err) {
			return nil, &ValidationError{Field: "sku", Reason: "sku or barcode already exists"}
		}
		return nil, storeErr("create product", err)
	}

	log.Info().Str("product_id", p.ID.String()).Str("sku", p.SKU).
		Str("operator", operator.Username()).Msg("catalog: product created")
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *catalogService) CreateSupplier(ctx context.Context, operator Principal, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := operator.require("create suppliers"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	sup := &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, storeErr("create supplier", err)
	}
	resp := toSupplierResponse(sup)
	return &resp, nil
}

func (s *catalogService) CreateCustomer(ctx context.Context, operator Principal, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := operator.require("create customers"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	c := &model.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, storeErr("create customer", err)
	}
	resp := toCustomerResponse(c)
	return &resp, nil
}

func validateProduct(req dto.CreateProductRequest) error {
	switch {
	case strings.TrimSpace(req.SKU) == "":
		return &ValidationError{Field: "sku", Reason: "required"}
	case strings.TrimSpace(req.Name) == "":
		return &ValidationError{Field: "name", Reason: "required"}
	case strings.TrimSpace(req.Unit) == "":
		return &ValidationError{Field: "unit", Reason: "required"}
	case req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(hundred):
		return &ValidationError{Field: "tax_rate", Reason: "must be between 0 and 100"}
	case !hasAtMostPlaces(req.TaxRate, MoneyPlaces):
		return &ValidationError{Field: "tax_rate", Reason: "at most 2 decimal places"}
	case req.ReorderLevel.IsNegative():
		return &ValidationError{Field: "reorder_level", Reason: "must not be negative"}
	case !hasAtMostPlaces(req.ReorderLevel, QuantityPlaces):
		return &ValidationError{Field: "reorder_level", Reason: "at most 3 decimal places"}
	case req.ReorderLevel.GreaterThan(MaxQuantity):
		return &ValidationError{Field: "reorder_level", Reason: "must not exceed " + MaxQuantity.String()}
	}
	return validateRate("price", req.Price)
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID.String(),
		Barcode:       p.Barcode,
		SKU:           p.SKU,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Name:          p.Name,
		Description:   p.Description,
		TaxRate:       p.TaxRate,
		Price:         p.Price,
		Unit:          p.Unit,
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
		ImagePath:     p.ImagePath,
	}
}

func toSupplierResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
	}
}

func toCustomerResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
	}
}
