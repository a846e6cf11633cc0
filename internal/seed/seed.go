package seed

import (
	"context"
	"fmt"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DemoPassword is the password of the seeded operators.
const DemoPassword = "password123"

// Seeder fills an empty store with demo operators and catalog data. Each
// table is only seeded while it is empty, so running it twice is harmless.
type Seeder struct {
	Users     repository.UserRepository
	Products  repository.ProductRepository
	Suppliers repository.SupplierRepository
	Customers repository.CustomerRepository
	Auth      service.AuthService
	// AdminPassword, when set, also provisions an "admin" user.
	AdminPassword string
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.seedProducts(ctx); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := s.seedSuppliers(ctx); err != nil {
		return fmt.Errorf("seed suppliers: %w", err)
	}
	if err := s.seedCustomers(ctx); err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	n, err := s.Users.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, u := range []struct {
			name string
			role model.Role
		}{
			{"goods_operator", model.RoleGoodsReceiving},
			{"sales_operator", model.RoleSales},
		} {
			if _, err := s.Auth.EnsureUser(ctx, u.name, DemoPassword, u.role); err != nil {
				return err
			}
		}
		log.Info().Msg("seed: demo operators created")
	}

	if s.AdminPassword != "" {
		if _, err := s.Users.FindByUsername(ctx, "admin"); err != nil {
			if _, err := s.Auth.EnsureUser(ctx, "admin", s.AdminPassword, model.RoleAdmin); err != nil {
				return err
			}
			log.Info().Msg("seed: admin user created")
		}
	}
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	n, err := s.Products.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, p := range demoProducts() {
		if err := s.Products.Create(ctx, &p); err != nil {
			return err
		}
	}
	log.Info().Msg("seed: demo products created")
	return nil
}

func (s *Seeder) seedSuppliers(ctx context.Context) error {
	n, err := s.Suppliers.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, sup := range []model.Supplier{
		{Name: "Tech Suppliers Ltd", ContactPerson: str("John Doe"), Phone: str("9876543210"), Email: str("john@techsuppliers.com"), Address: str("123 Tech Street")},
		{Name: "Electronics Wholesale", ContactPerson: str("Jane Smith"), Phone: str("9876543211"), Email: str("jane@ewholesale.com"), Address: str("456 Electronics Ave")},
		{Name: "Global Components", ContactPerson: str("Mike Johnson"), Phone: str("9876543212"), Email: str("mike@globalcomp.com"), Address: str("789 Component Road")},
	} {
		if err := s.Suppliers.Create(ctx, &sup); err != nil {
			return err
		}
	}
	log.Info().Msg("seed: demo suppliers created")
	return nil
}

func (s *Seeder) seedCustomers(ctx context.Context) error {
	n, err := s.Customers.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, c := range []model.Customer{
		{Name: "ABC Corporation", Phone: str("9876543220"), Email: str("contact@abc.com"), Address: str("123 Business Street")},
		{Name: "XYZ Enterprises", Phone: str("9876543221"), Email: str("info@xyz.com"), Address: str("456 Corporate Ave")},
		{Name: "Individual Customer", Phone: str("9876543222"), Email: str("customer@email.com"), Address: str("789 Customer Road")},
	} {
		if err := s.Customers.Create(ctx, &c); err != nil {
			return err
		}
	}
	log.Info().Msg("seed: demo customers created")
	return nil
}

func demoProducts() []model.Product {
	row := func(barcode, sku, sub, name, desc string, tax, price int64) model.Product {
		return model.Product{
			Barcode:       str(barcode),
			SKU:           sku,
			Category:      "Electronics",
			Subcategory:   sub,
			Name:          name,
			Description:   str(desc),
			TaxRate:       decimal.NewFromInt(tax),
			Price:         decimal.NewFromInt(price),
			Unit:          "piece",
			StockQuantity: decimal.Zero,
			ReorderLevel:  decimal.Zero,
		}
	}
	return []model.Product{
		row("ELC001", "SKU001", "Laptops", "Dell Laptop", "High-performance laptop", 18, 50000),
		row("ELC002", "SKU002", "Accessories", "Wireless Mouse", "Optical wireless mouse", 12, 1500),
		row("ELC003", "SKU003", "Monitors", "LED Monitor", "24-inch LED monitor", 18, 15000),
		row("ELC004", "SKU004", "Accessories", "Keyboard", "Mechanical keyboard", 12, 3000),
		row("ELC005", "SKU005", "Storage", "External HDD", "1TB external hard drive", 18, 5000),
	}
}

func str(s string) *string { return &s }
