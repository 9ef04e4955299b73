// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/domain/purchase"
	"github.com/your-org/inventory-copilot/internal/domain/staff"
	"github.com/your-org/inventory-copilot/internal/domain/stock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: reference entities first, then the tables that
	// point at them.
	models := []interface{}{
		&staff.Employee{},

		&catalog.Category{},
		&catalog.Product{},
		&catalog.Warehouse{},
		&catalog.Supplier{},

		&stock.StockRecord{},
		&stock.StockTransaction{},

		&purchase.PurchaseOrder{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Resolver lookups are case-insensitive name matches
		"CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_warehouses_name_lower ON warehouses(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_suppliers_name_lower ON suppliers(LOWER(name))",

		// Stock lookups
		"CREATE INDEX IF NOT EXISTS idx_stock_records_product ON stock_records(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_stock_records_warehouse ON stock_records(warehouse_id)",

		// Transaction log is read newest-first
		"CREATE INDEX IF NOT EXISTS idx_stock_transactions_created ON stock_transactions(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_transactions_product ON stock_transactions(product_id)",

		// Order matching scans open orders
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_product_status ON purchase_orders(product_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_warehouse ON purchase_orders(warehouse_id)",

		// Employee lookup by email on every authenticated command
		"CREATE INDEX IF NOT EXISTS idx_employees_email ON employees(email)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedAdminEmployee(); err != nil {
		return fmt.Errorf("failed to seed admin employee: %w", err)
	}

	if err := m.seedDefaultWarehouse(); err != nil {
		return fmt.Errorf("failed to seed default warehouse: %w", err)
	}

	if err := m.seedSampleProducts(); err != nil {
		return fmt.Errorf("failed to seed sample products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates default product categories
func (m *Migration) seedCategories() error {
	log.Println("🏷️ Seeding categories...")

	categories := []catalog.Category{
		{Name: "Electronics", Description: "Electronic devices and components"},
		{Name: "Hardware", Description: "Fasteners, fittings, and tools"},
		{Name: "Packaging", Description: "Boxes, tape, and shipping supplies"},
		{Name: "Office Supplies", Description: "Stationery and office equipment"},
	}

	for _, category := range categories {
		var existing catalog.Category
		result := m.db.Where("name = ?", category.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("✅ Created category: %s", category.Name)
		} else {
			log.Printf("⏭️ Category already exists: %s", category.Name)
		}
	}

	return nil
}

// seedAdminEmployee creates the default admin employee
func (m *Migration) seedAdminEmployee() error {
	log.Println("👤 Seeding admin employee...")

	var existing staff.Employee
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		log.Printf("⏭️ Admin employee already exists with ID: %d", existing.ID)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := staff.Employee{
		Name:         "Admin User",
		Email:        "admin@example.com",
		PasswordHash: string(hashedPassword),
		IsAdmin:      true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin employee: %w", err)
	}

	log.Println("✅ Created admin employee: admin@example.com (password: admin123)")
	return nil
}

// seedDefaultWarehouse creates the default warehouse
func (m *Migration) seedDefaultWarehouse() error {
	log.Println("🏭 Seeding default warehouse...")

	var count int64
	m.db.Model(&catalog.Warehouse{}).Count(&count)
	if count > 0 {
		log.Println("⏭️ Warehouses already exist")
		return nil
	}

	warehouse := catalog.Warehouse{
		Name:    "Main Warehouse",
		Address: "1 Depot Road",
	}
	if err := m.db.Create(&warehouse).Error; err != nil {
		return err
	}

	log.Printf("✅ Created warehouse: %s", warehouse.Name)
	return nil
}

// seedSampleProducts creates a few products so a fresh development install
// has something to command around
func (m *Migration) seedSampleProducts() error {
	log.Println("🛍️ Seeding sample products...")

	var count int64
	m.db.Model(&catalog.Product{}).Count(&count)
	if count > 0 {
		log.Println("⏭️ Products already exist")
		return nil
	}

	var electronics catalog.Category
	var categoryID *uint
	if err := m.db.Where("name = ?", "Electronics").First(&electronics).Error; err == nil {
		categoryID = &electronics.ID
	}

	products := []catalog.Product{
		{
			Name:         "USB-C Cable",
			Description:  "1m braided USB-C to USB-C cable",
			UnitPrice:    decimal.NewFromFloat(9.99),
			Manufacturer: "CableWorks",
			CategoryID:   categoryID,
		},
		{
			Name:         "Wireless Mouse",
			Description:  "2.4GHz wireless optical mouse",
			UnitPrice:    decimal.NewFromFloat(24.50),
			Manufacturer: "ClickCo",
			CategoryID:   categoryID,
		},
		{
			Name:        "Packing Tape",
			Description: "48mm x 66m clear packing tape",
			UnitPrice:   decimal.NewFromFloat(3.75),
		},
	}

	for _, product := range products {
		if err := m.db.Create(&product).Error; err != nil {
			return err
		}
		log.Printf("✅ Created product: %s", product.Name)
	}

	return nil
}

// GetTableInfo logs row counts for the core tables, useful when verifying a
// development install
func (m *Migration) GetTableInfo() {
	tables := []string{"employees", "categories", "products", "warehouses", "suppliers", "stock_records", "stock_transactions", "purchase_orders"}

	log.Println("📊 Table row counts:")
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("  %s: error (%v)", table, err)
			continue
		}
		log.Printf("  %s: %d", table, count)
	}
}
