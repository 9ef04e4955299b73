// internal/domain/stock/entity.go
package stock

import (
	"time"

	"github.com/your-org/inventory-copilot/internal/domain/catalog"
)

// TransactionKind represents the type of stock movement
type TransactionKind string

const (
	KindTake       TransactionKind = "take"
	KindReturn     TransactionKind = "return"
	KindTransfer   TransactionKind = "transfer"
	KindAdjustment TransactionKind = "adjustment"
	KindReceive    TransactionKind = "receive"
)

// StockRecord holds the on-hand quantity for a product in a warehouse.
// Absent row means zero stock. Quantity is never negative; every write path
// guards the decrement at update time.
type StockRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;uniqueIndex:idx_stock_product_warehouse" json:"product_id"`
	WarehouseID uint      `gorm:"not null;uniqueIndex:idx_stock_product_warehouse" json:"warehouse_id"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Product   catalog.Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Warehouse catalog.Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

// StockTransaction is an append-only audit record for one logical stock
// movement. A transfer produces exactly one record carrying both warehouse
// ids. Rows are never updated or deleted after insert.
type StockTransaction struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Reference         string          `gorm:"size:36;index" json:"reference"`
	Kind              TransactionKind `gorm:"not null;size:20;index" json:"kind"`
	Amount            int             `gorm:"not null" json:"amount"`
	ProductID         uint            `gorm:"not null;index" json:"product_id"`
	WarehouseID       *uint           `gorm:"index" json:"warehouse_id"`
	TargetWarehouseID *uint           `json:"target_warehouse_id,omitempty"`
	EmployeeID        *uint           `gorm:"index" json:"employee_id"`
	Description       string          `gorm:"type:text" json:"description"`
	CreatedAt         time.Time       `json:"created_at"`

	// Relationships
	Product catalog.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
