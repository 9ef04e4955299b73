// internal/domain/purchase/entity.go
package purchase

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"gorm.io/gorm"
)

// OrderStatus represents the purchase order status
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusApproved  OrderStatus = "approved"
	StatusOrdered   OrderStatus = "ordered"
	StatusShipped   OrderStatus = "shipped"
	StatusReceived  OrderStatus = "received"
	StatusPartial   OrderStatus = "partial"
	StatusCancelled OrderStatus = "cancelled"
	StatusReordered OrderStatus = "reordered"
)

// OpenStatuses are the states in which an order can still receive stock.
// partial is re-enterable until cumulative receipt closes the order.
var OpenStatuses = []OrderStatus{StatusPending, StatusApproved, StatusOrdered, StatusShipped, StatusPartial}

// ValidStatus reports whether s is a known order status
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusOrdered, StatusShipped,
		StatusReceived, StatusPartial, StatusCancelled, StatusReordered:
		return true
	}
	return false
}

// PurchaseOrder tracks a request to acquire stock from a supplier into a
// target warehouse. QuantityOrdered is fixed at creation; what is left to
// receive is always derived, never written back over the original figure.
type PurchaseOrder struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ProductID        uint            `gorm:"not null;index" json:"product_id"`
	SupplierID       *uint           `gorm:"index" json:"supplier_id"`
	WarehouseID      uint            `gorm:"not null;index" json:"warehouse_id"`
	QuantityOrdered  int             `gorm:"not null" json:"quantity_ordered"`
	QuantityReceived int             `gorm:"not null;default:0" json:"quantity_received"`
	Status           OrderStatus     `gorm:"not null;size:20;default:'pending';index" json:"status"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_price"`
	CreatedByID      *uint           `gorm:"index" json:"created_by_id"`
	ReceivedAt       *time.Time      `json:"received_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Product   catalog.Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Supplier  *catalog.Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Warehouse catalog.Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

// Remaining returns the quantity still awaiting receipt
func (o *PurchaseOrder) Remaining() int {
	return o.QuantityOrdered - o.QuantityReceived
}

// IsOpen reports whether the order can still receive stock
func (o *PurchaseOrder) IsOpen() bool {
	for _, s := range OpenStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}
