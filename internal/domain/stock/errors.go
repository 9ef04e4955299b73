// internal/domain/stock/errors.go
package stock

import (
	"fmt"
	"strings"
)

// InsufficientStockError is returned when a take or transfer would drive a
// stock record negative. State is left unchanged.
type InsufficientStockError struct {
	Product   string
	Warehouse string
	Available int
	Requested int
	AtSource  bool
}

func (e *InsufficientStockError) Error() string {
	if e.AtSource {
		return fmt.Sprintf("Insufficient stock at source warehouse '%s' for '%s'. Available: %d, requested: %d",
			e.Warehouse, e.Product, e.Available, e.Requested)
	}
	return fmt.Sprintf("Insufficient stock for '%s' at '%s'. Available: %d, requested: %d",
		e.Product, e.Warehouse, e.Available, e.Requested)
}

// Location describes a warehouse holding nonzero stock of a product.
type Location struct {
	WarehouseID uint   `json:"warehouse_id"`
	Warehouse   string `json:"warehouse"`
	Quantity    int    `json:"quantity"`
}

// NoSourceStockError is returned by a move when no warehouse holds enough
// stock to satisfy the requested quantity. Locations lists every warehouse
// with nonzero stock so the caller can report where the product actually is.
type NoSourceStockError struct {
	Product   string
	Requested int
	Locations []Location
}

func (e *NoSourceStockError) Error() string {
	if len(e.Locations) == 0 {
		return fmt.Sprintf("No stock of '%s' found in any warehouse", e.Product)
	}
	parts := make([]string, 0, len(e.Locations))
	for _, loc := range e.Locations {
		parts = append(parts, fmt.Sprintf("%s (%d)", loc.Warehouse, loc.Quantity))
	}
	return fmt.Sprintf("No warehouse has %d of '%s'. Current stock: %s",
		e.Requested, e.Product, strings.Join(parts, ", "))
}

// AlreadyAtDestinationError is returned by a move when every warehouse with
// sufficient stock is the destination itself.
type AlreadyAtDestinationError struct {
	Product   string
	Warehouse string
}

func (e *AlreadyAtDestinationError) Error() string {
	return fmt.Sprintf("Product '%s' is already in %s", e.Product, e.Warehouse)
}
