// internal/domain/purchase/errors.go
package purchase

import (
	"fmt"

	"github.com/your-org/inventory-copilot/internal/domain/catalog"
)

// OverReceiptError is returned when a receipt would exceed the remaining
// quantity of an order. State is left unchanged.
type OverReceiptError struct {
	OrderID   uint
	Remaining int
	Requested int
}

func (e *OverReceiptError) Error() string {
	return fmt.Sprintf("Cannot receive %d for order #%d: only %d remaining", e.Requested, e.OrderID, e.Remaining)
}

// ClosedOrderError is returned when an operation targets an order that is no
// longer in an actionable state.
type ClosedOrderError struct {
	OrderID uint
	Status  OrderStatus
}

func (e *ClosedOrderError) Error() string {
	return fmt.Sprintf("Order #%d is %s and cannot be modified", e.OrderID, e.Status)
}

// ProductSuggestionError is returned by order creation when the product did
// not resolve exactly but similar products exist. No mutation occurs; the
// caller surfaces the candidates for disambiguation.
type ProductSuggestionError struct {
	Query       string
	Suggestions []catalog.Product
}

func (e *ProductSuggestionError) Error() string {
	return fmt.Sprintf("Product %q not found; %d similar products available", e.Query, len(e.Suggestions))
}
