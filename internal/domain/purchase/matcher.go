// internal/domain/purchase/matcher.go
package purchase

import (
	"context"
	"fmt"
	"strings"

	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"gorm.io/gorm"
)

// MaxOrderCandidates caps the disambiguation list returned for fuzzy matches.
const MaxOrderCandidates = 5

// MatchFilters are the partial hints used to locate an open order
type MatchFilters struct {
	OrderID   *uint
	Product   string
	Warehouse string
	Quantity  *int
}

// MatchResult reduces the open-order set to zero, one or many candidates.
// Exactly one of Order / Candidates / neither is populated: Order when the
// match is unambiguous, Candidates (capped) when several remain, neither
// when nothing matched. FiltersApplied names the filters that were used so
// zero-match failures can report what was tried.
type MatchResult struct {
	Order          *PurchaseOrder
	Candidates     []PurchaseOrder
	FiltersApplied []string
}

// Matcher finds candidate purchase orders in actionable states from partial
// filters. It never mutates anything.
type Matcher struct {
	db       *gorm.DB
	resolver *catalog.Resolver
}

// NewMatcher creates a new order matcher
func NewMatcher(db *gorm.DB, resolver *catalog.Resolver) *Matcher {
	return &Matcher{db: db, resolver: resolver}
}

// Match reduces the open orders to zero/one/many using the given filters.
// An explicit order id is an exact lookup; otherwise candidates are filtered
// by product-name substring, then warehouse, then tightened to exact
// remaining-quantity matches while more than one candidate survives. With no
// usable filters the whole open-order set is the candidate set.
func (m *Matcher) Match(ctx context.Context, filters MatchFilters) (*MatchResult, error) {
	if filters.OrderID != nil {
		var order PurchaseOrder
		err := m.db.WithContext(ctx).
			Preload("Product").Preload("Supplier").Preload("Warehouse").
			First(&order, *filters.OrderID).Error
		if err == gorm.ErrRecordNotFound {
			return &MatchResult{FiltersApplied: []string{fmt.Sprintf("order id %d", *filters.OrderID)}}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up order %d: %w", *filters.OrderID, err)
		}
		return &MatchResult{Order: &order, FiltersApplied: []string{fmt.Sprintf("order id %d", *filters.OrderID)}}, nil
	}

	var candidates []PurchaseOrder
	err := m.db.WithContext(ctx).
		Preload("Product").Preload("Supplier").Preload("Warehouse").
		Where("status IN ?", OpenStatuses).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open orders: %w", err)
	}

	var applied []string

	if product := strings.TrimSpace(filters.Product); product != "" {
		lowered := strings.ToLower(product)
		var filtered []PurchaseOrder
		for _, o := range candidates {
			if strings.Contains(strings.ToLower(o.Product.Name), lowered) {
				filtered = append(filtered, o)
			}
		}
		candidates = filtered
		applied = append(applied, fmt.Sprintf("product %q", product))
	}

	if warehouseRef := strings.TrimSpace(filters.Warehouse); warehouseRef != "" {
		warehouse, err := m.resolver.ResolveWarehouse(ctx, warehouseRef)
		if err != nil {
			return nil, err
		}
		if warehouse != nil {
			var filtered []PurchaseOrder
			for _, o := range candidates {
				if o.WarehouseID == warehouse.ID {
					filtered = append(filtered, o)
				}
			}
			candidates = filtered
			applied = append(applied, fmt.Sprintf("warehouse %q", warehouse.Name))
		}
	}

	// Quantity only tightens an ambiguous set; it never empties the result
	// of a match the other filters already narrowed to one.
	if filters.Quantity != nil && len(candidates) > 1 {
		var filtered []PurchaseOrder
		for _, o := range candidates {
			if o.Remaining() == *filters.Quantity {
				filtered = append(filtered, o)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
			applied = append(applied, fmt.Sprintf("quantity %d", *filters.Quantity))
		}
	}

	result := &MatchResult{FiltersApplied: applied}
	switch len(candidates) {
	case 0:
	case 1:
		order := candidates[0]
		result.Order = &order
	default:
		if len(candidates) > MaxOrderCandidates {
			candidates = candidates[:MaxOrderCandidates]
		}
		result.Candidates = candidates
	}
	return result, nil
}
