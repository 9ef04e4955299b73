// internal/domain/purchase/service.go
package purchase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/domain/stock"
	"gorm.io/gorm"
)

// Service governs the purchase order lifecycle from creation through
// receipt, cancellation and reorder
type Service struct {
	db       *gorm.DB
	resolver *catalog.Resolver
	ledger   *stock.Ledger
}

// NewService creates a new purchase order service
func NewService(db *gorm.DB, resolver *catalog.Resolver, ledger *stock.Ledger) *Service {
	return &Service{db: db, resolver: resolver, ledger: ledger}
}

// ResolutionError names which reference failed to resolve
type ResolutionError struct {
	Kind string
	Ref  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("Could not find %s %q", e.Kind, e.Ref)
}

// CreateOrderRequest represents order creation data. UnitPrice is nil when
// the caller supplied no explicit price.
type CreateOrderRequest struct {
	Product   string
	Quantity  int
	Warehouse string
	Supplier  string
	UnitPrice *decimal.Decimal
}

// CreateOrderResult carries the created order and whether the product had to
// be created on the fly
type CreateOrderResult struct {
	Order          *PurchaseOrder
	ProductCreated bool
}

// statusMessages are the fixed user-facing confirmations for direct status
// updates.
var statusMessages = map[OrderStatus]string{
	StatusPending:   "Order #%d marked as pending",
	StatusApproved:  "Order #%d approved",
	StatusOrdered:   "Order #%d placed with the supplier",
	StatusShipped:   "Order #%d marked as shipped",
	StatusCancelled: "Order #%d cancelled",
}

// CreateOrder creates a new pending order. Product resolution is
// strict-exact: a substring match must never silently order the wrong
// product. When the product is unknown, similar products are offered for
// disambiguation; when none exist and an explicit unit price was supplied,
// the product is created on the fly. An explicit unit price differing from
// the stored one updates the stored price as a side effect.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest, actorID *uint) (*CreateOrderResult, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("order quantity must be positive")
	}

	warehouseRef := strings.TrimSpace(req.Warehouse)
	if warehouseRef == "" {
		return nil, &ResolutionError{Kind: "warehouse", Ref: req.Warehouse}
	}
	warehouse, err := s.resolver.ResolveWarehouse(ctx, warehouseRef)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, &ResolutionError{Kind: "warehouse", Ref: warehouseRef}
	}

	product, err := s.resolver.ResolveProductStrict(ctx, req.Product)
	if err != nil {
		return nil, err
	}

	productCreated := false
	if product == nil {
		similar, err := s.resolver.SimilarProducts(ctx, req.Product)
		if err != nil {
			return nil, err
		}
		if len(similar) > 0 {
			return nil, &ProductSuggestionError{Query: req.Product, Suggestions: similar}
		}
		if req.UnitPrice == nil {
			return nil, &ResolutionError{Kind: "product", Ref: req.Product}
		}
		// Unknown product, no lookalikes, explicit price: create it.
		product = &catalog.Product{
			Name:      strings.TrimSpace(req.Product),
			UnitPrice: *req.UnitPrice,
		}
		productCreated = true
	}

	var supplier *catalog.Supplier
	if supplierRef := strings.TrimSpace(req.Supplier); supplierRef != "" {
		supplier, err = s.resolver.ResolveSupplier(ctx, supplierRef)
		if err != nil {
			return nil, err
		}
	}

	unitPrice := product.UnitPrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	totalPrice := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if productCreated {
		if err := tx.Create(product).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
	} else if req.UnitPrice != nil && !req.UnitPrice.Equal(product.UnitPrice) {
		if err := tx.Model(&catalog.Product{}).Where("id = ?", product.ID).
			UpdateColumn("unit_price", *req.UnitPrice).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to update product price: %w", err)
		}
		product.UnitPrice = *req.UnitPrice
	}

	order := &PurchaseOrder{
		ProductID:       product.ID,
		WarehouseID:     warehouse.ID,
		QuantityOrdered: req.Quantity,
		Status:          StatusPending,
		UnitPrice:       unitPrice,
		TotalPrice:      totalPrice,
		CreatedByID:     actorID,
	}
	if supplier != nil {
		order.SupplierID = &supplier.ID
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	order.Product = *product
	order.Warehouse = *warehouse
	order.Supplier = supplier
	return &CreateOrderResult{Order: order, ProductCreated: productCreated}, nil
}

// Receive posts a (possibly partial) delivery against an order. The receipt
// amount defaults to everything still outstanding and can never push
// cumulative receipts past the ordered quantity; the guard is re-checked at
// update time so concurrent receipts cannot overshoot. Stock lands in the
// order's target warehouse and the product's lifetime-received counter grows
// by the same amount.
func (s *Service) Receive(ctx context.Context, orderID uint, quantity *int, actorID *uint) (*PurchaseOrder, int, error) {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order PurchaseOrder
	if err := tx.Preload("Product").Preload("Warehouse").First(&order, orderID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, 0, &ResolutionError{Kind: "order", Ref: fmt.Sprintf("%d", orderID)}
		}
		return nil, 0, fmt.Errorf("failed to load order: %w", err)
	}

	if !order.IsOpen() {
		tx.Rollback()
		return nil, 0, &ClosedOrderError{OrderID: order.ID, Status: order.Status}
	}

	remaining := order.Remaining()
	received := remaining
	if quantity != nil {
		received = *quantity
	}
	if received <= 0 {
		tx.Rollback()
		return nil, 0, fmt.Errorf("receive quantity must be positive")
	}
	if received > remaining {
		tx.Rollback()
		return nil, 0, &OverReceiptError{OrderID: order.ID, Remaining: remaining, Requested: received}
	}

	res := tx.Model(&PurchaseOrder{}).
		Where("id = ? AND quantity_received + ? <= quantity_ordered", order.ID, received).
		UpdateColumn("quantity_received", gorm.Expr("quantity_received + ?", received))
	if res.Error != nil {
		tx.Rollback()
		return nil, 0, fmt.Errorf("failed to update received quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, 0, &OverReceiptError{OrderID: order.ID, Remaining: remaining, Requested: received}
	}

	if err := tx.First(&order, order.ID).Error; err != nil {
		tx.Rollback()
		return nil, 0, fmt.Errorf("failed to reload order: %w", err)
	}

	partial := order.Remaining() > 0
	updates := map[string]interface{}{"status": StatusPartial}
	if !partial {
		now := time.Now().UTC()
		updates["status"] = StatusReceived
		updates["received_at"] = now
	}
	if err := tx.Model(&PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, 0, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := s.ledger.ReceiveTx(tx, &order.Product, &order.Warehouse, received, order.ID, actorID, partial); err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Model(&catalog.Product{}).Where("id = ?", order.ProductID).
		UpdateColumn("total_quantity", gorm.Expr("total_quantity + ?", received)).Error; err != nil {
		tx.Rollback()
		return nil, 0, fmt.Errorf("failed to update product total: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, fmt.Errorf("failed to commit receipt: %w", err)
	}

	if err := s.db.WithContext(ctx).Preload("Product").Preload("Warehouse").First(&order, order.ID).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to reload order: %w", err)
	}
	return &order, received, nil
}

// UpdateStatus applies a direct status change and returns the fixed
// confirmation message for it. Receipt and reorder have dedicated paths with
// different side effects, so received and reordered are rejected here.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) (*PurchaseOrder, string, error) {
	message, ok := statusMessages[status]
	if !ok {
		return nil, "", fmt.Errorf("status %q cannot be set directly", status)
	}

	var order PurchaseOrder
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", &ResolutionError{Kind: "order", Ref: fmt.Sprintf("%d", orderID)}
		}
		return nil, "", fmt.Errorf("failed to load order: %w", err)
	}

	if !order.IsOpen() {
		return nil, "", &ClosedOrderError{OrderID: order.ID, Status: order.Status}
	}

	if err := s.db.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		return nil, "", fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = status
	return &order, fmt.Sprintf(message, order.ID), nil
}

// Reorder clones an order's product, supplier, warehouse, quantity and price
// into a brand-new pending order and flips the original to reordered. The
// original is never deleted; the pair preserves the audit lineage.
func (s *Service) Reorder(ctx context.Context, orderID uint, actorID *uint) (*PurchaseOrder, error) {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var original PurchaseOrder
	if err := tx.First(&original, orderID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, &ResolutionError{Kind: "order", Ref: fmt.Sprintf("%d", orderID)}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if original.Status == StatusReordered {
		tx.Rollback()
		return nil, &ClosedOrderError{OrderID: original.ID, Status: original.Status}
	}

	clone := &PurchaseOrder{
		ProductID:       original.ProductID,
		SupplierID:      original.SupplierID,
		WarehouseID:     original.WarehouseID,
		QuantityOrdered: original.QuantityOrdered,
		Status:          StatusPending,
		UnitPrice:       original.UnitPrice,
		TotalPrice:      original.TotalPrice,
		CreatedByID:     actorID,
	}
	if err := tx.Create(clone).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create reorder: %w", err)
	}

	if err := tx.Model(&original).Update("status", StatusReordered).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to flip original order: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit reorder: %w", err)
	}

	if err := s.db.WithContext(ctx).Preload("Product").Preload("Supplier").Preload("Warehouse").First(clone, clone.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload reorder: %w", err)
	}
	return clone, nil
}

// OpenOrders lists orders still awaiting receipt
func (s *Service) OpenOrders(ctx context.Context) ([]PurchaseOrder, error) {
	var orders []PurchaseOrder
	err := s.db.WithContext(ctx).
		Preload("Product").Preload("Supplier").Preload("Warehouse").
		Where("status IN ?", OpenStatuses).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve open orders: %w", err)
	}
	return orders, nil
}

// AllOrders lists every order, newest first
func (s *Service) AllOrders(ctx context.Context) ([]PurchaseOrder, error) {
	var orders []PurchaseOrder
	err := s.db.WithContext(ctx).
		Preload("Product").Preload("Supplier").Preload("Warehouse").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}
