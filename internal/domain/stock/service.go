// internal/domain/stock/service.go
package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger is the authoritative bookkeeping service for per-(product,
// warehouse) stock. Every mutation runs in a transaction, guards the
// non-negativity invariant at update time, and appends exactly one
// transaction record.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a new stock ledger
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Take removes quantity from a warehouse. An absent stock record is not
// auto-created; it reads as zero and the take fails.
func (l *Ledger) Take(ctx context.Context, product *catalog.Product, warehouse *catalog.Warehouse, quantity int, actorID *uint) (*StockRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx := l.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var record StockRecord
	err := tx.Where("product_id = ? AND warehouse_id = ?", product.ID, warehouse.ID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		tx.Rollback()
		return nil, &InsufficientStockError{Product: product.Name, Warehouse: warehouse.Name, Available: 0, Requested: quantity}
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read stock record: %w", err)
	}
	if record.Quantity < quantity {
		tx.Rollback()
		return nil, &InsufficientStockError{Product: product.Name, Warehouse: warehouse.Name, Available: record.Quantity, Requested: quantity}
	}

	// The WHERE guard re-validates the invariant at write time; a lost race
	// shows up as zero affected rows, never as negative stock.
	res := tx.Model(&StockRecord{}).
		Where("product_id = ? AND warehouse_id = ? AND quantity >= ?", product.ID, warehouse.ID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, &InsufficientStockError{Product: product.Name, Warehouse: warehouse.Name, Available: record.Quantity, Requested: quantity}
	}

	movement := &StockTransaction{
		Reference:   uuid.NewString(),
		Kind:        KindTake,
		Amount:      quantity,
		ProductID:   product.ID,
		WarehouseID: &warehouse.ID,
		EmployeeID:  actorID,
		Description: fmt.Sprintf("Took %d x %s from %s", quantity, product.Name, warehouse.Name),
	}
	if err := tx.Create(movement).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record stock transaction: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit take: %w", err)
	}

	record.Quantity -= quantity
	return &record, nil
}

// Return adds quantity back to a warehouse with upsert semantics: a missing
// stock record is created with the returned amount.
func (l *Ledger) Return(ctx context.Context, product *catalog.Product, warehouse *catalog.Warehouse, quantity int, actorID *uint) (*StockRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx := l.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := upsertStockTx(tx, product.ID, warehouse.ID, quantity); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	movement := &StockTransaction{
		Reference:   uuid.NewString(),
		Kind:        KindReturn,
		Amount:      quantity,
		ProductID:   product.ID,
		WarehouseID: &warehouse.ID,
		EmployeeID:  actorID,
		Description: fmt.Sprintf("Returned %d x %s to %s", quantity, product.Name, warehouse.Name),
	}
	if err := tx.Create(movement).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record stock transaction: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit return: %w", err)
	}

	var record StockRecord
	if err := l.db.WithContext(ctx).Where("product_id = ? AND warehouse_id = ?", product.ID, warehouse.ID).First(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to reload stock record: %w", err)
	}
	return &record, nil
}

// Transfer moves quantity between two warehouses. A successful transfer
// decrements the source and increments the destination by the same amount
// and appends exactly one transaction record carrying both warehouse ids.
func (l *Ledger) Transfer(ctx context.Context, product *catalog.Product, from, to *catalog.Warehouse, quantity int, actorID *uint) (*StockTransaction, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if from.ID == to.ID {
		return nil, &AlreadyAtDestinationError{Product: product.Name, Warehouse: to.Name}
	}

	tx := l.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var source StockRecord
	err := tx.Where("product_id = ? AND warehouse_id = ?", product.ID, from.ID).First(&source).Error
	if err == gorm.ErrRecordNotFound {
		tx.Rollback()
		return nil, &InsufficientStockError{Product: product.Name, Warehouse: from.Name, Available: 0, Requested: quantity, AtSource: true}
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read source stock: %w", err)
	}
	if source.Quantity < quantity {
		tx.Rollback()
		return nil, &InsufficientStockError{Product: product.Name, Warehouse: from.Name, Available: source.Quantity, Requested: quantity, AtSource: true}
	}

	res := tx.Model(&StockRecord{}).
		Where("product_id = ? AND warehouse_id = ? AND quantity >= ?", product.ID, from.ID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update source stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, &InsufficientStockError{Product: product.Name, Warehouse: from.Name, Available: source.Quantity, Requested: quantity, AtSource: true}
	}

	if err := upsertStockTx(tx, product.ID, to.ID, quantity); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update destination stock: %w", err)
	}

	movement := &StockTransaction{
		Reference:         uuid.NewString(),
		Kind:              KindTransfer,
		Amount:            quantity,
		ProductID:         product.ID,
		WarehouseID:       &from.ID,
		TargetWarehouseID: &to.ID,
		EmployeeID:        actorID,
		Description:       fmt.Sprintf("Transferred %d x %s from %s to %s", quantity, product.Name, from.Name, to.Name),
	}
	if err := tx.Create(movement).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record stock transaction: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}

	return movement, nil
}

// Move is a transfer whose source may be omitted. When no source is given,
// the highest-stock warehouse holding at least the requested quantity that
// is not the destination is selected.
func (l *Ledger) Move(ctx context.Context, product *catalog.Product, to *catalog.Warehouse, quantity int, from *catalog.Warehouse, actorID *uint) (*catalog.Warehouse, error) {
	if from == nil {
		picked, err := l.pickMoveSource(ctx, product, to, quantity)
		if err != nil {
			return nil, err
		}
		from = picked
	}

	if _, err := l.Transfer(ctx, product, from, to, quantity, actorID); err != nil {
		return nil, err
	}
	return from, nil
}

// pickMoveSource selects a source warehouse for a move: the sufficient
// location with the most stock that is not the destination.
func (l *Ledger) pickMoveSource(ctx context.Context, product *catalog.Product, to *catalog.Warehouse, quantity int) (*catalog.Warehouse, error) {
	var sufficient []StockRecord
	err := l.db.WithContext(ctx).
		Preload("Warehouse").
		Where("product_id = ? AND quantity >= ?", product.ID, quantity).
		Order("quantity DESC, warehouse_id ASC").
		Find(&sufficient).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query stock locations: %w", err)
	}

	onlyDestination := false
	for _, rec := range sufficient {
		if rec.WarehouseID == to.ID {
			onlyDestination = true
			continue
		}
		warehouse := rec.Warehouse
		return &warehouse, nil
	}
	if onlyDestination {
		return nil, &AlreadyAtDestinationError{Product: product.Name, Warehouse: to.Name}
	}

	locations, err := l.nonzeroLocations(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return nil, &NoSourceStockError{Product: product.Name, Requested: quantity, Locations: locations}
}

func (l *Ledger) nonzeroLocations(ctx context.Context, productID uint) ([]Location, error) {
	var records []StockRecord
	err := l.db.WithContext(ctx).
		Preload("Warehouse").
		Where("product_id = ? AND quantity > 0", productID).
		Order("quantity DESC, warehouse_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query stock locations: %w", err)
	}

	locations := make([]Location, 0, len(records))
	for _, rec := range records {
		locations = append(locations, Location{
			WarehouseID: rec.WarehouseID,
			Warehouse:   rec.Warehouse.Name,
			Quantity:    rec.Quantity,
		})
	}
	return locations, nil
}

// ReceiveTx posts an order receipt inside the caller's transaction: the
// destination stock is upsert-incremented and a receive transaction record
// is appended. Order receipt is the only inbound path besides returns.
func (l *Ledger) ReceiveTx(tx *gorm.DB, product *catalog.Product, warehouse *catalog.Warehouse, quantity int, orderID uint, actorID *uint, partial bool) error {
	if err := upsertStockTx(tx, product.ID, warehouse.ID, quantity); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	note := "full"
	if partial {
		note = "partial"
	}
	movement := &StockTransaction{
		Reference:   uuid.NewString(),
		Kind:        KindReceive,
		Amount:      quantity,
		ProductID:   product.ID,
		WarehouseID: &warehouse.ID,
		EmployeeID:  actorID,
		Description: fmt.Sprintf("Received %d x %s into %s (order #%d, %s delivery)", quantity, product.Name, warehouse.Name, orderID, note),
	}
	if err := tx.Create(movement).Error; err != nil {
		return fmt.Errorf("failed to record stock transaction: %w", err)
	}
	return nil
}

// upsertStockTx increments a stock record, creating it when absent. The
// composite unique index on (product_id, warehouse_id) anchors the conflict
// target so concurrent first-movements cannot produce duplicate rows.
func upsertStockTx(tx *gorm.DB, productID, warehouseID uint, quantity int) error {
	record := &StockRecord{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(record).Error
}
