// internal/domain/stock/views.go
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StockLevelRow is a flat projection of a stock record with names resolved
type StockLevelRow struct {
	ProductID   uint   `json:"product_id"`
	Product     string `json:"product"`
	WarehouseID uint   `json:"warehouse_id"`
	Warehouse   string `json:"warehouse"`
	Quantity    int    `json:"quantity"`
}

// WarehouseProductRow is a flat projection of products stocked in a warehouse
type WarehouseProductRow struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// TransactionRow is a flat projection of a transaction with names resolved
type TransactionRow struct {
	ID              uint            `json:"id"`
	Kind            TransactionKind `json:"kind"`
	Amount          int             `json:"amount"`
	Product         string          `json:"product"`
	SourceWarehouse string          `json:"source_warehouse"`
	TargetWarehouse string          `json:"target_warehouse"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StockLevels lists stock records with product and warehouse names,
// optionally filtered by product and/or warehouse.
func (l *Ledger) StockLevels(ctx context.Context, productID, warehouseID *uint) ([]StockLevelRow, error) {
	query := l.db.WithContext(ctx).
		Table("stock_records").
		Select("stock_records.product_id, products.name AS product, stock_records.warehouse_id, warehouses.name AS warehouse, stock_records.quantity").
		Joins("JOIN products ON products.id = stock_records.product_id").
		Joins("JOIN warehouses ON warehouses.id = stock_records.warehouse_id").
		Order("products.name ASC, warehouses.name ASC")

	if productID != nil {
		query = query.Where("stock_records.product_id = ?", *productID)
	}
	if warehouseID != nil {
		query = query.Where("stock_records.warehouse_id = ?", *warehouseID)
	}

	var rows []StockLevelRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock levels: %w", err)
	}
	return rows, nil
}

// ProductsInWarehouse reshapes a join of stock, product and category into a
// flat row set, filtered to quantity > 0.
func (l *Ledger) ProductsInWarehouse(ctx context.Context, warehouseID uint) ([]WarehouseProductRow, error) {
	var rows []WarehouseProductRow
	err := l.db.WithContext(ctx).
		Table("stock_records").
		Select("stock_records.product_id, products.name, COALESCE(categories.name, '') AS category, stock_records.quantity, products.unit_price").
		Joins("JOIN products ON products.id = stock_records.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("stock_records.warehouse_id = ? AND stock_records.quantity > 0", warehouseID).
		Order("products.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve warehouse products: %w", err)
	}
	return rows, nil
}

// RecentTransactions lists the most recent transactions with names resolved
func (l *Ledger) RecentTransactions(ctx context.Context, limit int) ([]TransactionRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var rows []TransactionRow
	err := l.db.WithContext(ctx).
		Table("stock_transactions").
		Select("stock_transactions.id, stock_transactions.kind, stock_transactions.amount, products.name AS product, "+
			"COALESCE(src.name, '') AS source_warehouse, COALESCE(dst.name, '') AS target_warehouse, "+
			"stock_transactions.description, stock_transactions.created_at").
		Joins("JOIN products ON products.id = stock_transactions.product_id").
		Joins("LEFT JOIN warehouses src ON src.id = stock_transactions.warehouse_id").
		Joins("LEFT JOIN warehouses dst ON dst.id = stock_transactions.target_warehouse_id").
		Order("stock_transactions.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	return rows, nil
}
