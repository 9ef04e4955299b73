// internal/domain/stock/service_test.go
package stock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/testutil"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	db     *gorm.DB
	ledger *Ledger
	widget catalog.Product
	main   catalog.Warehouse
	east   catalog.Warehouse
	west   catalog.Warehouse
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := testutil.NewDB(t, &catalog.Category{}, &catalog.Product{}, &catalog.Warehouse{}, &StockRecord{}, &StockTransaction{})

	f := &ledgerFixture{
		db:     db,
		ledger: NewLedger(db),
		widget: catalog.Product{Name: "Widget", UnitPrice: decimal.NewFromInt(5)},
		main:   catalog.Warehouse{Name: "Main"},
		east:   catalog.Warehouse{Name: "East"},
		west:   catalog.Warehouse{Name: "West"},
	}
	require.NoError(t, db.Create(&f.widget).Error)
	require.NoError(t, db.Create(&f.main).Error)
	require.NoError(t, db.Create(&f.east).Error)
	require.NoError(t, db.Create(&f.west).Error)
	return f
}

func (f *ledgerFixture) seedStock(t *testing.T, warehouseID uint, quantity int) {
	t.Helper()
	require.NoError(t, f.db.Create(&StockRecord{ProductID: f.widget.ID, WarehouseID: warehouseID, Quantity: quantity}).Error)
}

func (f *ledgerFixture) stockAt(t *testing.T, warehouseID uint) int {
	t.Helper()
	var record StockRecord
	err := f.db.Where("product_id = ? AND warehouse_id = ?", f.widget.ID, warehouseID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return record.Quantity
}

func (f *ledgerFixture) transactionCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&StockTransaction{}).Count(&count).Error)
	return count
}

func TestTakeDecrementsAndLogs(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 10)

	record, err := f.ledger.Take(context.Background(), &f.widget, &f.main, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, record.Quantity)
	assert.Equal(t, 5, f.stockAt(t, f.main.ID))

	var movement StockTransaction
	require.NoError(t, f.db.First(&movement).Error)
	assert.Equal(t, KindTake, movement.Kind)
	assert.Equal(t, 5, movement.Amount)
	assert.NotEmpty(t, movement.Reference)
	assert.Nil(t, movement.EmployeeID)
}

func TestTakeInsufficientLeavesStateUnchanged(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 10)

	_, err := f.ledger.Take(context.Background(), &f.widget, &f.main, 20, nil)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Available)
	assert.Equal(t, 20, insufficient.Requested)

	assert.Equal(t, 10, f.stockAt(t, f.main.ID))
	assert.EqualValues(t, 0, f.transactionCount(t))
}

func TestTakeAbsentRecordIsNotAutoCreated(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.Take(context.Background(), &f.widget, &f.main, 1, nil)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)

	var count int64
	require.NoError(t, f.db.Model(&StockRecord{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestReturnUpsertsStock(t *testing.T) {
	f := newLedgerFixture(t)

	record, err := f.ledger.Return(context.Background(), &f.widget, &f.main, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, record.Quantity)

	record, err = f.ledger.Return(context.Background(), &f.widget, &f.main, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, record.Quantity)

	var count int64
	require.NoError(t, f.db.Model(&StockRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.EqualValues(t, 2, f.transactionCount(t))
}

func TestTransferMovesStockWithOneTransaction(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 10)

	movement, err := f.ledger.Transfer(context.Background(), &f.widget, &f.main, &f.east, 6, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, f.stockAt(t, f.main.ID))
	assert.Equal(t, 6, f.stockAt(t, f.east.ID))
	assert.EqualValues(t, 1, f.transactionCount(t))

	assert.Equal(t, KindTransfer, movement.Kind)
	require.NotNil(t, movement.WarehouseID)
	require.NotNil(t, movement.TargetWarehouseID)
	assert.Equal(t, f.main.ID, *movement.WarehouseID)
	assert.Equal(t, f.east.ID, *movement.TargetWarehouseID)
}

func TestTransferInsufficientChangesNothing(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 3)

	_, err := f.ledger.Transfer(context.Background(), &f.widget, &f.main, &f.east, 6, nil)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.AtSource)

	assert.Equal(t, 3, f.stockAt(t, f.main.ID))
	assert.Equal(t, 0, f.stockAt(t, f.east.ID))
	assert.EqualValues(t, 0, f.transactionCount(t))
}

func TestTransferToSameWarehouseRejected(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 10)

	_, err := f.ledger.Transfer(context.Background(), &f.widget, &f.main, &f.main, 2, nil)
	var already *AlreadyAtDestinationError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, 10, f.stockAt(t, f.main.ID))
}

func TestMoveAutoSelectsSource(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.west.ID, 8)

	source, err := f.ledger.Move(context.Background(), &f.widget, &f.east, 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, f.west.ID, source.ID)

	assert.Equal(t, 7, f.stockAt(t, f.west.ID))
	assert.Equal(t, 1, f.stockAt(t, f.east.ID))
}

func TestMovePrefersHighestStockNonDestination(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 5)
	f.seedStock(t, f.west.ID, 9)
	f.seedStock(t, f.east.ID, 20)

	source, err := f.ledger.Move(context.Background(), &f.widget, &f.east, 2, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, f.west.ID, source.ID)
}

func TestMoveOnlyDestinationHasStock(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.east.ID, 5)

	_, err := f.ledger.Move(context.Background(), &f.widget, &f.east, 2, nil, nil)
	var already *AlreadyAtDestinationError
	require.ErrorAs(t, err, &already)
}

func TestMoveNoSufficientSourceEnumeratesLocations(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 2)
	f.seedStock(t, f.west.ID, 1)

	_, err := f.ledger.Move(context.Background(), &f.widget, &f.east, 5, nil, nil)
	var noSource *NoSourceStockError
	require.ErrorAs(t, err, &noSource)
	require.Len(t, noSource.Locations, 2)
	assert.Equal(t, "Main", noSource.Locations[0].Warehouse)
	assert.Equal(t, 2, noSource.Locations[0].Quantity)
	assert.Contains(t, noSource.Error(), "Main (2)")
}

func TestStockNeverGoesNegativeUnderSequence(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 5)

	ctx := context.Background()
	quantities := []int{2, 2, 2, 2}
	for _, q := range quantities {
		f.ledger.Take(ctx, &f.widget, &f.main, q, nil)
	}

	assert.GreaterOrEqual(t, f.stockAt(t, f.main.ID), 0)
}

func TestRecentTransactionsNewestFirst(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedStock(t, f.main.ID, 10)

	ctx := context.Background()
	_, err := f.ledger.Take(ctx, &f.widget, &f.main, 1, nil)
	require.NoError(t, err)
	_, err = f.ledger.Return(ctx, &f.widget, &f.main, 1, nil)
	require.NoError(t, err)

	rows, err := f.ledger.RecentTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, KindReturn, rows[0].Kind)
	assert.Equal(t, KindTake, rows[1].Kind)
}
