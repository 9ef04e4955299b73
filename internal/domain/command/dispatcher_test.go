// internal/domain/command/dispatcher_test.go
package command

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/domain/purchase"
	"github.com/your-org/inventory-copilot/internal/domain/staff"
	"github.com/your-org/inventory-copilot/internal/domain/stock"
	"github.com/your-org/inventory-copilot/internal/testutil"
	"gorm.io/gorm"
)

type dispatchFixture struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	widget     catalog.Product
	main       catalog.Warehouse
	east       catalog.Warehouse
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	db := testutil.NewDB(t,
		&staff.Employee{},
		&catalog.Category{}, &catalog.Product{}, &catalog.Warehouse{}, &catalog.Supplier{},
		&stock.StockRecord{}, &stock.StockTransaction{}, &purchase.PurchaseOrder{})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	resolver := catalog.NewResolver(db)
	ledger := stock.NewLedger(db)
	orders := purchase.NewService(db, resolver, ledger)

	f := &dispatchFixture{
		db: db,
		dispatcher: NewDispatcher(
			catalog.NewService(db), resolver, ledger, orders,
			purchase.NewMatcher(db, resolver), staff.NewService(db), logger),
		widget: catalog.Product{Name: "Widget", UnitPrice: decimal.NewFromInt(10)},
		main:   catalog.Warehouse{Name: "Main Warehouse"},
		east:   catalog.Warehouse{Name: "East"},
	}
	require.NoError(t, db.Create(&f.widget).Error)
	require.NoError(t, db.Create(&f.main).Error)
	require.NoError(t, db.Create(&f.east).Error)
	return f
}

func (f *dispatchFixture) seedStock(t *testing.T, product catalog.Product, warehouse catalog.Warehouse, quantity int) {
	t.Helper()
	require.NoError(t, f.db.Create(&stock.StockRecord{
		ProductID: product.ID, WarehouseID: warehouse.ID, Quantity: quantity,
	}).Error)
}

func (f *dispatchFixture) stockAt(t *testing.T, product catalog.Product, warehouse catalog.Warehouse) int {
	t.Helper()
	var record stock.StockRecord
	err := f.db.Where("product_id = ? AND warehouse_id = ?", product.ID, warehouse.ID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return record.Quantity
}

func (f *dispatchFixture) dispatch(action ActionType, params Params) *Result {
	return f.dispatcher.Dispatch(context.Background(), &Proposal{
		Action: string(action),
		Params: params,
	}, nil)
}

func flexInt(v int) *FlexInt {
	f := FlexInt(v)
	return &f
}

func TestDispatchTakeStock(t *testing.T) {
	f := newDispatchFixture(t)
	f.seedStock(t, f.widget, f.main, 10)

	result := f.dispatch(ActionTakeStock, Params{Product: "widget", Warehouse: "main", Quantity: flexInt(5)})
	assert.True(t, result.Success)
	assert.Equal(t, "Took 5 x Widget from Main Warehouse", result.Message)
	assert.Equal(t, 5, f.stockAt(t, f.widget, f.main))
}

func TestDispatchTakeStockInsufficient(t *testing.T) {
	f := newDispatchFixture(t)
	f.seedStock(t, f.widget, f.main, 10)

	result := f.dispatch(ActionTakeStock, Params{Product: "widget", Warehouse: "main", Quantity: flexInt(20)})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Available: 10, requested: 20")
	assert.Equal(t, 10, f.stockAt(t, f.widget, f.main))
}

func TestDispatchTakeStockMissingParams(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionTakeStock, Params{Warehouse: "main", Quantity: flexInt(5)})
	assert.False(t, result.Success)
	assert.Equal(t, "Please specify which product.", result.Message)

	result = f.dispatch(ActionTakeStock, Params{Product: "widget", Warehouse: "main"})
	assert.False(t, result.Success)
	assert.Equal(t, "Please specify a positive quantity.", result.Message)
}

func TestDispatchTakeStockUnknownProduct(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionTakeStock, Params{Product: "Flux Capacitor", Warehouse: "main", Quantity: flexInt(1)})
	assert.False(t, result.Success)
	assert.Equal(t, "Could not find product 'Flux Capacitor'", result.Message)
}

func TestDispatchReturnStock(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionReturnStock, Params{Product: "widget", Warehouse: "east", Quantity: flexInt(3)})
	assert.True(t, result.Success)
	assert.Equal(t, "Returned 3 x Widget to East", result.Message)
	assert.Equal(t, 3, f.stockAt(t, f.widget, f.east))
}

func TestDispatchMoveDefaultsToOneAndAutoSource(t *testing.T) {
	f := newDispatchFixture(t)
	f.seedStock(t, f.widget, f.main, 10)

	result := f.dispatch(ActionMoveProduct, Params{Product: "widget", ToWarehouse: "east"})
	assert.True(t, result.Success)
	assert.Equal(t, "Moved 1 x Widget from Main Warehouse to East", result.Message)
	assert.Equal(t, 9, f.stockAt(t, f.widget, f.main))
	assert.Equal(t, 1, f.stockAt(t, f.widget, f.east))
}

func TestDispatchMoveNoSourceListsLocations(t *testing.T) {
	f := newDispatchFixture(t)
	f.seedStock(t, f.widget, f.main, 2)

	result := f.dispatch(ActionMoveProduct, Params{Product: "widget", ToWarehouse: "east", Quantity: flexInt(5)})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No warehouse has 5 of 'Widget'")
	assert.Contains(t, result.Message, "Main Warehouse (2)")
}

func TestDispatchTransferStock(t *testing.T) {
	f := newDispatchFixture(t)
	f.seedStock(t, f.widget, f.main, 10)

	result := f.dispatch(ActionTransferStock, Params{
		Product: "widget", FromWarehouse: "main", ToWarehouse: "east", Quantity: flexInt(4),
	})
	assert.True(t, result.Success)
	assert.Equal(t, "Transferred 4 x Widget from Main Warehouse to East", result.Message)
	assert.Equal(t, 6, f.stockAt(t, f.widget, f.main))
	assert.Equal(t, 4, f.stockAt(t, f.widget, f.east))

	var count int64
	f.db.Model(&stock.StockTransaction{}).Where("kind = ?", stock.KindTransfer).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDispatchCreateOrderAutoCreatesProduct(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionCreateOrder, Params{
		Product: "NewGadget", Warehouse: "main", Quantity: flexInt(5), UnitPrice: Price("$20"),
	})
	assert.True(t, result.Success)
	assert.True(t, result.RequiresBillUpload)
	assert.NotZero(t, result.OrderID)
	assert.Contains(t, result.Message, "Created new product 'NewGadget'")

	var order purchase.PurchaseOrder
	require.NoError(t, f.db.First(&order, result.OrderID).Error)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(100)))
}

func TestDispatchCreateOrderSuggestsLookalikes(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionCreateOrder, Params{
		Product: "widget deluxe", Warehouse: "main", Quantity: flexInt(2),
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Did you mean one of these?")
	assert.NotNil(t, result.SuggestedProducts)
}

func TestDispatchCreateOrderBadPrice(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionCreateOrder, Params{
		Product: "Widget", Warehouse: "main", Quantity: flexInt(2), UnitPrice: Price("cheap"),
	})
	assert.False(t, result.Success)
	assert.Equal(t, "I couldn't read the unit price. Please give it as a plain number.", result.Message)
}

func TestDispatchReceiveOrderPartial(t *testing.T) {
	f := newDispatchFixture(t)
	created := f.dispatch(ActionCreateOrder, Params{
		Product: "Widget", Warehouse: "main", Quantity: flexInt(10),
	})
	require.True(t, created.Success)

	result := f.dispatch(ActionReceiveOrder, Params{
		OrderID: flexInt(int(created.OrderID)), Quantity: flexInt(3),
	})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Received 3 of 10 units")
	assert.Contains(t, result.Message, "7 still outstanding")
	assert.Equal(t, 3, f.stockAt(t, f.widget, f.main))
}

func TestDispatchReceiveOrderAmbiguous(t *testing.T) {
	f := newDispatchFixture(t)
	require.True(t, f.dispatch(ActionCreateOrder, Params{Product: "Widget", Warehouse: "main", Quantity: flexInt(5)}).Success)
	require.True(t, f.dispatch(ActionCreateOrder, Params{Product: "Widget", Warehouse: "east", Quantity: flexInt(5)}).Success)

	result := f.dispatch(ActionReceiveOrder, Params{Product: "widget"})
	assert.False(t, result.Success)
	assert.Equal(t, "Found 2 open orders matching your request. Which one did you mean?", result.Message)
	assert.NotNil(t, result.PendingOrders)
}

func TestDispatchReceiveOrderNothingMatches(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionReceiveOrder, Params{})
	assert.False(t, result.Success)
	assert.Equal(t, "There are no open orders to receive.", result.Message)

	result = f.dispatch(ActionReceiveOrder, Params{Product: "widget"})
	assert.False(t, result.Success)
	assert.Equal(t, `No open order matched product "widget".`, result.Message)
}

func TestDispatchUpdateStatusRedirectsReceive(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionUpdateOrderStatus, Params{OrderID: flexInt(1), Status: "received"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "tell me to receive it instead")
}

func TestDispatchUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionUpdateOrderStatus, Params{OrderID: flexInt(1), Status: "teleported"})
	assert.False(t, result.Success)
	assert.Equal(t, "'teleported' is not a status I can set.", result.Message)
}

func TestDispatchUpdateStatusReorders(t *testing.T) {
	f := newDispatchFixture(t)
	created := f.dispatch(ActionCreateOrder, Params{Product: "Widget", Warehouse: "main", Quantity: flexInt(5)})
	require.True(t, created.Success)

	result := f.dispatch(ActionUpdateOrderStatus, Params{OrderID: flexInt(int(created.OrderID)), Status: "reordered"})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Reordered: created new order")
	assert.NotEqual(t, created.OrderID, result.OrderID)

	var original purchase.PurchaseOrder
	require.NoError(t, f.db.First(&original, created.OrderID).Error)
	assert.Equal(t, purchase.StatusReordered, original.Status)
}

func TestDispatchUpdateStatusApprove(t *testing.T) {
	f := newDispatchFixture(t)
	created := f.dispatch(ActionCreateOrder, Params{Product: "Widget", Warehouse: "main", Quantity: flexInt(5)})
	require.True(t, created.Success)

	result := f.dispatch(ActionUpdateOrderStatus, Params{OrderID: flexInt(int(created.OrderID)), Status: "Approved"})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "approved")
}

func TestDispatchAddWarehouse(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionAddWarehouse, Params{Name: "North Annex", Address: "12 Dock Rd"})
	assert.True(t, result.Success)
	assert.Equal(t, "warehouse", result.Entity)
	assert.Equal(t, "Added warehouse 'North Annex'", result.Message)
}

func TestDispatchAddSupplierRequiresName(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatch(ActionAddSupplier, Params{Email: "sales@acme.test"})
	assert.False(t, result.Success)
	assert.Equal(t, "Please give the new supplier a name.", result.Message)
}

func TestDispatchUnknownActionEchoesInterpreterMessage(t *testing.T) {
	f := newDispatchFixture(t)

	result := f.dispatcher.Dispatch(context.Background(), &Proposal{
		Action:  "DANCE",
		Message: "I can't dance, but I can manage inventory.",
	}, nil)
	assert.False(t, result.Success)
	assert.Equal(t, string(ActionUnclear), result.Action)
	assert.Equal(t, "I can't dance, but I can manage inventory.", result.Message)

	result = f.dispatcher.Dispatch(context.Background(), &Proposal{Action: "DANCE"}, nil)
	assert.Equal(t, "I didn't understand that command. Could you rephrase it?", result.Message)
}

func TestDispatchViewStock(t *testing.T) {
	f := newDispatchFixture(t)
	f.seedStock(t, f.widget, f.main, 10)

	result := f.dispatch(ActionViewStock, Params{Product: "widget"})
	assert.True(t, result.Success)
	assert.Equal(t, "stock", result.Entity)
	assert.Equal(t, "Found 1 stock entries", result.Message)
}

func TestDispatchRecordsActor(t *testing.T) {
	f := newDispatchFixture(t)
	employee := staff.Employee{Name: "Sam", Email: "sam@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(&employee).Error)
	f.seedStock(t, f.widget, f.main, 10)

	result := f.dispatcher.Dispatch(context.Background(), &Proposal{
		Action: string(ActionTakeStock),
		Params: Params{Product: "widget", Warehouse: "main", Quantity: flexInt(2)},
	}, &Actor{Email: "sam@example.com", Name: "Sam"})
	require.True(t, result.Success)

	var transaction stock.StockTransaction
	require.NoError(t, f.db.Order("id DESC").First(&transaction).Error)
	require.NotNil(t, transaction.EmployeeID)
	assert.Equal(t, employee.ID, *transaction.EmployeeID)
}
