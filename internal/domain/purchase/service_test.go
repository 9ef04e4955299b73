// internal/domain/purchase/service_test.go
package purchase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/domain/stock"
	"github.com/your-org/inventory-copilot/internal/testutil"
	"gorm.io/gorm"
)

type orderFixture struct {
	db       *gorm.DB
	service  *Service
	resolver *catalog.Resolver
	ledger   *stock.Ledger
	widget   catalog.Product
	east     catalog.Warehouse
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := testutil.NewDB(t,
		&catalog.Category{}, &catalog.Product{}, &catalog.Warehouse{}, &catalog.Supplier{},
		&stock.StockRecord{}, &stock.StockTransaction{}, &PurchaseOrder{})

	resolver := catalog.NewResolver(db)
	ledger := stock.NewLedger(db)

	f := &orderFixture{
		db:       db,
		service:  NewService(db, resolver, ledger),
		resolver: resolver,
		ledger:   ledger,
		widget:   catalog.Product{Name: "Widget", UnitPrice: decimal.NewFromInt(10)},
		east:     catalog.Warehouse{Name: "East"},
	}
	require.NoError(t, db.Create(&f.widget).Error)
	require.NoError(t, db.Create(&f.east).Error)
	return f
}

func decimalPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestCreateOrderForKnownProduct(t *testing.T) {
	f := newOrderFixture(t)

	result, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product:   "Widget",
		Quantity:  5,
		Warehouse: "East",
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.ProductCreated)

	order := result.Order
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, 5, order.QuantityOrdered)
	assert.Equal(t, 0, order.QuantityReceived)
	assert.True(t, order.UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(50)))
}

func TestCreateOrderAutoCreatesProductWithExplicitPrice(t *testing.T) {
	f := newOrderFixture(t)

	result, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product:   "NewGadget",
		Quantity:  5,
		Warehouse: "East",
		UnitPrice: decimalPtr(20),
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.ProductCreated)
	assert.True(t, result.Order.TotalPrice.Equal(decimal.NewFromInt(100)))

	var created catalog.Product
	require.NoError(t, f.db.Where("name = ?", "NewGadget").First(&created).Error)
	assert.True(t, created.UnitPrice.Equal(decimal.NewFromInt(20)))
}

func TestCreateOrderUnknownProductWithoutPriceFails(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product:   "NewGadget",
		Quantity:  5,
		Warehouse: "East",
	}, nil)
	var resolution *ResolutionError
	require.ErrorAs(t, err, &resolution)
	assert.Equal(t, "product", resolution.Kind)

	var count int64
	f.db.Model(&PurchaseOrder{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateOrderSuggestsSimilarProducts(t *testing.T) {
	f := newOrderFixture(t)

	// Strict resolution misses "widget pro max"; similarity finds Widget.
	_, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product:   "widget pro max",
		Quantity:  2,
		Warehouse: "East",
		UnitPrice: decimalPtr(15),
	}, nil)
	var suggestion *ProductSuggestionError
	require.ErrorAs(t, err, &suggestion)
	require.Len(t, suggestion.Suggestions, 1)
	assert.Equal(t, "Widget", suggestion.Suggestions[0].Name)
}

func TestCreateOrderRequiresWarehouse(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product:  "Widget",
		Quantity: 5,
	}, nil)
	var resolution *ResolutionError
	require.ErrorAs(t, err, &resolution)
	assert.Equal(t, "warehouse", resolution.Kind)
}

func TestCreateOrderUpdatesStoredPrice(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product:   "Widget",
		Quantity:  1,
		Warehouse: "East",
		UnitPrice: decimalPtr(12.50),
	}, nil)
	require.NoError(t, err)

	var stored catalog.Product
	require.NoError(t, f.db.First(&stored, f.widget.ID).Error)
	assert.True(t, stored.UnitPrice.Equal(decimal.NewFromFloat(12.50)))
}

func TestReceiveFullDelivery(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product: "Widget", Quantity: 10, Warehouse: "East",
	}, nil)
	require.NoError(t, err)

	order, received, err := f.service.Receive(context.Background(), created.Order.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, received)
	assert.Equal(t, StatusReceived, order.Status)
	assert.Equal(t, 0, order.Remaining())
	require.NotNil(t, order.ReceivedAt)

	var record stock.StockRecord
	require.NoError(t, f.db.Where("product_id = ? AND warehouse_id = ?", f.widget.ID, f.east.ID).First(&record).Error)
	assert.Equal(t, 10, record.Quantity)

	var product catalog.Product
	require.NoError(t, f.db.First(&product, f.widget.ID).Error)
	assert.Equal(t, 10, product.TotalQuantity)
}

func TestReceivePartialThenComplete(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product: "Widget", Quantity: 10, Warehouse: "East",
	}, nil)
	require.NoError(t, err)

	three := 3
	order, received, err := f.service.Receive(context.Background(), created.Order.ID, &three, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, received)
	assert.Equal(t, StatusPartial, order.Status)
	assert.Equal(t, 7, order.Remaining())
	assert.Nil(t, order.ReceivedAt)

	order, received, err = f.service.Receive(context.Background(), created.Order.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, received)
	assert.Equal(t, StatusReceived, order.Status)
	assert.Equal(t, 10, order.QuantityReceived)
	assert.Equal(t, 10, order.QuantityOrdered)
}

func TestReceiveOverReceiptRejected(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product: "Widget", Quantity: 10, Warehouse: "East",
	}, nil)
	require.NoError(t, err)

	twelve := 12
	_, _, err = f.service.Receive(context.Background(), created.Order.ID, &twelve, nil)
	var over *OverReceiptError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, 10, over.Remaining)
	assert.Equal(t, 12, over.Requested)

	var reloaded PurchaseOrder
	require.NoError(t, f.db.First(&reloaded, created.Order.ID).Error)
	assert.Equal(t, 0, reloaded.QuantityReceived)
	assert.Equal(t, StatusPending, reloaded.Status)
}

func TestReceiveClosedOrderRejected(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product: "Widget", Quantity: 2, Warehouse: "East",
	}, nil)
	require.NoError(t, err)

	_, _, err = f.service.Receive(context.Background(), created.Order.ID, nil, nil)
	require.NoError(t, err)

	_, _, err = f.service.Receive(context.Background(), created.Order.ID, nil, nil)
	var closed *ClosedOrderError
	require.ErrorAs(t, err, &closed)
	assert.Equal(t, StatusReceived, closed.Status)
}

func TestUpdateStatusDirectTransitions(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product: "Widget", Quantity: 2, Warehouse: "East",
	}, nil)
	require.NoError(t, err)

	order, message, err := f.service.UpdateStatus(context.Background(), created.Order.ID, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, order.Status)
	assert.Contains(t, message, "approved")

	_, _, err = f.service.UpdateStatus(context.Background(), created.Order.ID, StatusReceived)
	require.Error(t, err)
}

func TestUpdateStatusCancelClosesOrder(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product: "Widget", Quantity: 2, Warehouse: "East",
	}, nil)
	require.NoError(t, err)

	_, _, err = f.service.UpdateStatus(context.Background(), created.Order.ID, StatusCancelled)
	require.NoError(t, err)

	_, _, err = f.service.Receive(context.Background(), created.Order.ID, nil, nil)
	var closed *ClosedOrderError
	require.ErrorAs(t, err, &closed)
}

func TestReorderClonesAndFlipsOriginal(t *testing.T) {
	f := newOrderFixture(t)
	supplier := catalog.Supplier{Name: "Acme"}
	require.NoError(t, f.db.Create(&supplier).Error)

	created, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product: "Widget", Quantity: 8, Warehouse: "East", Supplier: "Acme",
	}, nil)
	require.NoError(t, err)

	clone, err := f.service.Reorder(context.Background(), created.Order.ID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, created.Order.ID, clone.ID)
	assert.Equal(t, StatusPending, clone.Status)
	assert.Equal(t, 8, clone.QuantityOrdered)
	assert.Equal(t, 0, clone.QuantityReceived)
	require.NotNil(t, clone.SupplierID)
	assert.Equal(t, supplier.ID, *clone.SupplierID)
	assert.True(t, clone.TotalPrice.Equal(created.Order.TotalPrice))

	var original PurchaseOrder
	require.NoError(t, f.db.First(&original, created.Order.ID).Error)
	assert.Equal(t, StatusReordered, original.Status)

	// The original is never deleted and cannot be reordered twice.
	_, err = f.service.Reorder(context.Background(), created.Order.ID, nil)
	var closed *ClosedOrderError
	require.ErrorAs(t, err, &closed)
}

func TestReceiptConservationAcrossManyDeliveries(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.service.CreateOrder(context.Background(), &CreateOrderRequest{
		Product: "Widget", Quantity: 10, Warehouse: "East",
	}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for _, q := range []int{4, 4, 4, 4} {
		quantity := q
		f.service.Receive(ctx, created.Order.ID, &quantity, nil)
	}

	var order PurchaseOrder
	require.NoError(t, f.db.First(&order, created.Order.ID).Error)
	assert.LessOrEqual(t, order.QuantityReceived, order.QuantityOrdered)
}
