// internal/domain/command/dispatcher.go
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/domain/purchase"
	"github.com/your-org/inventory-copilot/internal/domain/staff"
	"github.com/your-org/inventory-copilot/internal/domain/stock"
)

// Actor identifies who issued a command. Email may be empty for
// unauthenticated callers; commands still proceed and their transaction
// records carry a null actor.
type Actor struct {
	Email string
	Name  string
}

// Dispatcher routes validated proposals to the handler for their action and
// normalizes every outcome into a response envelope. Business failures come
// back as envelopes with success=false; only infrastructure panics escape,
// and those are caught and converted at the Dispatch boundary.
type Dispatcher struct {
	catalog  *catalog.Service
	resolver *catalog.Resolver
	ledger   *stock.Ledger
	orders   *purchase.Service
	matcher  *purchase.Matcher
	staff    *staff.Service
	logger   *logrus.Logger
}

// NewDispatcher creates a new action dispatcher
func NewDispatcher(catalogSvc *catalog.Service, resolver *catalog.Resolver, ledger *stock.Ledger, orders *purchase.Service, matcher *purchase.Matcher, staffSvc *staff.Service, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		catalog:  catalogSvc,
		resolver: resolver,
		ledger:   ledger,
		orders:   orders,
		matcher:  matcher,
		staff:    staffSvc,
		logger:   logger,
	}
}

// Dispatch executes a proposal and returns the response envelope. It never
// returns an error: unexpected failures are logged and converted into a
// generic failure envelope so the caller always has something displayable.
func (d *Dispatcher) Dispatch(ctx context.Context, proposal *Proposal, actor *Actor) (result *Result) {
	action := ActionType(proposal.Action)

	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(logrus.Fields{
				"action": proposal.Action,
				"panic":  r,
			}).Error("command handler panicked")
			result = failure(action, "Something went wrong while processing your command. Please try again.")
		}
	}()

	actorID := d.resolveActor(ctx, actor)

	var err error
	switch action {
	case ActionViewProducts:
		result, err = d.viewProducts(ctx)
	case ActionViewProductsInWarehouse:
		result, err = d.viewProductsInWarehouse(ctx, &proposal.Params)
	case ActionViewWarehouses:
		result, err = d.viewWarehouses(ctx)
	case ActionViewSuppliers:
		result, err = d.viewSuppliers(ctx)
	case ActionViewOrders:
		result, err = d.viewOrders(ctx)
	case ActionViewTransactions:
		result, err = d.viewTransactions(ctx)
	case ActionViewStock:
		result, err = d.viewStock(ctx, &proposal.Params)
	case ActionTakeStock:
		result, err = d.takeStock(ctx, &proposal.Params, actorID)
	case ActionReturnStock:
		result, err = d.returnStock(ctx, &proposal.Params, actorID)
	case ActionTransferStock:
		result, err = d.transferStock(ctx, &proposal.Params, actorID)
	case ActionMoveProduct:
		result, err = d.moveProduct(ctx, &proposal.Params, actorID)
	case ActionCreateOrder:
		result, err = d.createOrder(ctx, &proposal.Params, actorID)
	case ActionReceiveOrder:
		result, err = d.receiveOrder(ctx, &proposal.Params, actorID)
	case ActionUpdateOrderStatus:
		result, err = d.updateOrderStatus(ctx, &proposal.Params, actorID)
	case ActionAddProduct:
		result, err = d.addProduct(ctx, &proposal.Params)
	case ActionAddSupplier:
		result, err = d.addSupplier(ctx, &proposal.Params)
	case ActionAddWarehouse:
		result, err = d.addWarehouse(ctx, &proposal.Params)
	default:
		message := strings.TrimSpace(proposal.Message)
		if message == "" {
			message = "I didn't understand that command. Could you rephrase it?"
		}
		return failure(ActionUnclear, message)
	}

	if err != nil {
		d.logger.WithFields(logrus.Fields{
			"action": proposal.Action,
		}).WithError(err).Error("command handler failed")
		return failure(action, "Something went wrong while processing your command. Please try again.")
	}
	return result
}

// resolveActor maps the request actor to an internal employee id.
// Unauthenticated or unlinked actors resolve to nil.
func (d *Dispatcher) resolveActor(ctx context.Context, actor *Actor) *uint {
	if actor == nil || actor.Email == "" {
		return nil
	}

	employee, err := d.staff.FindByEmail(ctx, actor.Email)
	if err != nil {
		d.logger.WithError(err).Warn("failed to look up employee for actor")
		return nil
	}
	if employee == nil {
		return nil
	}
	return &employee.ID
}

// --- view handlers ---

func (d *Dispatcher) viewProducts(ctx context.Context) (*Result, error) {
	products, err := d.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return listing(ActionViewProducts, fmt.Sprintf("Found %d products", len(products)), "products", products), nil
}

func (d *Dispatcher) viewProductsInWarehouse(ctx context.Context, params *Params) (*Result, error) {
	ref := strings.TrimSpace(params.Warehouse)
	if ref == "" {
		return failure(ActionViewProductsInWarehouse, "Please specify which warehouse to list."), nil
	}

	warehouse, err := d.resolver.ResolveWarehouse(ctx, ref)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return failure(ActionViewProductsInWarehouse, fmt.Sprintf("Could not find warehouse '%s'", ref)), nil
	}

	rows, err := d.ledger.ProductsInWarehouse(ctx, warehouse.ID)
	if err != nil {
		return nil, err
	}
	return listing(ActionViewProductsInWarehouse, fmt.Sprintf("Found %d products in %s", len(rows), warehouse.Name), "products", rows), nil
}

func (d *Dispatcher) viewWarehouses(ctx context.Context) (*Result, error) {
	warehouses, err := d.catalog.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	return listing(ActionViewWarehouses, fmt.Sprintf("Found %d warehouses", len(warehouses)), "warehouses", warehouses), nil
}

func (d *Dispatcher) viewSuppliers(ctx context.Context) (*Result, error) {
	suppliers, err := d.catalog.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return listing(ActionViewSuppliers, fmt.Sprintf("Found %d suppliers", len(suppliers)), "suppliers", suppliers), nil
}

func (d *Dispatcher) viewOrders(ctx context.Context) (*Result, error) {
	orders, err := d.orders.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	return listing(ActionViewOrders, fmt.Sprintf("Found %d orders", len(orders)), "orders", orders), nil
}

func (d *Dispatcher) viewTransactions(ctx context.Context) (*Result, error) {
	transactions, err := d.ledger.RecentTransactions(ctx, 50)
	if err != nil {
		return nil, err
	}
	return listing(ActionViewTransactions, fmt.Sprintf("Found %d recent transactions", len(transactions)), "transactions", transactions), nil
}

func (d *Dispatcher) viewStock(ctx context.Context, params *Params) (*Result, error) {
	var productID, warehouseID *uint

	if ref := strings.TrimSpace(params.Product); ref != "" {
		product, err := d.resolver.ResolveProduct(ctx, ref)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return failure(ActionViewStock, fmt.Sprintf("Could not find product '%s'", ref)), nil
		}
		productID = &product.ID
	}
	if ref := strings.TrimSpace(params.Warehouse); ref != "" {
		warehouse, err := d.resolver.ResolveWarehouse(ctx, ref)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return failure(ActionViewStock, fmt.Sprintf("Could not find warehouse '%s'", ref)), nil
		}
		warehouseID = &warehouse.ID
	}

	rows, err := d.ledger.StockLevels(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return listing(ActionViewStock, fmt.Sprintf("Found %d stock entries", len(rows)), "stock", rows), nil
}

// --- stock movement handlers ---

func (d *Dispatcher) takeStock(ctx context.Context, params *Params, actorID *uint) (*Result, error) {
	product, warehouse, quantity, fail, err := d.resolveMovement(ctx, ActionTakeStock, params)
	if fail != nil || err != nil {
		return fail, err
	}

	_, err = d.ledger.Take(ctx, product, warehouse, quantity, actorID)
	if err != nil {
		var insufficient *stock.InsufficientStockError
		if errors.As(err, &insufficient) {
			return failure(ActionTakeStock, insufficient.Error()), nil
		}
		return nil, err
	}
	return success(ActionTakeStock, fmt.Sprintf("Took %d x %s from %s", quantity, product.Name, warehouse.Name)), nil
}

func (d *Dispatcher) returnStock(ctx context.Context, params *Params, actorID *uint) (*Result, error) {
	product, warehouse, quantity, fail, err := d.resolveMovement(ctx, ActionReturnStock, params)
	if fail != nil || err != nil {
		return fail, err
	}

	if _, err := d.ledger.Return(ctx, product, warehouse, quantity, actorID); err != nil {
		return nil, err
	}
	return success(ActionReturnStock, fmt.Sprintf("Returned %d x %s to %s", quantity, product.Name, warehouse.Name)), nil
}

func (d *Dispatcher) transferStock(ctx context.Context, params *Params, actorID *uint) (*Result, error) {
	productRef := strings.TrimSpace(params.Product)
	fromRef := strings.TrimSpace(params.FromWarehouse)
	toRef := strings.TrimSpace(params.ToWarehouse)
	quantity := quantityOf(params)

	switch {
	case productRef == "":
		return failure(ActionTransferStock, "Please specify which product to transfer."), nil
	case fromRef == "":
		return failure(ActionTransferStock, "Please specify which warehouse to transfer from."), nil
	case toRef == "":
		return failure(ActionTransferStock, "Please specify which warehouse to transfer to."), nil
	case quantity <= 0:
		return failure(ActionTransferStock, "Please specify a positive quantity to transfer."), nil
	}

	product, err := d.resolver.ResolveProduct(ctx, productRef)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return failure(ActionTransferStock, fmt.Sprintf("Could not find product '%s'", productRef)), nil
	}
	from, err := d.resolver.ResolveWarehouse(ctx, fromRef)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return failure(ActionTransferStock, fmt.Sprintf("Could not find warehouse '%s'", fromRef)), nil
	}
	to, err := d.resolver.ResolveWarehouse(ctx, toRef)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return failure(ActionTransferStock, fmt.Sprintf("Could not find warehouse '%s'", toRef)), nil
	}

	if _, err := d.ledger.Transfer(ctx, product, from, to, quantity, actorID); err != nil {
		if fail := stockFailure(ActionTransferStock, err); fail != nil {
			return fail, nil
		}
		return nil, err
	}
	return success(ActionTransferStock, fmt.Sprintf("Transferred %d x %s from %s to %s", quantity, product.Name, from.Name, to.Name)), nil
}

func (d *Dispatcher) moveProduct(ctx context.Context, params *Params, actorID *uint) (*Result, error) {
	productRef := strings.TrimSpace(params.Product)
	toRef := strings.TrimSpace(params.ToWarehouse)
	if toRef == "" {
		toRef = strings.TrimSpace(params.Warehouse)
	}
	if productRef == "" {
		return failure(ActionMoveProduct, "Please specify which product to move."), nil
	}
	if toRef == "" {
		return failure(ActionMoveProduct, "Please specify which warehouse to move it to."), nil
	}

	// An unspecified quantity means "move one".
	quantity := quantityOf(params)
	if quantity <= 0 {
		quantity = 1
	}

	product, err := d.resolver.ResolveProduct(ctx, productRef)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return failure(ActionMoveProduct, fmt.Sprintf("Could not find product '%s'", productRef)), nil
	}
	to, err := d.resolver.ResolveWarehouse(ctx, toRef)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return failure(ActionMoveProduct, fmt.Sprintf("Could not find warehouse '%s'", toRef)), nil
	}

	var from *catalog.Warehouse
	if ref := strings.TrimSpace(params.FromWarehouse); ref != "" {
		from, err = d.resolver.ResolveWarehouse(ctx, ref)
		if err != nil {
			return nil, err
		}
		if from == nil {
			return failure(ActionMoveProduct, fmt.Sprintf("Could not find warehouse '%s'", ref)), nil
		}
	}

	source, err := d.ledger.Move(ctx, product, to, quantity, from, actorID)
	if err != nil {
		if fail := stockFailure(ActionMoveProduct, err); fail != nil {
			return fail, nil
		}
		return nil, err
	}
	return success(ActionMoveProduct, fmt.Sprintf("Moved %d x %s from %s to %s", quantity, product.Name, source.Name, to.Name)), nil
}

// resolveMovement performs the shared product+warehouse+quantity validation
// for take and return. Exactly one of fail/err is set when it does not
// succeed.
func (d *Dispatcher) resolveMovement(ctx context.Context, action ActionType, params *Params) (*catalog.Product, *catalog.Warehouse, int, *Result, error) {
	productRef := strings.TrimSpace(params.Product)
	warehouseRef := strings.TrimSpace(params.Warehouse)
	quantity := quantityOf(params)

	switch {
	case productRef == "":
		return nil, nil, 0, failure(action, "Please specify which product."), nil
	case warehouseRef == "":
		return nil, nil, 0, failure(action, "Please specify which warehouse."), nil
	case quantity <= 0:
		return nil, nil, 0, failure(action, "Please specify a positive quantity."), nil
	}

	product, err := d.resolver.ResolveProduct(ctx, productRef)
	if err != nil {
		return nil, nil, 0, nil, err
	}
	if product == nil {
		return nil, nil, 0, failure(action, fmt.Sprintf("Could not find product '%s'", productRef)), nil
	}

	warehouse, err := d.resolver.ResolveWarehouse(ctx, warehouseRef)
	if err != nil {
		return nil, nil, 0, nil, err
	}
	if warehouse == nil {
		return nil, nil, 0, failure(action, fmt.Sprintf("Could not find warehouse '%s'", warehouseRef)), nil
	}

	return product, warehouse, quantity, nil, nil
}

// stockFailure converts the ledger's expected failures into envelopes.
// Returns nil for unexpected errors so the caller can propagate them.
func stockFailure(action ActionType, err error) *Result {
	var insufficient *stock.InsufficientStockError
	var noSource *stock.NoSourceStockError
	var already *stock.AlreadyAtDestinationError
	switch {
	case errors.As(err, &insufficient):
		return failure(action, insufficient.Error())
	case errors.As(err, &noSource):
		return failure(action, noSource.Error())
	case errors.As(err, &already):
		return failure(action, already.Error())
	}
	return nil
}

// orderFailure converts the order lifecycle's expected failures into
// envelopes. Returns nil for unexpected errors so the caller can propagate
// them.
func orderFailure(action ActionType, err error) *Result {
	var over *purchase.OverReceiptError
	var closed *purchase.ClosedOrderError
	var resolution *purchase.ResolutionError
	switch {
	case errors.As(err, &over):
		return failure(action, over.Error())
	case errors.As(err, &closed):
		return failure(action, closed.Error())
	case errors.As(err, &resolution):
		return failure(action, resolution.Error())
	}
	return nil
}

// --- order handlers ---

func (d *Dispatcher) createOrder(ctx context.Context, params *Params, actorID *uint) (*Result, error) {
	productRef := strings.TrimSpace(params.Product)
	warehouseRef := strings.TrimSpace(params.Warehouse)
	quantity := quantityOf(params)

	switch {
	case productRef == "":
		return failure(ActionCreateOrder, "Please specify which product to order."), nil
	case warehouseRef == "":
		return failure(ActionCreateOrder, "Please specify which warehouse the order is for."), nil
	case quantity <= 0:
		return failure(ActionCreateOrder, "Please specify a positive quantity to order."), nil
	}

	unitPrice, priceErr := params.UnitPrice.Decimal()
	if priceErr != nil {
		return failure(ActionCreateOrder, "I couldn't read the unit price. Please give it as a plain number."), nil
	}

	created, err := d.orders.CreateOrder(ctx, &purchase.CreateOrderRequest{
		Product:   productRef,
		Quantity:  quantity,
		Warehouse: warehouseRef,
		Supplier:  strings.TrimSpace(params.Supplier),
		UnitPrice: unitPrice,
	}, actorID)
	if err != nil {
		var suggestion *purchase.ProductSuggestionError
		if errors.As(err, &suggestion) {
			result := failure(ActionCreateOrder, fmt.Sprintf("Could not find product '%s'. Did you mean one of these?", suggestion.Query))
			result.SuggestedProducts = suggestion.Suggestions
			return result, nil
		}
		var resolution *purchase.ResolutionError
		if errors.As(err, &resolution) {
			return failure(ActionCreateOrder, resolution.Error()), nil
		}
		return nil, err
	}

	order := created.Order
	message := fmt.Sprintf("Created order #%d for %d x %s", order.ID, order.QuantityOrdered, order.Product.Name)
	if created.ProductCreated {
		message = fmt.Sprintf("Created new product '%s' and order #%d for %d units", order.Product.Name, order.ID, order.QuantityOrdered)
	}

	result := success(ActionCreateOrder, message)
	result.Data = order
	result.OrderID = order.ID
	result.RequiresBillUpload = true
	return result, nil
}

func (d *Dispatcher) receiveOrder(ctx context.Context, params *Params, actorID *uint) (*Result, error) {
	filters := purchase.MatchFilters{
		OrderID:   orderIDOf(params),
		Product:   strings.TrimSpace(params.Product),
		Warehouse: strings.TrimSpace(params.Warehouse),
	}
	if params.Quantity != nil && params.Quantity.Int() > 0 {
		quantity := params.Quantity.Int()
		filters.Quantity = &quantity
	}

	match, err := d.matcher.Match(ctx, filters)
	if err != nil {
		return nil, err
	}

	switch {
	case match.Order == nil && len(match.Candidates) == 0:
		if len(match.FiltersApplied) == 0 {
			return failure(ActionReceiveOrder, "There are no open orders to receive."), nil
		}
		return failure(ActionReceiveOrder, fmt.Sprintf("No open order matched %s.", strings.Join(match.FiltersApplied, ", "))), nil
	case match.Order == nil:
		result := failure(ActionReceiveOrder, fmt.Sprintf("Found %d open orders matching your request. Which one did you mean?", len(match.Candidates)))
		result.PendingOrders = match.Candidates
		return result, nil
	}

	order, received, err := d.orders.Receive(ctx, match.Order.ID, filters.Quantity, actorID)
	if err != nil {
		if fail := orderFailure(ActionReceiveOrder, err); fail != nil {
			return fail, nil
		}
		return nil, err
	}

	var message string
	if order.Status == purchase.StatusPartial {
		message = fmt.Sprintf("Received %d of %d units for order #%d. %d still outstanding.", received, order.QuantityOrdered, order.ID, order.Remaining())
	} else {
		message = fmt.Sprintf("Received %d units for order #%d. Order complete.", received, order.ID)
	}

	result := success(ActionReceiveOrder, message)
	result.Data = order
	result.OrderID = order.ID
	return result, nil
}

func (d *Dispatcher) updateOrderStatus(ctx context.Context, params *Params, actorID *uint) (*Result, error) {
	statusText := purchase.OrderStatus(strings.ToLower(strings.TrimSpace(params.Status)))
	if statusText == "" {
		return failure(ActionUpdateOrderStatus, "Please specify the status to set."), nil
	}
	if statusText == purchase.StatusReceived || statusText == purchase.StatusPartial {
		// Receipt has stock side effects and must go through the receive flow.
		return failure(ActionUpdateOrderStatus, "To mark an order as received, tell me to receive it instead (e.g. 'receive order 7')."), nil
	}
	if !purchase.ValidStatus(statusText) {
		return failure(ActionUpdateOrderStatus, fmt.Sprintf("'%s' is not a status I can set.", params.Status)), nil
	}

	orderID := orderIDOf(params)
	if orderID == nil {
		match, err := d.matcher.Match(ctx, purchase.MatchFilters{
			Product:   strings.TrimSpace(params.Product),
			Warehouse: strings.TrimSpace(params.Warehouse),
		})
		if err != nil {
			return nil, err
		}
		switch {
		case match.Order == nil && len(match.Candidates) == 0:
			return failure(ActionUpdateOrderStatus, "I couldn't find an open order to update. Please give an order number."), nil
		case match.Order == nil:
			result := failure(ActionUpdateOrderStatus, fmt.Sprintf("Found %d open orders matching your request. Which one did you mean?", len(match.Candidates)))
			result.PendingOrders = match.Candidates
			return result, nil
		}
		orderID = &match.Order.ID
	}

	if statusText == purchase.StatusReordered {
		clone, err := d.orders.Reorder(ctx, *orderID, actorID)
		if err != nil {
			if fail := orderFailure(ActionUpdateOrderStatus, err); fail != nil {
				return fail, nil
			}
			return nil, err
		}
		result := success(ActionUpdateOrderStatus, fmt.Sprintf("Reordered: created new order #%d from order #%d", clone.ID, *orderID))
		result.Data = clone
		result.OrderID = clone.ID
		return result, nil
	}

	order, message, err := d.orders.UpdateStatus(ctx, *orderID, statusText)
	if err != nil {
		if fail := orderFailure(ActionUpdateOrderStatus, err); fail != nil {
			return fail, nil
		}
		return nil, err
	}

	result := success(ActionUpdateOrderStatus, message)
	result.Data = order
	result.OrderID = order.ID
	return result, nil
}

// --- reference-entity handlers ---

func (d *Dispatcher) addProduct(ctx context.Context, params *Params) (*Result, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = strings.TrimSpace(params.Product)
	}
	if name == "" {
		return failure(ActionAddProduct, "Please give the new product a name."), nil
	}

	req := &catalog.CreateProductRequest{
		Name:         name,
		Description:  strings.TrimSpace(params.Description),
		Manufacturer: strings.TrimSpace(params.Manufacturer),
	}
	if unitPrice, err := params.UnitPrice.Decimal(); err == nil && unitPrice != nil {
		req.UnitPrice = *unitPrice
	}

	product, err := d.catalog.CreateProduct(ctx, req)
	if err != nil {
		d.logger.WithError(err).Warn("product creation failed")
		return failure(ActionAddProduct, "Failed to add product"), nil
	}

	result := success(ActionAddProduct, fmt.Sprintf("Added product '%s'", product.Name))
	result.Data = product
	result.Entity = "product"
	return result, nil
}

func (d *Dispatcher) addSupplier(ctx context.Context, params *Params) (*Result, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = strings.TrimSpace(params.Supplier)
	}
	if name == "" {
		return failure(ActionAddSupplier, "Please give the new supplier a name."), nil
	}

	supplier, err := d.catalog.CreateSupplier(ctx, &catalog.CreateSupplierRequest{
		Name:        name,
		ContactName: strings.TrimSpace(params.ContactName),
		Email:       strings.TrimSpace(params.Email),
		Phone:       strings.TrimSpace(params.Phone),
		Address:     strings.TrimSpace(params.Address),
	})
	if err != nil {
		d.logger.WithError(err).Warn("supplier creation failed")
		return failure(ActionAddSupplier, "Failed to add supplier"), nil
	}

	result := success(ActionAddSupplier, fmt.Sprintf("Added supplier '%s'", supplier.Name))
	result.Data = supplier
	result.Entity = "supplier"
	return result, nil
}

func (d *Dispatcher) addWarehouse(ctx context.Context, params *Params) (*Result, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = strings.TrimSpace(params.Warehouse)
	}
	if name == "" {
		return failure(ActionAddWarehouse, "Please give the new warehouse a name."), nil
	}

	warehouse, err := d.catalog.CreateWarehouse(ctx, &catalog.CreateWarehouseRequest{
		Name:    name,
		Address: strings.TrimSpace(params.Address),
	})
	if err != nil {
		d.logger.WithError(err).Warn("warehouse creation failed")
		return failure(ActionAddWarehouse, "Failed to add warehouse"), nil
	}

	result := success(ActionAddWarehouse, fmt.Sprintf("Added warehouse '%s'", warehouse.Name))
	result.Data = warehouse
	result.Entity = "warehouse"
	return result, nil
}
