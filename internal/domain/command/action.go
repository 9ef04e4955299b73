// internal/domain/command/action.go
package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ActionType enumerates every command the dispatcher understands. The
// interpreter proposes one of these tags; anything else is treated as
// unclear.
type ActionType string

const (
	ActionViewProducts            ActionType = "VIEW_PRODUCTS"
	ActionViewProductsInWarehouse ActionType = "VIEW_PRODUCTS_IN_WAREHOUSE"
	ActionViewWarehouses          ActionType = "VIEW_WAREHOUSES"
	ActionViewSuppliers           ActionType = "VIEW_SUPPLIERS"
	ActionViewOrders              ActionType = "VIEW_ORDERS"
	ActionViewTransactions        ActionType = "VIEW_TRANSACTIONS"
	ActionViewStock               ActionType = "VIEW_STOCK"
	ActionTakeStock               ActionType = "TAKE_STOCK"
	ActionReturnStock             ActionType = "RETURN_STOCK"
	ActionTransferStock           ActionType = "TRANSFER_STOCK"
	ActionMoveProduct             ActionType = "MOVE_PRODUCT"
	ActionCreateOrder             ActionType = "CREATE_ORDER"
	ActionReceiveOrder            ActionType = "RECEIVE_ORDER"
	ActionUpdateOrderStatus       ActionType = "UPDATE_ORDER_STATUS"
	ActionAddProduct              ActionType = "ADD_PRODUCT"
	ActionAddSupplier             ActionType = "ADD_SUPPLIER"
	ActionAddWarehouse            ActionType = "ADD_WAREHOUSE"
	ActionUnclear                 ActionType = "UNCLEAR"
)

// FlexInt tolerates language-model output that renders integers as JSON
// numbers, quoted numbers, or floats.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(fl))
		return nil
	}
	return fmt.Errorf("invalid integer value %q", s)
}

// Int returns the wrapped value
func (f FlexInt) Int() int { return int(f) }

// Params is the loosely-typed parameter bag attached to a proposal. Every
// field is optional at this layer; per-action validation decides which are
// required. All values originate from an untrusted interpreter.
type Params struct {
	Product       string   `json:"product"`
	Warehouse     string   `json:"warehouse"`
	FromWarehouse string   `json:"from_warehouse"`
	ToWarehouse   string   `json:"to_warehouse"`
	Supplier      string   `json:"supplier"`
	Quantity      *FlexInt `json:"quantity"`
	UnitPrice     Price    `json:"unit_price"`
	OrderID       *FlexInt `json:"order_id"`
	Status        string   `json:"status"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Manufacturer  string   `json:"manufacturer"`
	Address       string   `json:"address"`
	ContactName   string   `json:"contact_name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
}

// Proposal is the structured action produced by the command interpreter
// from raw text. It is adversarial input: the action tag may be unknown and
// any parameter may be missing or malformed.
type Proposal struct {
	Action  string `json:"action"`
	Params  Params `json:"params"`
	Message string `json:"message"`
}

// UnclearProposal builds the fallback proposal used when the interpreter
// output cannot be trusted at all.
func UnclearProposal(message string) *Proposal {
	return &Proposal{Action: string(ActionUnclear), Message: message}
}

// Price carries a raw price value as produced by the interpreter: a JSON
// number, or a string possibly decorated with a currency symbol.
type Price string

// UnmarshalJSON implements json.Unmarshaler
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	*p = Price(strings.Trim(string(data), `"`))
	return nil
}

// Decimal strips currency decoration and parses the remainder. It returns
// nil when no price was supplied and an error for garbage that looks like a
// price but does not parse.
func (p Price) Decimal() (*decimal.Decimal, error) {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return nil, nil
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',', r == '$', r == '€', r == '£', r == ' ':
			// currency decoration and thousands separators
		default:
			return nil, fmt.Errorf("invalid price %q", s)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil, fmt.Errorf("invalid price %q", s)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	return &d, nil
}

// quantityOf extracts a positive quantity, or 0 when absent
func quantityOf(p *Params) int {
	if p.Quantity == nil {
		return 0
	}
	return p.Quantity.Int()
}

// orderIDOf extracts an order id, or nil when absent or non-positive
func orderIDOf(p *Params) *uint {
	if p.OrderID == nil || p.OrderID.Int() <= 0 {
		return nil
	}
	id := uint(p.OrderID.Int())
	return &id
}

// ParseProposal decodes raw interpreter output into a proposal, falling
// back to an unclear proposal when the payload does not decode.
func ParseProposal(raw []byte) *Proposal {
	var proposal Proposal
	if err := json.Unmarshal(raw, &proposal); err != nil {
		return UnclearProposal("")
	}
	if strings.TrimSpace(proposal.Action) == "" {
		return UnclearProposal(proposal.Message)
	}
	proposal.Action = strings.ToUpper(strings.TrimSpace(proposal.Action))
	return &proposal
}
