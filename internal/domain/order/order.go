// Package order defines the order aggregate: an order header plus its ordered
// line items. Items capture product title and unit price as snapshots at time
// of sale; later product changes never affect them.
package order

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/shoplite/internal/domain/validate"
)

// TimeLayout is the second-precision ISO-8601 layout used for order
// timestamps in storage and interchange documents.
const TimeLayout = "2006-01-02T15:04:05"

// Item is one line of an order. Its snapshot fields are fixed at
// construction; only the store assigns ID.
type Item struct {
	ID int64

	productID    int64
	productTitle string
	unitPrice    decimal.Decimal
	quantity     int
}

// NewItem builds a line item, validating quantity and rounding the unit
// price snapshot to 2 decimal places.
func NewItem(productID int64, productTitle string, unitPrice decimal.Decimal, quantity int) (Item, error) {
	qty, err := validate.Quantity(quantity)
	if err != nil {
		return Item{}, err
	}
	return Item{
		productID:    productID,
		productTitle: productTitle,
		unitPrice:    unitPrice.Round(2),
		quantity:     qty,
	}, nil
}

// ProductID returns the referenced product identifier.
func (i Item) ProductID() int64 { return i.productID }

// ProductTitle returns the product title captured at time of sale.
func (i Item) ProductTitle() string { return i.productTitle }

// UnitPrice returns the unit price captured at time of sale.
func (i Item) UnitPrice() decimal.Decimal { return i.unitPrice }

// Quantity returns the ordered quantity, always at least 1.
func (i Item) Quantity() int { return i.quantity }

// LineTotal returns unit price times quantity, rounded to 2 decimal places.
func (i Item) LineTotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity))).Round(2)
}

// MarshalJSON serializes the item with its full field set including the
// derived line total.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           int64           `json:"id"`
		ProductID    int64           `json:"product_id"`
		ProductTitle string          `json:"product_title"`
		UnitPrice    decimal.Decimal `json:"unit_price"`
		Quantity     int             `json:"quantity"`
		LineTotal    decimal.Decimal `json:"line_total"`
	}{i.ID, i.productID, i.productTitle, i.unitPrice, i.quantity, i.LineTotal()})
}

// Order is a customer order under construction or loaded from the store.
// Items keep insertion order; AddItem is the only attach path.
type Order struct {
	ID         int64
	CustomerID int64
	CreatedAt  time.Time

	items []Item
}

// New returns an empty order for the given customer, stamped at the given
// creation time truncated to second precision.
func New(customerID int64, createdAt time.Time) *Order {
	return &Order{
		CustomerID: customerID,
		CreatedAt:  createdAt.Truncate(time.Second),
	}
}

// AddItem appends an item, re-checking the quantity invariant. The item's
// snapshot fields are never modified after it is appended; a rejected item
// leaves the order unchanged.
func (o *Order) AddItem(item Item) error {
	if _, err := validate.Quantity(item.quantity); err != nil {
		return err
	}
	o.items = append(o.items, item)
	return nil
}

// Items returns the line items in insertion order.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Total returns the sum of all line totals, rounded to 2 decimal places.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.items {
		total = total.Add(it.LineTotal())
	}
	return total.Round(2)
}

// MarshalJSON serializes the order with its full field set including the
// derived total and every item.
func (o *Order) MarshalJSON() ([]byte, error) {
	items := o.items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(struct {
		ID         int64           `json:"id"`
		CustomerID int64           `json:"customer_id"`
		CreatedAt  string          `json:"created_at"`
		Total      decimal.Decimal `json:"total"`
		Items      []Item          `json:"items"`
	}{o.ID, o.CustomerID, o.CreatedAt.Format(TimeLayout), o.Total(), items})
}
