// Package product defines the catalog product entity.
package product

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoplite/internal/domain/validate"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a validated catalog item. The price is stored rounded to two
// decimal places and is never negative. ID is zero until the store assigns
// one.
type Product struct {
	ID int64

	title string
	price decimal.Decimal
}

// New validates the given fields and returns a product with no assigned ID.
func New(title string, price decimal.Decimal) (*Product, error) {
	p := &Product{}
	if err := p.SetTitle(title); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	return p, nil
}

// Title returns the product title.
func (p *Product) Title() string { return p.title }

// Price returns the product price, rounded to 2 decimal places.
func (p *Product) Price() decimal.Decimal { return p.price }

// SetTitle replaces the title, rejecting empty values in place.
func (p *Product) SetTitle(v string) error {
	title, err := validate.Title(v)
	if err != nil {
		return err
	}
	p.title = title
	return nil
}

// SetPrice replaces the price, rejecting negative values in place.
func (p *Product) SetPrice(v decimal.Decimal) error {
	price, err := validate.Price(v)
	if err != nil {
		return err
	}
	p.price = price
	return nil
}

// MarshalJSON serializes the product with its full field set.
func (p *Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    int64           `json:"id"`
		Title string          `json:"title"`
		Price decimal.Decimal `json:"price"`
	}{p.ID, p.title, p.price})
}
