// Package dump implements bulk interchange for the store: a self-contained
// JSON document that round-trips every entity, and a per-table CSV export.
package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoplite/internal/domain/customer"
	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/domain/product"
	"github.com/xenking/shoplite/internal/storage/sqlite"
)

// FormatError indicates an interchange document is malformed or fails domain
// validation. It is detected before any row is written.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "bad document: " + e.Reason
}

func formatErrf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// document mirrors the export layout for decoding. Entity fields arrive as
// raw values and are pushed through domain validation before any insert.
type document struct {
	Customers []customerDoc `json:"customers"`
	Products  []productDoc  `json:"products"`
	Orders    []orderDoc    `json:"orders"`
}

type customerDoc struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type productDoc struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

type orderDoc struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	CreatedAt  string    `json:"created_at"`
	Items      []itemDoc `json:"items"`
}

type itemDoc struct {
	ProductID    int64           `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
}

// ExportJSON writes the full store contents as one JSON document: every
// customer, product and order with its items and computed totals.
func ExportJSON(ctx context.Context, store *sqlite.Store, w io.Writer) error {
	customers, err := store.ListCustomers(ctx)
	if err != nil {
		return errors.Wrap(err, "export customers")
	}
	products, err := store.ListProducts(ctx)
	if err != nil {
		return errors.Wrap(err, "export products")
	}
	orders, err := exportOrders(ctx, store)
	if err != nil {
		return err
	}

	if customers == nil {
		customers = []*customer.Customer{}
	}
	if products == nil {
		products = []*product.Product{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(struct {
		Customers []*customer.Customer `json:"customers"`
		Products  []*product.Product   `json:"products"`
		Orders    []*order.Order       `json:"orders"`
	}{customers, products, orders}), "encode document")
}

// exportOrders reconstructs full order aggregates from the stored rows so the
// document carries items and computed totals.
func exportOrders(ctx context.Context, store *sqlite.Store) ([]*order.Order, error) {
	summaries, err := store.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "export orders")
	}

	orders := make([]*order.Order, 0, len(summaries))
	for _, sum := range summaries {
		o := order.New(sum.CustomerID, sum.CreatedAt)
		o.ID = sum.ID

		rows, err := store.GetOrderItems(ctx, sum.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "export order %d items", sum.ID)
		}
		for _, row := range rows {
			if err := o.AddItem(row.Item); err != nil {
				return nil, errors.Wrapf(err, "export order %d", sum.ID)
			}
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// ExportJSONFile writes the full dump to path, gzip-compressed when the path
// ends in .gz.
func ExportJSONFile(ctx context.Context, store *sqlite.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create export file")
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		zw := pgzip.NewWriter(f)
		defer zw.Close()
		w = zw
	}
	return ExportJSON(ctx, store, w)
}

// ImportJSON reads a document in the export format and inserts its entities.
// The whole document is validated before any insert; on a validation failure
// the store is untouched. Target identifiers are freshly assigned, so every
// cross-reference is rewritten through an old-to-new remap; referenced ids
// absent from the remap pass through unchanged. When clearFirst is set all
// four tables are emptied before the import begins.
func ImportJSON(ctx context.Context, store *sqlite.Store, r io.Reader, clearFirst bool) error {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return formatErrf("decode: %v", err)
	}

	if err := validateDocument(&doc); err != nil {
		return err
	}

	if clearFirst {
		if err := store.Clear(ctx); err != nil {
			return errors.Wrap(err, "clear store")
		}
	}

	custMap := make(map[int64]int64, len(doc.Customers))
	for _, c := range doc.Customers {
		ent, err := customer.New(c.Name, c.Email, c.Phone)
		if err != nil {
			return formatErrf("customer %d: %v", c.ID, err)
		}
		newID, err := store.AddCustomer(ctx, ent)
		if err != nil {
			return errors.Wrapf(err, "import customer %d", c.ID)
		}
		custMap[c.ID] = newID
	}

	prodMap := make(map[int64]int64, len(doc.Products))
	for _, p := range doc.Products {
		ent, err := product.New(p.Title, p.Price)
		if err != nil {
			return formatErrf("product %d: %v", p.ID, err)
		}
		newID, err := store.AddProduct(ctx, ent)
		if err != nil {
			return errors.Wrapf(err, "import product %d", p.ID)
		}
		prodMap[p.ID] = newID
	}

	for _, o := range doc.Orders {
		createdAt, err := time.Parse(order.TimeLayout, o.CreatedAt)
		if err != nil {
			return formatErrf("order %d: bad created_at %q", o.ID, o.CreatedAt)
		}

		ent := order.New(remap(custMap, o.CustomerID), createdAt)
		for _, it := range o.Items {
			item, err := order.NewItem(remap(prodMap, it.ProductID), it.ProductTitle, it.UnitPrice, it.Quantity)
			if err != nil {
				return formatErrf("order %d item: %v", o.ID, err)
			}
			if err := ent.AddItem(item); err != nil {
				return formatErrf("order %d item: %v", o.ID, err)
			}
		}
		if _, err := store.AddOrder(ctx, ent); err != nil {
			return errors.Wrapf(err, "import order %d", o.ID)
		}
	}

	return nil
}

// validateDocument pushes every entity through domain validation before the
// first insert, so a bad document cannot leave a partial import behind.
func validateDocument(doc *document) error {
	for _, c := range doc.Customers {
		if _, err := customer.New(c.Name, c.Email, c.Phone); err != nil {
			return formatErrf("customer %d: %v", c.ID, err)
		}
	}
	for _, p := range doc.Products {
		if _, err := product.New(p.Title, p.Price); err != nil {
			return formatErrf("product %d: %v", p.ID, err)
		}
	}
	for _, o := range doc.Orders {
		if _, err := time.Parse(order.TimeLayout, o.CreatedAt); err != nil {
			return formatErrf("order %d: bad created_at %q", o.ID, o.CreatedAt)
		}
		if len(o.Items) == 0 {
			return formatErrf("order %d: no items", o.ID)
		}
		for _, it := range o.Items {
			if _, err := order.NewItem(it.ProductID, it.ProductTitle, it.UnitPrice, it.Quantity); err != nil {
				return formatErrf("order %d item: %v", o.ID, err)
			}
		}
	}
	return nil
}

// remap translates a document identifier to its newly assigned one. Ids never
// seen in the document pass through unchanged: they are treated as already
// valid in the target store.
func remap(m map[int64]int64, id int64) int64 {
	if mapped, ok := m[id]; ok {
		return mapped
	}
	return id
}

// ImportJSONFile reads the full dump from path, gzip-decompressed when the
// path ends in .gz.
func ImportJSONFile(ctx context.Context, store *sqlite.Store, path string, clearFirst bool) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open import file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return formatErrf("gzip: %v", err)
		}
		defer zr.Close()
		r = zr
	}
	return ImportJSON(ctx, store, r, clearFirst)
}
