package dump

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/storage/sqlite"
)

// Fixed header sets, one file per entity type.
var (
	customerHeader = []string{"id", "name", "email", "phone"}
	productHeader  = []string{"id", "title", "price"}
	orderHeader    = []string{"id", "customer_id", "customer_name", "created_at", "total"}
	itemHeader     = []string{"id", "order_id", "product_id", "product_title", "unit_price", "quantity", "line_total"}
)

// ExportCSV writes one CSV file per entity type into dir, creating it when
// missing. All rows are fetched first on the store's single connection; the
// four files are then written concurrently.
func ExportCSV(ctx context.Context, store *sqlite.Store, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create export dir")
	}

	customers, err := store.ListCustomers(ctx)
	if err != nil {
		return errors.Wrap(err, "export customers")
	}
	products, err := store.ListProducts(ctx)
	if err != nil {
		return errors.Wrap(err, "export products")
	}
	summaries, err := store.ListOrders(ctx)
	if err != nil {
		return errors.Wrap(err, "export orders")
	}

	var items []sqlite.ItemRow
	for _, sum := range summaries {
		rows, err := store.GetOrderItems(ctx, sum.ID)
		if err != nil {
			return errors.Wrapf(err, "export order %d items", sum.ID)
		}
		items = append(items, rows...)
	}

	customerRows := make([][]string, 0, len(customers))
	for _, c := range customers {
		customerRows = append(customerRows, []string{
			strconv.FormatInt(c.ID, 10), c.Name(), c.Email(), c.Phone(),
		})
	}

	productRows := make([][]string, 0, len(products))
	for _, p := range products {
		productRows = append(productRows, []string{
			strconv.FormatInt(p.ID, 10), p.Title(), p.Price().StringFixed(2),
		})
	}

	orderRows := make([][]string, 0, len(summaries))
	for _, sum := range summaries {
		orderRows = append(orderRows, []string{
			strconv.FormatInt(sum.ID, 10),
			strconv.FormatInt(sum.CustomerID, 10),
			sum.CustomerName,
			sum.CreatedAt.Format(order.TimeLayout),
			sum.Total.StringFixed(2),
		})
	}

	itemRows := make([][]string, 0, len(items))
	for _, row := range items {
		it := row.Item
		itemRows = append(itemRows, []string{
			strconv.FormatInt(it.ID, 10),
			strconv.FormatInt(row.OrderID, 10),
			strconv.FormatInt(it.ProductID(), 10),
			it.ProductTitle(),
			it.UnitPrice().StringFixed(2),
			strconv.Itoa(it.Quantity()),
			it.LineTotal().StringFixed(2),
		})
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return writeCSV(filepath.Join(dir, "customers.csv"), customerHeader, customerRows) })
	g.Go(func() error { return writeCSV(filepath.Join(dir, "products.csv"), productHeader, productRows) })
	g.Go(func() error { return writeCSV(filepath.Join(dir, "orders.csv"), orderHeader, orderRows) })
	g.Go(func() error { return writeCSV(filepath.Join(dir, "order_items.csv"), itemHeader, itemRows) })
	return g.Wait()
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := w.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "flush %s", path)
	}
	return f.Close()
}
