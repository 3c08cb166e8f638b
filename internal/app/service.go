// Package app wires the store, analytics and interchange packages into the
// operation surface consumed by the presentation layer. It performs no
// validation or aggregation of its own; it routes calls, attaches logging,
// and returns typed errors untouched.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/shoplite/internal/analytics"
	"github.com/xenking/shoplite/internal/domain/customer"
	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/domain/product"
	"github.com/xenking/shoplite/internal/domain/validate"
	"github.com/xenking/shoplite/internal/dump"
	"github.com/xenking/shoplite/internal/storage/sqlite"
	"github.com/xenking/shoplite/pkg/sortutil"
)

// Service exposes every core operation to the presentation layer.
type Service struct {
	store    *sqlite.Store
	analyzer *analytics.Analyzer
	lg       *zap.Logger
}

// NewService builds a Service over an open store.
func NewService(store *sqlite.Store, lg *zap.Logger) *Service {
	return &Service{
		store:    store,
		analyzer: analytics.New(store),
		lg:       lg,
	}
}

// op returns a logger annotated with the operation name and a fresh
// correlation id.
func (s *Service) op(name string) *zap.Logger {
	return s.lg.With(zap.String("op", name), zap.String("op_id", uuid.New().String()))
}

// CreateCustomer validates and persists a new customer.
func (s *Service) CreateCustomer(ctx context.Context, name, email, phone string) (*customer.Customer, error) {
	lg := s.op("create-customer")

	c, err := customer.New(name, email, phone)
	if err != nil {
		return nil, err
	}
	id, err := s.store.AddCustomer(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	lg.Info("Customer created", zap.Int64("id", id))
	return c, nil
}

// CreateProduct validates and persists a new product.
func (s *Service) CreateProduct(ctx context.Context, title string, price decimal.Decimal) (*product.Product, error) {
	lg := s.op("create-product")

	p, err := product.New(title, price)
	if err != nil {
		return nil, err
	}
	id, err := s.store.AddProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	lg.Info("Product created", zap.Int64("id", id))
	return p, nil
}

// OrderLine is one requested line of a new order: which product and how many.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// CreateOrder builds an order for the customer with the current title and
// price of each product captured as snapshots, then persists header and items
// atomically.
func (s *Service) CreateOrder(ctx context.Context, customerID int64, lines []OrderLine) (*order.Order, error) {
	lg := s.op("create-order")

	o := order.New(customerID, time.Now())
	for _, line := range lines {
		p, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(p.ID, p.Title(), p.Price(), line.Quantity)
		if err != nil {
			return nil, err
		}
		if err := o.AddItem(item); err != nil {
			return nil, err
		}
	}

	id, err := s.store.AddOrder(ctx, o)
	if err != nil {
		return nil, err
	}
	o.ID = id

	lg.Info("Order created",
		zap.Int64("id", id),
		zap.Int64("customer_id", customerID),
		zap.Int("items", len(lines)),
		zap.String("total", o.Total().StringFixed(2)),
	)
	return o, nil
}

// ListCustomers returns all customers, optionally filtered by a
// case-insensitive name substring.
func (s *Service) ListCustomers(ctx context.Context, nameFilter string) ([]*customer.Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	if nameFilter == "" {
		return customers, nil
	}

	needle := strings.ToLower(nameFilter)
	out := customers[:0:0]
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name()), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListProducts returns all products, newest first.
func (s *Service) ListProducts(ctx context.Context) ([]*product.Product, error) {
	return s.store.ListProducts(ctx)
}

// Sort keys accepted by ListOrders.
const (
	SortByID        = "id"
	SortByCreatedAt = "created_at"
	SortByTotal     = "total"
)

// ListOrders returns order summaries, newest first by default. A sort key
// re-orders them through the merge sort; desc flips the direction.
func (s *Service) ListOrders(ctx context.Context, sortKey string, desc bool) ([]sqlite.OrderSummary, error) {
	summaries, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	switch sortKey {
	case "":
		return summaries, nil
	case SortByID:
		return sortutil.Sort(summaries, func(o sqlite.OrderSummary) int64 { return o.ID }, desc), nil
	case SortByCreatedAt:
		return sortutil.Sort(summaries, func(o sqlite.OrderSummary) int64 { return o.CreatedAt.Unix() }, desc), nil
	case SortByTotal:
		return sortutil.Sort(summaries, func(o sqlite.OrderSummary) float64 { return o.Total.InexactFloat64() }, desc), nil
	default:
		return nil, &validate.Error{Field: "sort", Reason: "unknown key " + sortKey}
	}
}

// GetOrderItems returns the items of one order with live product titles
// resolved.
func (s *Service) GetOrderItems(ctx context.Context, orderID int64) ([]sqlite.ItemRow, error) {
	return s.store.GetOrderItems(ctx, orderID)
}

// DeleteCustomer removes a customer with its orders and items.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.op("delete-customer").Info("Customer deleted", zap.Int64("id", id))
	return nil
}

// DeleteOrder removes an order with its items.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.op("delete-order").Info("Order deleted", zap.Int64("id", id))
	return nil
}

// DeleteProduct removes a product; sold items keep their snapshots.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.op("delete-product").Info("Product deleted", zap.Int64("id", id))
	return nil
}

// GenerateReports writes the three analytics reports into dir.
func (s *Service) GenerateReports(ctx context.Context, dir string) error {
	lg := s.op("reports")
	if err := s.analyzer.WriteReports(ctx, dir); err != nil {
		return err
	}
	lg.Info("Reports written", zap.String("dir", dir))
	return nil
}

// ExportFull writes the complete JSON dump to path (.gz compresses).
func (s *Service) ExportFull(ctx context.Context, path string) error {
	lg := s.op("export-full")
	if err := dump.ExportJSONFile(ctx, s.store, path); err != nil {
		return err
	}
	lg.Info("Export written", zap.String("path", path))
	return nil
}

// ImportFull loads a JSON dump from path, optionally clearing the store
// first.
func (s *Service) ImportFull(ctx context.Context, path string, clearFirst bool) error {
	lg := s.op("import-full")
	if err := dump.ImportJSONFile(ctx, s.store, path, clearFirst); err != nil {
		return err
	}
	lg.Info("Import applied", zap.String("path", path), zap.Bool("cleared", clearFirst))
	return nil
}

// ExportTabular writes the per-table CSV dump into dir.
func (s *Service) ExportTabular(ctx context.Context, dir string) error {
	lg := s.op("export-tabular")
	if err := dump.ExportCSV(ctx, s.store, dir); err != nil {
		return err
	}
	lg.Info("CSV export written", zap.String("dir", dir))
	return nil
}
