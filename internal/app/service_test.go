package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/shoplite/internal/domain/product"
	"github.com/xenking/shoplite/internal/domain/validate"
	"github.com/xenking/shoplite/internal/storage/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store, zap.NewNop())
}

func TestEndToEnd_SingleItemOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)

	kb, err := svc.CreateProduct(ctx, "Keyboard", decimal.RequireFromString("50.00"))
	require.NoError(t, err)

	o, err := svc.CreateOrder(ctx, alice.ID, []OrderLine{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	summaries, err := svc.ListOrders(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Alice", summaries[0].CustomerName)
	assert.Equal(t, "50.00", summaries[0].Total.StringFixed(2))

	items, err := svc.GetOrderItems(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Keyboard", items[0].CurrentTitle)
	assert.Equal(t, "50.00", items[0].Item.LineTotal().StringFixed(2))
}

func TestCreateOrder_SnapshotsCurrentPrice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	kb, err := svc.CreateProduct(ctx, "Keyboard", decimal.RequireFromString("50.00"))
	require.NoError(t, err)

	o, err := svc.CreateOrder(ctx, alice.ID, []OrderLine{{ProductID: kb.ID, Quantity: 2}})
	require.NoError(t, err)

	items := o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Keyboard", items[0].ProductTitle())
	assert.Equal(t, "100.00", items[0].LineTotal().StringFixed(2))
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, alice.ID, []OrderLine{{ProductID: 99, Quantity: 1}})
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestListCustomers_NameFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Alicia", "Bob"} {
		_, err := svc.CreateCustomer(ctx, name, "", "")
		require.NoError(t, err)
	}

	got, err := svc.ListCustomers(ctx, "ali")
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = svc.ListCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestListOrders_SortByTotal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	cheap, err := svc.CreateProduct(ctx, "Cheap", decimal.RequireFromString("1.00"))
	require.NoError(t, err)
	dear, err := svc.CreateProduct(ctx, "Dear", decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, alice.ID, []OrderLine{{ProductID: dear.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, alice.ID, []OrderLine{{ProductID: cheap.ID, Quantity: 1}})
	require.NoError(t, err)

	asc, err := svc.ListOrders(ctx, SortByTotal, false)
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.True(t, asc[0].Total.LessThan(asc[1].Total))

	desc, err := svc.ListOrders(ctx, SortByTotal, true)
	require.NoError(t, err)
	assert.True(t, desc[0].Total.GreaterThan(desc[1].Total))
}

func TestListOrders_UnknownSortKey(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ListOrders(context.Background(), "nope", false)
	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
}

func TestGenerateReports(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	kb, err := svc.CreateProduct(ctx, "Keyboard", decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, alice.ID, []OrderLine{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, svc.GenerateReports(ctx, dir))

	for _, name := range []string{"top_customers.json", "orders_by_date.json", "customer_graph.json"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestExportImport_ThroughService(t *testing.T) {
	src := newTestService(t)
	ctx := context.Background()

	alice, err := src.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	kb, err := src.CreateProduct(ctx, "Keyboard", decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	_, err = src.CreateOrder(ctx, alice.ID, []OrderLine{{ProductID: kb.ID, Quantity: 1}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, src.ExportFull(ctx, path))

	dst := newTestService(t)
	require.NoError(t, dst.ImportFull(ctx, path, false))

	summaries, err := dst.ListOrders(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "50.00", summaries[0].Total.StringFixed(2))
}
