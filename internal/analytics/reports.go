package analytics

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// Report file names inside the reports directory.
const (
	TopCustomersFile  = "top_customers.json"
	OrdersByDateFile  = "orders_by_date.json"
	CustomerGraphFile = "customer_graph.json"
)

// topN is how many customers the ranking report keeps.
const topN = 5

// WriteReports computes all three summaries and writes each as a JSON
// document into dir, creating it when missing. Empty summaries produce
// documents with empty collections, not errors.
func (a *Analyzer) WriteReports(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create reports dir")
	}

	top, err := a.TopCustomers(ctx, topN)
	if err != nil {
		return err
	}
	if top == nil {
		top = []CustomerOrders{}
	}
	if err := writeReport(filepath.Join(dir, TopCustomersFile), top); err != nil {
		return err
	}

	series, err := a.OrdersByDate(ctx)
	if err != nil {
		return err
	}
	if series == nil {
		series = []DateCount{}
	}
	if err := writeReport(filepath.Join(dir, OrdersByDateFile), series); err != nil {
		return err
	}

	graph, err := a.RelationshipGraph(ctx)
	if err != nil {
		return err
	}
	return writeReport(filepath.Join(dir, CustomerGraphFile), graph)
}

func writeReport(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}
