// Package analytics computes derived, read-only summaries over the store:
// top customers by order count, an order-volume time series, and the customer
// relationship graph built from shared purchases. It never mutates state, and
// every result has a deterministic order.
package analytics

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/shoplite/internal/storage/sqlite"
	"github.com/xenking/shoplite/pkg/sortutil"
)

// Source is the slice of the store's query surface the analyzer reads.
type Source interface {
	ListOrders(ctx context.Context) ([]sqlite.OrderSummary, error)
	Purchases(ctx context.Context) ([]sqlite.Purchase, error)
}

// Analyzer computes summaries from a Source. All methods return empty results
// for an empty store; rendering a "no data" condition is the caller's job.
type Analyzer struct {
	src Source
}

// New returns an Analyzer reading from src.
func New(src Source) *Analyzer {
	return &Analyzer{src: src}
}

// CustomerOrders is one row of the top-customers ranking.
type CustomerOrders struct {
	Name   string `json:"name"`
	Orders int    `json:"orders"`
}

// TopCustomers ranks customers by order count, descending, keeping the top n.
// Customers with equal counts are ordered by name ascending.
func (a *Analyzer) TopCustomers(ctx context.Context, n int) ([]CustomerOrders, error) {
	summaries, err := a.src.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	counts := make(map[string]int)
	for _, sum := range summaries {
		counts[sum.CustomerName]++
	}

	rows := make([]CustomerOrders, 0, len(counts))
	for name, c := range counts {
		rows = append(rows, CustomerOrders{Name: name, Orders: c})
	}

	// Stable sort: order by name first, then by count, so equal counts stay
	// alphabetical.
	rows = sortutil.Sort(rows, func(r CustomerOrders) string { return r.Name }, false)
	rows = sortutil.Sort(rows, func(r CustomerOrders) int { return r.Orders }, true)

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// DateCount is one bucket of the order-volume time series.
type DateCount struct {
	Date   string `json:"date"` // calendar date, YYYY-MM-DD
	Orders int    `json:"orders"`
}

// OrdersByDate buckets orders by calendar date and returns the buckets in
// ascending date order.
func (a *Analyzer) OrdersByDate(ctx context.Context) ([]DateCount, error) {
	summaries, err := a.src.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	counts := make(map[string]int)
	for _, sum := range summaries {
		counts[sum.CreatedAt.Format("2006-01-02")]++
	}

	rows := make([]DateCount, 0, len(counts))
	for date, c := range counts {
		rows = append(rows, DateCount{Date: date, Orders: c})
	}
	return sortutil.Sort(rows, func(r DateCount) string { return r.Date }, false), nil
}

// Edge connects two customers who bought at least one common product. A is
// always lexicographically before B; Weight is the number of distinct shared
// products.
type Edge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// Graph is the customer relationship graph: every customer with at least one
// order is a node, customers sharing purchased products are connected.
// Customers with nothing in common stay isolated nodes.
type Graph struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// RelationshipGraph builds the undirected weighted graph of customers
// connected by common purchases. Every unordered pair of customers is
// compared (the one quadratic pass in the system); an edge appears only when
// the intersection of their product sets is non-empty. Nodes and edges are
// sorted so the same data always yields the same graph.
func (a *Analyzer) RelationshipGraph(ctx context.Context) (*Graph, error) {
	purchases, err := a.src.Purchases(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list purchases")
	}

	productSets := make(map[string]map[int64]struct{})
	for _, p := range purchases {
		set, ok := productSets[p.CustomerName]
		if !ok {
			set = make(map[int64]struct{})
			productSets[p.CustomerName] = set
		}
		set[p.ProductID] = struct{}{}
	}

	nodes := make([]string, 0, len(productSets))
	for name := range productSets {
		nodes = append(nodes, name)
	}
	nodes = sortutil.Sort(nodes, func(s string) string { return s }, false)

	graph := &Graph{Nodes: nodes, Edges: []Edge{}}
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			weight := intersectionSize(productSets[nodes[i]], productSets[nodes[j]])
			if weight > 0 {
				graph.Edges = append(graph.Edges, Edge{A: nodes[i], B: nodes[j], Weight: weight})
			}
		}
	}
	return graph, nil
}

func intersectionSize(a, b map[int64]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if _, ok := b[id]; ok {
			n++
		}
	}
	return n
}
