package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/domain/validate"
)

const (
	insertOrderSQL = `INSERT INTO orders (customer_id, created_at) VALUES (?, ?)`
	insertItemSQL  = `INSERT INTO order_items (order_id, product_id, product_title, unit_price, quantity)
		VALUES (?, ?, ?, ?, ?)`

	listOrdersSQL = `SELECT o.id, o.customer_id, c.name, o.created_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.id DESC`

	listLineAmountsSQL = `SELECT order_id, unit_price, quantity FROM order_items ORDER BY order_id, id`

	getOrderItemsSQL = `SELECT oi.id, oi.product_id, oi.product_title, oi.unit_price, oi.quantity, p.title
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.id`

	purchasesSQL = `SELECT c.name, oi.product_id
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN customers c ON c.id = o.customer_id
		ORDER BY oi.id`

	deleteOrderSQL = `DELETE FROM orders WHERE id = ?`
)

// OrderSummary is one row of the order list view. Total is computed from the
// stored line rows, not from an in-memory order.
type OrderSummary struct {
	ID           int64
	CustomerID   int64
	CustomerName string
	CreatedAt    time.Time
	Total        decimal.Decimal
}

// ItemRow is one order line as read back from the store: the stored snapshot
// plus the current title of the referenced product, resolved at read time.
// CurrentTitle falls back to the snapshot when the product row is gone.
type ItemRow struct {
	OrderID      int64
	Item         order.Item
	CurrentTitle string
}

// Purchase links a customer to one product they bought; one row per stored
// order item. It is the raw input of the relationship graph.
type Purchase struct {
	CustomerName string
	ProductID    int64
}

// AddOrder persists the order header and every item in insertion order as one
// transaction: afterwards either the whole order is visible or none of it.
// The referenced customer and every referenced product must exist.
func (s *Store) AddOrder(ctx context.Context, o *order.Order) (int64, error) {
	items := o.Items()
	if len(items) == 0 {
		return 0, &validate.Error{Field: "items", Reason: "order must contain at least one item"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, accessErr("insert order", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, "customers", o.CustomerID)
	if err != nil {
		return 0, accessErr("check customer", err)
	}
	if !found {
		return 0, &ReferentialIntegrityError{Entity: "customer", ID: o.CustomerID}
	}
	for _, it := range items {
		found, err := exists(ctx, tx, "products", it.ProductID())
		if err != nil {
			return 0, accessErr("check product", err)
		}
		if !found {
			return 0, &ReferentialIntegrityError{Entity: "product", ID: it.ProductID()}
		}
	}

	res, err := tx.ExecContext(ctx, insertOrderSQL, o.CustomerID, o.CreatedAt.Format(order.TimeLayout))
	if err != nil {
		return 0, accessErr("insert order", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, accessErr("insert order", err)
	}

	for _, it := range items {
		_, err := tx.ExecContext(ctx, insertItemSQL,
			orderID, it.ProductID(), it.ProductTitle(), it.UnitPrice(), it.Quantity(),
		)
		if err != nil {
			return 0, accessErr("insert order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, accessErr("insert order", err)
	}
	return orderID, nil
}

// ListOrders returns all orders with their customer's current name and the
// total computed from stored line rows, most recently created first. An order
// without items has a zero total.
func (s *Store) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	totals, err := s.lineTotals(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, listOrdersSQL)
	if err != nil {
		return nil, accessErr("list orders", err)
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var (
			sum     OrderSummary
			created string
		)
		if err := rows.Scan(&sum.ID, &sum.CustomerID, &sum.CustomerName, &created); err != nil {
			return nil, accessErr("scan order", err)
		}

		sum.CreatedAt, err = time.Parse(order.TimeLayout, created)
		if err != nil {
			return nil, errors.Wrapf(err, "order %d created_at", sum.ID)
		}
		sum.Total = totals[sum.ID].Round(2)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("list orders", err)
	}
	return out, nil
}

// lineTotals sums unit_price*quantity per order with decimal math.
func (s *Store) lineTotals(ctx context.Context) (map[int64]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, listLineAmountsSQL)
	if err != nil {
		return nil, accessErr("list order items", err)
	}
	defer rows.Close()

	totals := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var (
			orderID  int64
			price    decimal.Decimal
			quantity int
		)
		if err := rows.Scan(&orderID, &price, &quantity); err != nil {
			return nil, accessErr("scan order item", err)
		}
		line := price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
		totals[orderID] = totals[orderID].Add(line)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("list order items", err)
	}
	return totals, nil
}

// GetOrderItems returns the items of one order in insertion order, each
// annotated with the referenced product's current title.
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]ItemRow, error) {
	rows, err := s.db.QueryContext(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, accessErr("get order items", err)
	}
	defer rows.Close()

	var out []ItemRow
	for rows.Next() {
		var (
			id, productID int64
			title         string
			price         decimal.Decimal
			quantity      int
			liveTitle     sql.NullString
		)
		if err := rows.Scan(&id, &productID, &title, &price, &quantity, &liveTitle); err != nil {
			return nil, accessErr("scan order item", err)
		}

		it, err := order.NewItem(productID, title, price, quantity)
		if err != nil {
			return nil, errors.Wrapf(err, "order item %d", id)
		}
		it.ID = id

		row := ItemRow{OrderID: orderID, Item: it, CurrentTitle: title}
		if liveTitle.Valid {
			row.CurrentTitle = liveTitle.String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("get order items", err)
	}
	return out, nil
}

// Purchases returns every (customer name, product id) pair recorded by an
// order item, in item insertion order.
func (s *Store) Purchases(ctx context.Context) ([]Purchase, error) {
	rows, err := s.db.QueryContext(ctx, purchasesSQL)
	if err != nil {
		return nil, accessErr("list purchases", err)
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.CustomerName, &p.ProductID); err != nil {
			return nil, accessErr("scan purchase", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("list purchases", err)
	}
	return out, nil
}

// DeleteOrder removes an order and its items.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, deleteOrderSQL, id); err != nil {
		return accessErr("delete order", err)
	}
	return nil
}
