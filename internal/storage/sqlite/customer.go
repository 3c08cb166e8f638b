package sqlite

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/shoplite/internal/domain/customer"
)

const (
	insertCustomerSQL = `INSERT INTO customers (name, email, phone) VALUES (?, ?, ?)`
	listCustomersSQL  = `SELECT id, name, email, phone FROM customers ORDER BY id DESC`
	deleteCustomerSQL = `DELETE FROM customers WHERE id = ?`
)

// AddCustomer inserts a customer and returns the newly assigned id. The row
// is committed before the call returns.
func (s *Store) AddCustomer(ctx context.Context, c *customer.Customer) (int64, error) {
	res, err := s.db.ExecContext(ctx, insertCustomerSQL, c.Name(), c.Email(), c.Phone())
	if err != nil {
		return 0, accessErr("insert customer", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, accessErr("insert customer", err)
	}
	return id, nil
}

// ListCustomers returns all customers, most recently created first.
func (s *Store) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	rows, err := s.db.QueryContext(ctx, listCustomersSQL)
	if err != nil {
		return nil, accessErr("list customers", err)
	}
	defer rows.Close()

	var out []*customer.Customer
	for rows.Next() {
		var (
			id                 int64
			name, email, phone string
		)
		if err := rows.Scan(&id, &name, &email, &phone); err != nil {
			return nil, accessErr("scan customer", err)
		}

		c, err := customer.New(name, email, phone)
		if err != nil {
			return nil, errors.Wrapf(err, "customer %d", id)
		}
		c.ID = id
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("list customers", err)
	}
	return out, nil
}

// DeleteCustomer removes a customer; its orders and their items go with it.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, deleteCustomerSQL, id); err != nil {
		return accessErr("delete customer", err)
	}
	return nil
}
