package sqlite

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoplite/internal/domain/product"
)

const (
	insertProductSQL = `INSERT INTO products (title, price) VALUES (?, ?)`
	listProductsSQL  = `SELECT id, title, price FROM products ORDER BY id DESC`
	getProductSQL    = `SELECT id, title, price FROM products WHERE id = ?`
	deleteProductSQL = `DELETE FROM products WHERE id = ?`
)

// AddProduct inserts a product and returns the newly assigned id. The row is
// committed before the call returns.
func (s *Store) AddProduct(ctx context.Context, p *product.Product) (int64, error) {
	res, err := s.db.ExecContext(ctx, insertProductSQL, p.Title(), p.Price())
	if err != nil {
		return 0, accessErr("insert product", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, accessErr("insert product", err)
	}
	return id, nil
}

// ListProducts returns all products, most recently created first.
func (s *Store) ListProducts(ctx context.Context) ([]*product.Product, error) {
	rows, err := s.db.QueryContext(ctx, listProductsSQL)
	if err != nil {
		return nil, accessErr("list products", err)
	}
	defer rows.Close()

	var out []*product.Product
	for rows.Next() {
		var (
			id    int64
			title string
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &title, &price); err != nil {
			return nil, accessErr("scan product", err)
		}

		p, err := product.New(title, price)
		if err != nil {
			return nil, errors.Wrapf(err, "product %d", id)
		}
		p.ID = id
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("list products", err)
	}
	return out, nil
}

// GetProduct returns one product by id, or product.ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	var (
		rowID int64
		title string
		price decimal.Decimal
	)
	err := s.db.QueryRowContext(ctx, getProductSQL, id).Scan(&rowID, &title, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, accessErr("get product", err)
	}

	p, err := product.New(title, price)
	if err != nil {
		return nil, errors.Wrapf(err, "product %d", rowID)
	}
	p.ID = rowID
	return p, nil
}

// DeleteProduct removes a product. Existing order items keep their snapshot
// title and price; only the live reference dangles.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, deleteProductSQL, id); err != nil {
		return accessErr("delete product", err)
	}
	return nil
}
