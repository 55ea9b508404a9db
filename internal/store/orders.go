package store

import (
	"fmt"
	"time"

	"github.com/stanislav-moro/e-shop/internal/models"
)

// Checkout converts the customer's cart into an order inside one
// transaction: snapshot the cart with current prices, insert the order with
// the summed total, insert one order_product row per cart row (unit_price is
// NULL for unpriced products), then clear the cart. A failure at any step
// rolls the whole sequence back.
//
// An empty cart is not rejected: it produces an order with total 0 and no
// lines.
func (s *Store) Checkout(customerID int) (int, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// 1. Snapshot cart rows with each product's current price. Unpriced
	// products stay in the snapshot with a NULL price.
	rows, err := tx.Query(`
		SELECT ct.product_id, ph.price
		FROM cart AS ct
		JOIN products AS p ON ct.product_id = p.product_id
		LEFT JOIN price_history AS ph ON p.product_id = ph.product_id AND ph.end_date IS NULL
		WHERE ct.customer_id = ?
	`, customerID)
	if err != nil {
		return 0, fmt.Errorf("failed to read cart: %w", err)
	}

	var items []models.CartItem
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.ProductID, &it.Price); err != nil {
			rows.Close()
			return 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	// 2. Total over present prices only; a NULL price contributes zero.
	var total float64
	for _, it := range items {
		if it.Price.Valid {
			total += it.Price.Float64
		}
	}

	// 3. Order row.
	res, err := tx.Exec(
		`INSERT INTO orders (customer_id, order_date, total_price) VALUES (?, ?, ?)`,
		customerID, time.Now().UTC(), total,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	// 4. One line per snapshotted cart row, priced or not.
	for _, it := range items {
		if _, err := tx.Exec(
			`INSERT INTO order_product (order_id, product_id, unit_price) VALUES (?, ?, ?)`,
			orderID, it.ProductID, it.Price,
		); err != nil {
			return 0, fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	// 5. Cart clear.
	if _, err := tx.Exec(`DELETE FROM cart WHERE customer_id = ?`, customerID); err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(orderID), nil
}

// OrdersByCustomer lists the customer's orders newest first.
func (s *Store) OrdersByCustomer(customerID int) ([]models.Order, error) {
	rows, err := s.DB.Query(`
		SELECT order_id, customer_id, order_date, total_price
		FROM orders
		WHERE customer_id = ?
		ORDER BY order_date DESC, order_id DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.OrderDate, &o.TotalPrice); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// OrderLines returns the line items of one order with their product titles.
func (s *Store) OrderLines(orderID int) ([]models.OrderLine, error) {
	rows, err := s.DB.Query(`
		SELECT op.order_id, op.product_id, p.title, op.unit_price
		FROM order_product AS op
		JOIN products AS p ON op.product_id = p.product_id
		WHERE op.order_id = ?
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.Title, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
