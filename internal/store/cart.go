package store

import (
	"database/sql"
	"fmt"

	"github.com/stanislav-moro/e-shop/internal/models"
)

// AddCartItem inserts a cart row for the (customer, product) pair. The
// duplicate check runs before the insert so the caller gets ErrAlreadyInCart
// rather than a constraint violation; the composite primary key on cart is
// the backstop if two requests race past the check.
func (s *Store) AddCartItem(customerID, productID int) error {
	var exists int
	err := s.DB.QueryRow(
		`SELECT 1 FROM cart WHERE customer_id = ? AND product_id = ?`,
		customerID, productID,
	).Scan(&exists)
	if err == nil {
		return ErrAlreadyInCart
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = s.DB.Exec(
		`INSERT INTO cart (customer_id, product_id) VALUES (?, ?)`,
		customerID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// RemoveCartItem deletes the cart row if present; deleting an absent row is
// not an error.
func (s *Store) RemoveCartItem(customerID, productID int) error {
	_, err := s.DB.Exec(
		`DELETE FROM cart WHERE customer_id = ? AND product_id = ?`,
		customerID, productID,
	)
	return err
}

// CartItems returns every cart row for the customer joined with the product
// title and current price. The end_date condition lives in the JOIN so rows
// without a current price still come back, with an invalid Price.
func (s *Store) CartItems(customerID int) ([]models.CartItem, error) {
	query := `
		SELECT ct.customer_id, ct.product_id, p.title, ph.price
		FROM cart AS ct
		JOIN products AS p ON ct.product_id = p.product_id
		LEFT JOIN price_history AS ph ON p.product_id = ph.product_id AND ph.end_date IS NULL
		WHERE ct.customer_id = ?
		ORDER BY ct.product_id
	`
	rows, err := s.DB.Query(query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.CustomerID, &it.ProductID, &it.Title, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ClearCart deletes all cart rows for the customer. Checkout is the only
// caller.
func (s *Store) ClearCart(customerID int) error {
	_, err := s.DB.Exec(`DELETE FROM cart WHERE customer_id = ?`, customerID)
	return err
}
