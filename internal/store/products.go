package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stanislav-moro/e-shop/internal/models"
)

// GetCatalog returns every product with its current price. Products without
// an open price_history row are still listed, with an invalid CurrentPrice.
func (s *Store) GetCatalog() ([]models.Product, error) {
	query := `
		SELECT p.product_id, p.title, p.description, p.image_url, ph.price
		FROM products AS p
		LEFT JOIN price_history AS ph ON p.product_id = ph.product_id AND ph.end_date IS NULL
		ORDER BY p.product_id
	`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ProductID, &p.Title, &p.Description, &p.ImageURL, &p.CurrentPrice); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProductByID returns nil, nil for an unknown id.
func (s *Store) GetProductByID(id int) (*models.Product, error) {
	query := `
		SELECT p.product_id, p.title, p.description, p.image_url, ph.price
		FROM products AS p
		LEFT JOIN price_history AS ph ON p.product_id = ph.product_id AND ph.end_date IS NULL
		WHERE p.product_id = ?
	`
	var p models.Product
	if err := s.DB.QueryRow(query, id).Scan(&p.ProductID, &p.Title, &p.Description, &p.ImageURL, &p.CurrentPrice); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CurrentPrice looks up the product's open price_history row. ok is false
// when no such row exists; the caller treats the product as unpriced.
func (s *Store) CurrentPrice(productID int) (float64, bool, error) {
	var price float64
	err := s.DB.QueryRow(
		`SELECT price FROM price_history WHERE product_id = ? AND end_date IS NULL`,
		productID,
	).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

func (s *Store) CreateProduct(p *models.Product) error {
	res, err := s.DB.Exec(
		`INSERT INTO products (title, description, image_url) VALUES (?, ?, ?)`,
		p.Title, p.Description, p.ImageURL,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ProductID = int(id)
	return nil
}

// SetPrice closes the product's open price row (if any) and opens a new one,
// in a single transaction. The partial unique index on
// price_history(product_id) WHERE end_date IS NULL keeps the one-open-row
// invariant even if two writers race here.
func (s *Store) SetPrice(productID int, price float64, asOf time.Time) error {
	if price < 0 {
		return fmt.Errorf("price must be non-negative, got %v", price)
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	day := asOf.UTC().Format("2006-01-02")

	if _, err := tx.Exec(
		`UPDATE price_history SET end_date = ? WHERE product_id = ? AND end_date IS NULL`,
		day, productID,
	); err != nil {
		return fmt.Errorf("failed to close current price: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO price_history (product_id, price, start_date, end_date) VALUES (?, ?, ?, NULL)`,
		productID, price, day,
	); err != nil {
		return fmt.Errorf("failed to insert new price: %w", err)
	}

	return tx.Commit()
}
