package store

import (
	"database/sql"
	"fmt"

	"github.com/stanislav-moro/e-shop/internal/models"
)

// CreateCustomer inserts the customer and its credentials row in one
// transaction and fills in the generated customer id.
func (s *Store) CreateCustomer(c *models.Customer, password string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO customers (fname, sname, phone, email) VALUES (?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Phone, c.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO user_credentials (customer_id, password) VALUES (?, ?)`,
		id, password,
	); err != nil {
		return fmt.Errorf("failed to insert credentials: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	c.CustomerID = int(id)
	return nil
}

func (s *Store) GetCustomerByID(id int) (*models.Customer, error) {
	row := s.DB.QueryRow(
		`SELECT customer_id, fname, sname, phone, email FROM customers WHERE customer_id = ?`, id)

	var c models.Customer
	if err := row.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Phone, &c.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetCustomerByEmail(email string) (*models.Customer, error) {
	row := s.DB.QueryRow(
		`SELECT customer_id, fname, sname, phone, email FROM customers WHERE email = ?`, email)

	var c models.Customer
	if err := row.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Phone, &c.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetCredentials(customerID int) (*models.UserCredentials, error) {
	row := s.DB.QueryRow(
		`SELECT customer_id, password FROM user_credentials WHERE customer_id = ?`, customerID)

	var cr models.UserCredentials
	if err := row.Scan(&cr.CustomerID, &cr.Password); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &cr, nil
}
