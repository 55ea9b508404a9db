package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stanislav-moro/e-shop/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(filepath.Join("..", "..", "migrations")))
	return s
}

func seedCustomer(t *testing.T, s *Store, email string) int {
	t.Helper()

	c := &models.Customer{
		FirstName: "Иван",
		LastName:  "Петров",
		Phone:     "8 (926) 791-48-54",
		Email:     email,
	}
	require.NoError(t, s.CreateCustomer(c, "secret"))
	return c.CustomerID
}

// seedProduct creates a product; priced controls whether it gets an open
// price_history row.
func seedProduct(t *testing.T, s *Store, title string, price float64, priced bool) int {
	t.Helper()

	p := &models.Product{Title: title, Description: "test product"}
	require.NoError(t, s.CreateProduct(p))
	if priced {
		require.NoError(t, s.SetPrice(p.ProductID, price, time.Now()))
	}
	return p.ProductID
}
