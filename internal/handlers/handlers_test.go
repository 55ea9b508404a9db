package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/stanislav-moro/e-shop/internal/models"
	"github.com/stanislav-moro/e-shop/internal/store"
)

type testEnv struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(filepath.Join("..", "..", "migrations")))

	templates := NewTemplateCache()
	require.NoError(t, templates.Load(filepath.Join("..", "..", "templates")))

	return &testEnv{
		Store:        s,
		Templates:    templates,
		SessionStore: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
	}
}

func (e *testEnv) seedCustomer(t *testing.T, email, password string) int {
	t.Helper()

	c := &models.Customer{
		FirstName: "Иван",
		LastName:  "Петров",
		Phone:     "8 (926) 791-48-54",
		Email:     email,
	}
	require.NoError(t, e.Store.CreateCustomer(c, password))
	return c.CustomerID
}

// login builds a session cookie for the customer and attaches it to the
// request, the way a browser would after LoginPost.
func (e *testEnv) login(t *testing.T, r *http.Request, customerID int) {
	t.Helper()

	rec := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	session, err := e.SessionStore.Get(seed, sessionName)
	require.NoError(t, err)
	session.Values["user_id"] = customerID
	require.NoError(t, session.Save(seed, rec))

	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
}
