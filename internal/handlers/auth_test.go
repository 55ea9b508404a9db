package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registrationForm(overrides map[string]string) url.Values {
	form := url.Values{}
	form.Set("first_name", "Иван")
	form.Set("last_name", "Петров")
	form.Set("phone", "8 (926) 791-48-54")
	form.Set("email", "ivan@example.com")
	form.Set("password", "secret")
	for k, v := range overrides {
		form.Set(k, v)
	}
	return form
}

func postForm(t *testing.T, handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegistrationCollectsAllValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}

	rec := postForm(t, h.RegistrationPost, "/registration", registrationForm(map[string]string{
		"first_name": "ivan",            // lowercase Latin start
		"phone":      "8-926-791-48-54", // wrong separators
	}))

	require.Equal(t, http.StatusOK, rec.Code, "form redisplays instead of redirecting")
	body := rec.Body.String()
	assert.Contains(t, body, "First name must contain only Cyrillic letters")
	assert.Contains(t, body, "Phone must be in the format")

	// Nothing was created.
	got, err := env.Store.GetCustomerByEmail("ivan@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRegistrationRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(t, "taken@example.com", "pw")
	h := &AuthHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}

	rec := postForm(t, h.RegistrationPost, "/registration", registrationForm(map[string]string{
		"email": "taken@example.com",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A customer with this email already exists.")
}

func TestRegistrationSuccessRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}

	rec := postForm(t, h.RegistrationPost, "/registration", registrationForm(nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	got, err := env.Store.GetCustomerByEmail("ivan@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	creds, err := env.Store.GetCredentials(got.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "secret", creds.Password)
}

func TestLoginWrongPasswordRedirectsBack(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedCustomer(t, "login@example.com", "right")
	h := &AuthHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}

	form := url.Values{}
	form.Set("customer_id", strconv.Itoa(id))
	form.Set("password", "wrong")
	rec := postForm(t, h.LoginPost, "/login", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLoginSuccessSetsIdentity(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedCustomer(t, "login@example.com", "right")
	h := &AuthHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}

	form := url.Values{}
	form.Set("customer_id", strconv.Itoa(id))
	form.Set("password", "right")
	rec := postForm(t, h.LoginPost, "/login", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Result().Cookies(), "login sets the session cookie")
}

func TestProfileListsOrdersNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	customerID := env.seedCustomer(t, "profile@example.com", "pw")
	productID := env.seedProduct(t, "Kettle", 10.00)

	// Pre-existing order from yesterday, then a fresh one via checkout.
	_, err := env.Store.DB.Exec(
		`INSERT INTO orders (customer_id, order_date, total_price) VALUES (?, ?, ?)`,
		customerID, time.Now().UTC().Add(-24*time.Hour), 5.00,
	)
	require.NoError(t, err)
	require.NoError(t, env.Store.AddCartItem(customerID, productID))
	newID, err := env.Store.Checkout(customerID)
	require.NoError(t, err)

	h := &AuthHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	env.login(t, req, customerID)
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	newPos := strings.Index(body, "#"+strconv.Itoa(newID))
	oldPos := strings.Index(body, "5.00")
	require.GreaterOrEqual(t, newPos, 0)
	require.GreaterOrEqual(t, oldPos, 0)
	assert.Less(t, newPos, oldPos, "newest order renders first")
	assert.Contains(t, body, "Kettle", "order lines show their product titles")
}

func TestProfileRequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
