package handlers

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanislav-moro/e-shop/internal/models"
)

func TestIndexListsProductsWithAndWithoutPrices(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "Kettle", 49.90)
	unpriced := &models.Product{Title: "Mystery box"}
	require.NoError(t, env.Store.CreateProduct(unpriced))

	h := &HomeHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Index(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Kettle")
	assert.Contains(t, body, "49.90")
	assert.Contains(t, body, "Mystery box")
	assert.Contains(t, body, "Price unavailable")
}

func TestProductDetailNotFound(t *testing.T) {
	env := newTestEnv(t)
	h := &HomeHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}

	req := httptest.NewRequest(http.MethodGet, "/product/777", nil)
	req.SetPathValue("id", "777")
	rec := httptest.NewRecorder()
	h.ProductDetail(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDetail(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedProduct(t, "Kettle", 49.90)
	h := &HomeHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}

	req := httptest.NewRequest(http.MethodGet, "/product/"+strconv.Itoa(id), nil)
	req.SetPathValue("id", strconv.Itoa(id))
	rec := httptest.NewRecorder()
	h.ProductDetail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kettle")
	assert.Contains(t, rec.Body.String(), "49.90")
}

func TestIndexLogsTemplateExecuteFailure(t *testing.T) {
	env := newTestEnv(t)

	broken, err := template.New("home.html").Parse(`{{.Products.Bogus}}`)
	require.NoError(t, err)
	env.Templates.cache["home.html"] = broken

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := &HomeHandler{Store: env.Store, Templates: env.Templates, SessionStore: env.SessionStore}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Index(rec, req)

	assert.Contains(t, buf.String(), "Failed to render template")
	assert.Contains(t, buf.String(), "home.html")
}
