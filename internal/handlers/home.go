package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/stanislav-moro/e-shop/internal/store"
)

type HomeHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Index lists the catalog with each product's current price. Unpriced
// products are shown without one.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.GetCatalog()
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("home.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	_, loggedIn := currentCustomerID(session)
	data := map[string]interface{}{
		"Products":  products,
		"Flashes":   GetFlash(session),
		"LoggedIn":  loggedIn,
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w)
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to render template", "template", "home.html", "error", err)
	}
}

// ProductDetail renders one product with its current price; unknown ids get
// a 404.
func (h *HomeHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	product, err := h.Store.GetProductByID(id)
	if err != nil {
		slog.Error("Failed to fetch product", "product_id", id, "error", err)
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.NotFound(w, r)
		return
	}

	tmpl := h.Templates.Get("product.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	_, loggedIn := currentCustomerID(session)
	data := map[string]interface{}{
		"Product":   product,
		"Flashes":   GetFlash(session),
		"LoggedIn":  loggedIn,
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w)
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to render template", "template", "product.html", "error", err)
	}
}
