package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/stanislav-moro/e-shop/internal/store"
)

type CartHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// ViewCart lists the customer's cart rows with current prices and a total.
// Rows without a current price are listed but contribute nothing to the
// total.
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	customerID, ok := currentCustomerID(session)
	if !ok {
		session.AddFlash(FlashMessage{Type: "danger", Message: "Please log in to access your cart."})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	items, err := h.Store.CartItems(customerID)
	if err != nil {
		slog.Error("Failed to fetch cart", "customer_id", customerID, "error", err)
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}

	var total float64
	for _, it := range items {
		if it.Price.Valid {
			total += it.Price.Float64
		}
	}

	tmpl := h.Templates.Get("cart.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Items":     items,
		"Total":     total,
		"Flashes":   GetFlash(session),
		"LoggedIn":  true,
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w)
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to render template", "template", "cart.html", "error", err)
	}
}

// AddToCart adds the product to the cart and returns to the product page.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addToCart(w, r, func(productID int) string {
		return "/product/" + strconv.Itoa(productID)
	})
}

// AddToCartInline is the catalog-page variant of AddToCart: same logic,
// redirects back to the catalog instead of the product page.
func (h *CartHandler) AddToCartInline(w http.ResponseWriter, r *http.Request) {
	h.addToCart(w, r, func(int) string { return "/" })
}

func (h *CartHandler) addToCart(w http.ResponseWriter, r *http.Request, target func(productID int) string) {
	session, _ := h.SessionStore.Get(r, sessionName)

	customerID, ok := currentCustomerID(session)
	if !ok {
		session.AddFlash(FlashMessage{Type: "warning", Message: "Please log in to add products to your cart."})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	productID, err := strconv.Atoi(r.PathValue("product_id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch err := h.Store.AddCartItem(customerID, productID); {
	case errors.Is(err, store.ErrAlreadyInCart):
		session.AddFlash(FlashMessage{Type: "danger", Message: "This product is already in your cart. You cannot add it twice!"})
	case err != nil:
		slog.Error("Failed to add cart item", "customer_id", customerID, "product_id", productID, "error", err)
		session.AddFlash(FlashMessage{Type: "danger", Message: "Failed to add product to cart."})
	default:
		session.AddFlash(FlashMessage{Type: "success", Message: "Product added to cart!"})
	}

	session.Save(r, w)
	http.Redirect(w, r, target(productID), http.StatusSeeOther)
}

// RemoveFromCart deletes one cart row; removing an absent row just redirects
// like a successful one.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)

	customerID, ok := currentCustomerID(session)
	if !ok {
		session.AddFlash(FlashMessage{Type: "warning", Message: "Please log in to change your cart."})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	productID, err := strconv.Atoi(r.PathValue("product_id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.Store.RemoveCartItem(customerID, productID); err != nil {
		slog.Error("Failed to remove cart item", "customer_id", customerID, "product_id", productID, "error", err)
		session.AddFlash(FlashMessage{Type: "danger", Message: "Failed to remove product from cart."})
		session.Save(r, w)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product removed from cart!"})
	session.Save(r, w)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Checkout converts the cart into an order and redirects back to the cart
// page. Without a logged-in customer the whole sequence is skipped.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)

	customerID, ok := currentCustomerID(session)
	if !ok {
		session.AddFlash(FlashMessage{Type: "danger", Message: "Please log in to place an order."})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	orderID, err := h.Store.Checkout(customerID)
	if err != nil {
		slog.Error("Checkout failed", "customer_id", customerID, "error", err)
		session.AddFlash(FlashMessage{Type: "danger", Message: "Failed to place the order. Please try again."})
		session.Save(r, w)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	slog.Info("Order placed", "customer_id", customerID, "order_id", orderID)
	session.AddFlash(FlashMessage{Type: "success", Message: "Order placed! You can review it on your profile page."})
	session.Save(r, w)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
