package handlers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/stanislav-moro/e-shop/internal/models"
	"github.com/stanislav-moro/e-shop/internal/store"
)

type AuthHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Registration rules carried over from the shop's Russian-market form:
// names are a capital Cyrillic letter followed by lowercase Cyrillic
// letters, phones match "8 (926) 791-48-54" exactly.
var (
	nameRegex  = regexp.MustCompile(`^[А-ЯЁ][а-яё]*$`)
	phoneRegex = regexp.MustCompile(`^8 \(\d{3}\) \d{3}-\d{2}-\d{2}$`)
)

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to render template", "template", "login.html", "error", err)
	}
}

// LoginPost matches the submitted customer id and password against the
// stored credentials. Any mismatch gets the same generic message.
func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)

	failLogin := func() {
		session.AddFlash(FlashMessage{Type: "danger", Message: "Invalid customer ID or password"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}

	customerID, err := strconv.Atoi(r.FormValue("customer_id"))
	if err != nil {
		failLogin()
		return
	}
	password := r.FormValue("password")

	customer, err := h.Store.GetCustomerByID(customerID)
	if err != nil {
		slog.Error("Failed to look up customer", "customer_id", customerID, "error", err)
		failLogin()
		return
	}
	if customer == nil {
		failLogin()
		return
	}

	creds, err := h.Store.GetCredentials(customerID)
	if err != nil {
		slog.Error("Failed to look up credentials", "customer_id", customerID, "error", err)
		failLogin()
		return
	}
	// Plain-text comparison; hashing is out of scope for this shop.
	if creds == nil || creds.Password != password {
		failLogin()
		return
	}

	session.Values["user_id"] = customer.CustomerID
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome back, " + customer.FirstName + "!"})

	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	delete(session.Values, "user_id")
	session.AddFlash(FlashMessage{Type: "success", Message: "You have been logged out."})
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) RegistrationGet(w http.ResponseWriter, r *http.Request) {
	h.renderRegistration(w, r, nil, nil)
}

// RegistrationPost validates every field, reports all failures in one pass,
// and on success creates the customer and credentials in one transaction.
func (h *AuthHandler) RegistrationPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")
	phone := r.FormValue("phone")
	email := r.FormValue("email")
	password := r.FormValue("password")

	var errs []string
	if !nameRegex.MatchString(firstName) {
		errs = append(errs, "First name must contain only Cyrillic letters and start with a capital letter.")
	}
	if !nameRegex.MatchString(lastName) {
		errs = append(errs, "Last name must contain only Cyrillic letters and start with a capital letter.")
	}
	if !phoneRegex.MatchString(phone) {
		errs = append(errs, "Phone must be in the format 8 (926) 791-48-54.")
	}
	existing, err := h.Store.GetCustomerByEmail(email)
	if err != nil {
		slog.Error("Failed to check email uniqueness", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		errs = append(errs, "A customer with this email already exists.")
	}

	values := map[string]string{
		"FirstName": firstName,
		"LastName":  lastName,
		"Phone":     phone,
		"Email":     email,
	}

	if len(errs) > 0 {
		h.renderRegistration(w, r, errs, values)
		return
	}

	customer := &models.Customer{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Email:     email,
	}
	if err := h.Store.CreateCustomer(customer, password); err != nil {
		slog.Error("Failed to create customer", "error", err)
		h.renderRegistration(w, r, []string{"Registration failed. Please try again."}, values)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	session.AddFlash(FlashMessage{
		Type:    "success",
		Message: "Registration successful! Your customer ID is " + strconv.Itoa(customer.CustomerID) + ". You can now log in.",
	})
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderRegistration(w http.ResponseWriter, r *http.Request, errs []string, values map[string]string) {
	tmpl := h.Templates.Get("registration.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
		"Errors":    errs,
		"Values":    values,
	}
	session.Save(r, w)
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to render template", "template", "registration.html", "error", err)
	}
}

// Profile lists the customer's orders, newest first.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	customerID, ok := currentCustomerID(session)
	if !ok {
		session.AddFlash(FlashMessage{Type: "warning", Message: "Please log in first."})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	customer, err := h.Store.GetCustomerByID(customerID)
	if err != nil || customer == nil {
		slog.Error("Failed to load profile", "customer_id", customerID, "error", err)
		http.Error(w, "Error fetching profile", http.StatusInternalServerError)
		return
	}

	orders, err := h.Store.OrdersByCustomer(customerID)
	if err != nil {
		slog.Error("Failed to load orders", "customer_id", customerID, "error", err)
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	lines := make(map[int][]models.OrderLine, len(orders))
	for _, o := range orders {
		ls, err := h.Store.OrderLines(o.OrderID)
		if err != nil {
			slog.Error("Failed to load order lines", "order_id", o.OrderID, "error", err)
			http.Error(w, "Error fetching orders", http.StatusInternalServerError)
			return
		}
		lines[o.OrderID] = ls
	}

	tmpl := h.Templates.Get("profile.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"Customer": customer,
		"Orders":   orders,
		"Lines":    lines,
		"Flashes":  GetFlash(session),
		"LoggedIn": true,
	}
	session.Save(r, w)
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to render template", "template", "profile.html", "error", err)
	}
}
