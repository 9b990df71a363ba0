package router

import (
	"net/http"
	"strings"

	"sumanshop/internal/handler"
	"sumanshop/internal/middleware"
	"sumanshop/internal/session"

	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	sessions session.Store,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific product ID
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart routes dispatch by method inside the handler
	mux.HandleFunc("/api/cart", cartHandler.Handle)
	mux.HandleFunc("/api/cart/", cartHandler.Handle)

	// Checkout
	mux.HandleFunc("/api/checkout", checkoutHandler.Submit)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			orderHandler.List(w, r)
			return
		}

		// Check if this is a request for a specific order ID
		if strings.HasPrefix(r.URL.Path, "/api/orders/") {
			orderHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Admin routes sit behind the admin guard
	adminMux := http.NewServeMux()
	adminRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/admin/orders" || r.URL.Path == "/api/admin/orders/" {
			orderHandler.AdminList(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/admin/orders/") {
			orderHandler.AdminUpdateStatus(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	adminMux.HandleFunc("/api/admin/orders", adminRouteHandler)
	adminMux.HandleFunc("/api/admin/orders/", adminRouteHandler)
	mux.Handle("/api/admin/", middleware.RequireAdmin(logger)(adminMux))

	// Apply middleware in order: Recovery -> Logging -> CORS -> SessionAuth
	var h http.Handler = mux
	h = middleware.SessionAuth(sessions, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
