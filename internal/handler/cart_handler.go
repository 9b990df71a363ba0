package handler

import (
	"encoding/json"
	"net/http"

	"sumanshop/internal/cart"
	"sumanshop/internal/middleware"
	"sumanshop/internal/model"
	"sumanshop/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	carts    cart.Manager
	products service.ProductService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts cart.Manager, products service.ProductService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Handle dispatches /api/cart by method.
func (h *CartHandler) Handle(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		writeDomainError(w, model.ErrAuthenticationRequired, h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, sess)
	case http.MethodPost:
		h.add(w, r, sess)
	case http.MethodPut:
		h.update(w, r, sess)
	case http.MethodDelete:
		h.remove(w, r, sess)
	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	c, err := h.carts.Get(r.Context(), sess.UserID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	c, err := h.carts.AddLine(r.Context(), sess.UserID, product, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) update(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), sess.UserID, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		// No product given means clear the whole cart.
		if err := h.carts.Clear(r.Context(), sess.UserID); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, &model.Cart{UserID: sess.UserID})
		return
	}

	c, err := h.carts.RemoveLine(r.Context(), sess.UserID, productID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
