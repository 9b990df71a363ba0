package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"sumanshop/internal/middleware"
	"sumanshop/internal/model"
	"sumanshop/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order tracking and the admin status workflow.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders. With ?scope=local it returns the
// provisional local-fallback orders instead of the authoritative ones.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	sess := middleware.SessionFrom(r.Context())

	var (
		orders []model.Order
		err    error
	)
	if r.URL.Query().Get("scope") == "local" {
		orders, err = h.service.ListLocal(r.Context(), sess)
	} else {
		orders, err = h.service.ListByUser(r.Context(), sess)
	}
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, ok := h.orderID(w, strings.TrimPrefix(r.URL.Path, "/api/orders/"))
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), middleware.SessionFrom(r.Context()), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// AdminList handles GET /api/admin/orders with an optional status filter.
func (h *OrderHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var status *model.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := model.OrderStatus(s)
		if !st.Valid() {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidTransition, "unknown order status", h.logger)
			return
		}
		status = &st
	}

	orders, err := h.service.List(r.Context(), middleware.SessionFrom(r.Context()), status)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// AdminUpdateStatus handles PATCH /api/admin/orders/{id}/status.
func (h *OrderHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/orders/")
	idStr, sub, _ := strings.Cut(rest, "/")
	if sub != "status" {
		writeError(w, http.StatusNotFound, model.ErrCodeOrderNotFound, "not found", h.logger)
		return
	}

	id, ok := h.orderID(w, idStr)
	if !ok {
		return
	}

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), middleware.SessionFrom(r.Context()), id, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) orderID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeOrderNotFound, "invalid order ID", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
