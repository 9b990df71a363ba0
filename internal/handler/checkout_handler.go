package handler

import (
	"io"
	"net/http"

	"sumanshop/internal/middleware"
	"sumanshop/internal/model"
	"sumanshop/internal/service"

	"github.com/rs/zerolog"
)

// maxProofSize caps the multipart payment-proof upload at 5 MiB.
const maxProofSize = 5 << 20

// CheckoutHandler handles order submission.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Submit handles POST /api/checkout. The body is multipart form data
// carrying payment_method, an optional idempotency_key and the
// payment_proof file.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		writeDomainError(w, model.ErrAuthenticationRequired, h.logger)
		return
	}

	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid multipart form", h.logger)
		return
	}

	req := &model.CheckoutRequest{
		PaymentMethod:  model.PaymentMethod(r.FormValue("payment_method")),
		IdempotencyKey: r.FormValue("idempotency_key"),
	}

	file, header, err := r.FormFile("payment_proof")
	if err == nil {
		defer file.Close()

		content, readErr := io.ReadAll(io.LimitReader(file, maxProofSize))
		if readErr != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodePaymentProofRequired, "failed to read payment proof", h.logger)
			return
		}
		req.ProofFilename = header.Filename
		req.ProofContent = content
		req.ProofMIMEType = header.Header.Get("Content-Type")
	}

	result, err := h.service.Submit(r.Context(), sess, req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
