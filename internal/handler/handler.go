package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sumanshop/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error onto an HTTP status. Domain
// errors carry their own user-facing message; anything else is
// normalised so raw store errors never leak to clients.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "something went wrong", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeAuthRequired:
		status = http.StatusUnauthorized
	case model.ErrCodeForbidden, model.ErrCodeDownloadNotAvailable:
		status = http.StatusForbidden
	case model.ErrCodeOrderNotFound, model.ErrCodeProductNotFound:
		status = http.StatusNotFound
	case model.ErrCodeEmptyCart,
		model.ErrCodePaymentProofRequired,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidPaymentMethod,
		model.ErrCodeInvalidJSON:
		status = http.StatusBadRequest
	case model.ErrCodeInvalidTransition, model.ErrCodeStatusUpdateFailed:
		status = http.StatusConflict
	case model.ErrCodeRemoteWriteFailed:
		status = http.StatusBadGateway
	}

	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}
