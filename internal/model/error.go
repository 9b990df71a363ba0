package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeAuthRequired         = "AUTHENTICATION_REQUIRED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodePaymentProofRequired = "PAYMENT_PROOF_REQUIRED"
	ErrCodeRemoteWriteFailed    = "REMOTE_WRITE_FAILED"
	ErrCodeProofUploadFailed    = "PROOF_UPLOAD_FAILED"
	ErrCodeStatusUpdateFailed   = "STATUS_UPDATE_FAILED"
	ErrCodeInvalidTransition    = "INVALID_STATUS_TRANSITION"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeDownloadNotAvailable = "DOWNLOAD_NOT_AVAILABLE"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrAuthenticationRequired = NewDomainError(ErrCodeAuthRequired, "You must be signed in to check out")
	ErrEmptyCart              = NewDomainError(ErrCodeEmptyCart, "Your cart is empty")
	ErrPaymentProofRequired   = NewDomainError(ErrCodePaymentProofRequired, "A payment proof image is required")
	ErrRemoteWriteFailed      = NewDomainError(ErrCodeRemoteWriteFailed, "Failed to save order")
	ErrProofUploadFailed      = NewDomainError(ErrCodeProofUploadFailed, "Failed to upload payment proof")
	ErrStatusUpdateFailed     = NewDomainError(ErrCodeStatusUpdateFailed, "Failed to update order status")
	ErrInvalidTransition      = NewDomainError(ErrCodeInvalidTransition, "Order status transition not permitted")
	ErrOrderNotFound          = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrProductNotFound        = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrDownloadNotAvailable   = NewDomainError(ErrCodeDownloadNotAvailable, "Download is only available after a confirmed purchase")
	ErrInvalidQuantity        = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPaymentMethod   = NewDomainError(ErrCodeInvalidPaymentMethod, "Unknown payment method")
	ErrForbidden              = NewDomainError(ErrCodeForbidden, "You do not have access to this resource")
)
