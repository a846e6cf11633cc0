// Package apierror provides the error envelope of the local API.
// Every 4xx/5xx response goes through it so that store errors, stack traces
// and SQL never reach the client.
package apierror

// Stable machine-readable codes. Front ends switch on these, not on Detail.
const (
	CodeInvalidRequest    = "invalid_request"
	CodeValidation        = "validation_failed"
	CodeNotFound          = "not_found"
	CodeInsufficientStock = "insufficient_stock"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeRateLimited       = "rate_limited"
	CodeUnavailable       = "store_unavailable"
	CodeInternal          = "internal_error"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Code      string            `json:"code"`
	Detail    string            `json:"detail"`
	Fields    map[string]string `json:"fields,omitempty"`
	Available string            `json:"available,omitempty"`
	Requested string            `json:"requested,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func New(code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// NewValidation wraps one or more field errors.
func NewValidation(fields map[string]string) *APIError {
	return &APIError{Code: CodeValidation, Detail: "validation failed", Fields: fields}
}

// NewInsufficientStock carries the quantities so the caller can re-prompt.
func NewInsufficientStock(available, requested string) *APIError {
	return &APIError{
		Code:      CodeInsufficientStock,
		Detail:    "insufficient stock",
		Available: available,
		Requested: requested,
	}
}
