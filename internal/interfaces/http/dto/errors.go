package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeBelowMinimumCharge is used when an order total is under the
	// processor's minimum chargeable amount
	ErrCodeBelowMinimumCharge = "ERR_BELOW_MINIMUM_CHARGE"
)

// Payment processor error codes
const (
	// ErrCodePaymentProcessor is used when the upstream processor rejects or
	// fails a request
	ErrCodePaymentProcessor = "ERR_PAYMENT_PROCESSOR"
	// ErrCodeProcessorUnavailable is used when the upstream processor cannot
	// be reached or is failing
	ErrCodeProcessorUnavailable = "ERR_PROCESSOR_UNAVAILABLE"
	// ErrCodeWebhookSignature is used when a webhook delivery fails
	// signature verification
	ErrCodeWebhookSignature = "ERR_WEBHOOK_SIGNATURE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeBelowMinimumCharge: http.StatusUnprocessableEntity,

	// Processor errors -> 502 Bad Gateway, signature failures -> 401
	ErrCodePaymentProcessor:     http.StatusBadGateway,
	ErrCodeProcessorUnavailable: http.StatusBadGateway,
	ErrCodeWebhookSignature:     http.StatusUnauthorized,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to standardized API codes.
// Domain codes not listed here fall through NormalizeErrorCode unchanged and
// resolve to 500 via GetHTTPStatus, so every new domain code needs an entry.
var DomainErrorCodeMapping = map[string]string{
	// Shared sentinels
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INVALID_STATE":        ErrCodeInvalidState,

	// Cart rules
	"EMPTY_CART":             ErrCodeInvalidInput,
	"MULTI_MERCHANT_CART":    ErrCodeBusinessRule,
	"MISSING_SELLER_COMPANY": ErrCodeInvalidInput,
	"INVALID_CART_ITEM":      ErrCodeInvalidInput,

	// Order construction and pricing
	"INVALID_PRODUCT":          ErrCodeInvalidInput,
	"INVALID_QUANTITY":         ErrCodeInvalidInput,
	"INVALID_PRICE":            ErrCodeInvalidInput,
	"INVALID_BUYER_NAME":       ErrCodeInvalidInput,
	"INVALID_BUYER_EMAIL":      ErrCodeInvalidInput,
	"INVALID_SHIPPING_ADDRESS": ErrCodeInvalidInput,
	"INVALID_BILLING_ADDRESS":  ErrCodeInvalidInput,
	"INVALID_ORDER_NUMBER":     ErrCodeInvalidInput,
	"INVALID_COMPANY":          ErrCodeInvalidInput,
	"INVALID_AMOUNT":           ErrCodeInvalidInput,
	"ORDER_PRICED":             ErrCodeInvalidState,
	"AMOUNT_MISMATCH":          ErrCodeBusinessRule,

	// Payment state machine
	"ALREADY_PAID":           ErrCodeConflict,
	"INVALID_PAYMENT_STATE":  ErrCodeInvalidState,
	"INVALID_PAYMENT_STATUS": ErrCodeInvalidInput,
	"INVALID_METHOD":         ErrCodeInvalidInput,
	"INVALID_ORDER":          ErrCodeInvalidInput,
	"INVALID_STATUS":         ErrCodeInvalidInput,
	"INVALID_TRANSITION":     ErrCodeInvalidState,

	// Payout ledger
	"ORDER_NOT_PAID":         ErrCodeBusinessRule,
	"INVALID_PAYOUT_METHOD":  ErrCodeInvalidInput,
	"INVALID_FAILURE_REASON": ErrCodeInvalidInput,
	"INVALID_TRANSFER_ID":    ErrCodeInvalidInput,
	"INVALID_REFERENCE":      ErrCodeInvalidInput,

	// Company registry
	"INVALID_COMPANY_NAME":      ErrCodeInvalidInput,
	"INVALID_COUNTRY":           ErrCodeInvalidInput,
	"INVALID_EMAIL":             ErrCodeInvalidInput,
	"INVALID_PAYOUT_PREFERENCE": ErrCodeInvalidInput,
	"MISSING_STRIPE_ACCOUNT":    ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
