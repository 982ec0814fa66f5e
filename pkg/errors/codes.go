package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_015"
	ErrCodeMessagingError     ErrorCode = "COMMON_016"
)

// Aliases used by call sites that predate the prefixed names.
const (
	CodeUnknown      = ErrorCode("")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeUnauthorized = ErrCodeUnauthorized
	CodeForbidden    = ErrCodeForbidden
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
)

// Plant catalog error codes.
const (
	ErrCodeFetchFailed       ErrorCode = "PLT_001"
	ErrCodeTableUnknown      ErrorCode = "PLT_002"
	ErrCodePlantNotFound     ErrorCode = "PLT_003"
	ErrCodeFilterInvalid     ErrorCode = "PLT_004"
	ErrCodeMetricUnsupported ErrorCode = "PLT_005"
)

// Project editor error codes.
const (
	ErrCodeProjectNotFound    ErrorCode = "PRJ_001"
	ErrCodeFieldNotEditable   ErrorCode = "PRJ_002"
	ErrCodeProjectWriteFailed ErrorCode = "PRJ_003"
)

// Deal pipeline error codes.
const (
	ErrCodeTransactionNotFound ErrorCode = "TRX_001"
	ErrCodeStageInvalid        ErrorCode = "TRX_002"
	ErrCodeRAGInvalid          ErrorCode = "TRX_003"
	ErrCodeConfidenceInvalid   ErrorCode = "TRX_004"
	ErrCodeActivityInvalid     ErrorCode = "TRX_005"
	ErrCodeNextStepOutOfRange  ErrorCode = "TRX_006"
)

// Impact error codes.
const (
	ErrCodeProjectionRangeInvalid ErrorCode = "IMP_001"
	ErrCodeImpactNotFound         ErrorCode = "IMP_002"
)

// Auth error codes.
const (
	ErrCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrCodeTokenInvalid       ErrorCode = "AUTH_002"
	ErrCodeTokenExpired       ErrorCode = "AUTH_003"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusBadRequest,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeFetchFailed:       http.StatusBadGateway,
	ErrCodeTableUnknown:      http.StatusBadRequest,
	ErrCodePlantNotFound:     http.StatusNotFound,
	ErrCodeFilterInvalid:     http.StatusBadRequest,
	ErrCodeMetricUnsupported: http.StatusBadRequest,

	ErrCodeProjectNotFound:    http.StatusNotFound,
	ErrCodeFieldNotEditable:   http.StatusBadRequest,
	ErrCodeProjectWriteFailed: http.StatusInternalServerError,

	ErrCodeTransactionNotFound: http.StatusNotFound,
	ErrCodeStageInvalid:        http.StatusBadRequest,
	ErrCodeRAGInvalid:          http.StatusBadRequest,
	ErrCodeConfidenceInvalid:   http.StatusBadRequest,
	ErrCodeActivityInvalid:     http.StatusBadRequest,
	ErrCodeNextStepOutOfRange:  http.StatusBadRequest,

	ErrCodeProjectionRangeInvalid: http.StatusBadRequest,
	ErrCodeImpactNotFound:         http.StatusNotFound,

	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "messaging error",

	ErrCodeFetchFailed:       "failed to fetch rows from the row store",
	ErrCodeTableUnknown:      "unknown table",
	ErrCodePlantNotFound:     "plant not found",
	ErrCodeFilterInvalid:     "invalid filter",
	ErrCodeMetricUnsupported: "unsupported metric",

	ErrCodeProjectNotFound:    "project not found",
	ErrCodeFieldNotEditable:   "field is not editable",
	ErrCodeProjectWriteFailed: "failed to save project",

	ErrCodeTransactionNotFound: "transaction not found",
	ErrCodeStageInvalid:        "invalid pipeline stage",
	ErrCodeRAGInvalid:          "invalid RAG status",
	ErrCodeConfidenceInvalid:   "confidence must be between 0 and 100",
	ErrCodeActivityInvalid:     "invalid activity",
	ErrCodeNextStepOutOfRange:  "next step index out of range",

	ErrCodeProjectionRangeInvalid: "invalid projection year range",
	ErrCodeImpactNotFound:         "impact result not found",

	ErrCodeInvalidCredentials: "invalid email or password",
	ErrCodeTokenInvalid:       "invalid token",
	ErrCodeTokenExpired:       "token expired",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
