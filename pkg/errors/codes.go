package errors

import (
	"net/http"
	"strings"
)

// ErrorCode identifies a failure category. The prefix names the module the
// code belongs to (COMMON, PAT, SRC, DB, SRCH).
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeInternal       ErrorCode = "COMMON_001"
	CodeInvalidParam   ErrorCode = "COMMON_002"
	CodeNotFound       ErrorCode = "COMMON_003"
	CodeConflict       ErrorCode = "COMMON_004"
	CodeUnavailable    ErrorCode = "COMMON_005"
	CodeTimeout        ErrorCode = "COMMON_006"
	CodeSerialization  ErrorCode = "COMMON_007"
	CodeNotImplemented ErrorCode = "COMMON_008"

	CodeUnknown ErrorCode = "UNKNOWN"
	CodeOK      ErrorCode = "OK"
)

// Patent / ingestion error codes.
const (
	CodePatentNotFound  ErrorCode = "PAT_001"
	CodeIngestFailed    ErrorCode = "PAT_002"
	CodeNormalizeFailed ErrorCode = "PAT_003"
)

// Data-source error codes.
const (
	CodeSourceUnavailable ErrorCode = "SRC_001"
	CodeSourceQueryFailed ErrorCode = "SRC_002"
	CodeSourceAuthFailed  ErrorCode = "SRC_003"
	CodeSourceParseError  ErrorCode = "SRC_004"
)

// Storage error codes.
const (
	CodeDBConnectionError ErrorCode = "DB_001"
	CodeDBQueryError      ErrorCode = "DB_002"
	CodeDBMigrationError  ErrorCode = "DB_003"
	CodeCacheError        ErrorCode = "DB_004"
)

// Search error codes.
const (
	CodeSearchQueryInvalid ErrorCode = "SRCH_001"
	CodeSearchFailed       ErrorCode = "SRCH_002"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes for the API layer.
var errorCodeHTTPStatus = map[ErrorCode]int{
	CodeInternal:       http.StatusInternalServerError,
	CodeInvalidParam:   http.StatusBadRequest,
	CodeNotFound:       http.StatusNotFound,
	CodeConflict:       http.StatusConflict,
	CodeUnavailable:    http.StatusServiceUnavailable,
	CodeTimeout:        http.StatusGatewayTimeout,
	CodeSerialization:  http.StatusInternalServerError,
	CodeNotImplemented: http.StatusNotImplemented,

	CodePatentNotFound:  http.StatusNotFound,
	CodeIngestFailed:    http.StatusInternalServerError,
	CodeNormalizeFailed: http.StatusInternalServerError,

	CodeSourceUnavailable: http.StatusServiceUnavailable,
	CodeSourceQueryFailed: http.StatusBadGateway,
	CodeSourceAuthFailed:  http.StatusBadGateway,
	CodeSourceParseError:  http.StatusBadGateway,

	CodeDBConnectionError: http.StatusInternalServerError,
	CodeDBQueryError:      http.StatusInternalServerError,
	CodeDBMigrationError:  http.StatusInternalServerError,
	CodeCacheError:        http.StatusInternalServerError,

	CodeSearchQueryInvalid: http.StatusBadRequest,
	CodeSearchFailed:       http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status for an ErrorCode, defaulting to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether code maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode ("PAT", "SRC", ...).
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
