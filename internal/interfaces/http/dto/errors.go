package dto

import (
	"net/http"

	"github.com/erp/printagent/internal/domain/printing"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
	ErrCodeEmptyTicket  = "ERR_EMPTY_TICKET"
)

// Print error codes, one per printing.ErrorKind
const (
	ErrCodePrintConfiguration       = "ERR_PRINT_CONFIGURATION"
	ErrCodePrintEnumeration         = "ERR_PRINT_ENUMERATION"
	ErrCodePrintDeviceAcquisition   = "ERR_PRINT_DEVICE_ACQUISITION"
	ErrCodePrintJobControl          = "ERR_PRINT_JOB_CONTROL"
	ErrCodePrintSpool               = "ERR_PRINT_SPOOL"
	ErrCodePrintPlatformUnsupported = "ERR_PRINT_PLATFORM_UNSUPPORTED"
	ErrCodeUpdate                   = "ERR_UPDATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeEmptyTicket:  http.StatusBadRequest,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,

	// Caller supplied a bad printer or option
	ErrCodePrintConfiguration: http.StatusBadRequest,

	// The OS print subsystem failed -> 502 Bad Gateway
	ErrCodePrintEnumeration:       http.StatusBadGateway,
	ErrCodePrintDeviceAcquisition: http.StatusBadGateway,
	ErrCodePrintJobControl:        http.StatusBadGateway,
	ErrCodePrintSpool:             http.StatusBadGateway,
	ErrCodeUpdate:                 http.StatusBadGateway,

	// Native printing is not available on this host
	ErrCodePrintPlatformUnsupported: http.StatusNotImplemented,
}

var kindErrorCodes = map[printing.ErrorKind]string{
	printing.ErrKindConfiguration:       ErrCodePrintConfiguration,
	printing.ErrKindEnumeration:         ErrCodePrintEnumeration,
	printing.ErrKindDeviceAcquisition:   ErrCodePrintDeviceAcquisition,
	printing.ErrKindJobControl:          ErrCodePrintJobControl,
	printing.ErrKindSpool:               ErrCodePrintSpool,
	printing.ErrKindPlatformUnsupported: ErrCodePrintPlatformUnsupported,
	printing.ErrKindUpdate:              ErrCodeUpdate,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCodeForKind returns the API error code for a print error kind.
// Unknown kinds map to ErrCodeInternal.
func ErrorCodeForKind(kind printing.ErrorKind) string {
	if code, ok := kindErrorCodes[kind]; ok {
		return code
	}
	return ErrCodeInternal
}
