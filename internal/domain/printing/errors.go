package printing

import "errors"

// ErrorKind classifies a PrintError
type ErrorKind string

// Error kinds reported to the caller. Font creation and metric query
// failures are not part of this list; the rasterizer degrades instead.
const (
	ErrKindConfiguration       ErrorKind = "CONFIGURATION"
	ErrKindEnumeration         ErrorKind = "ENUMERATION"
	ErrKindDeviceAcquisition   ErrorKind = "DEVICE_ACQUISITION"
	ErrKindJobControl          ErrorKind = "JOB_CONTROL"
	ErrKindSpool               ErrorKind = "SPOOL"
	ErrKindPlatformUnsupported ErrorKind = "PLATFORM_UNSUPPORTED"
	ErrKindUpdate              ErrorKind = "UPDATE"
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	return string(k)
}

// PrintError is the error returned by every printing component.
// Message carries the human readable diagnostic, Cause the underlying
// OS or process error when there is one.
type PrintError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *PrintError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *PrintError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a PrintError of the same kind,
// so errors.Is(err, ErrNoPrinter) matches any configuration error.
func (e *PrintError) Is(target error) bool {
	var t *PrintError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewPrintError creates a new PrintError
func NewPrintError(kind ErrorKind, message string, cause error) *PrintError {
	return &PrintError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the kind of err, or an empty kind when err is not a PrintError
func KindOf(err error) ErrorKind {
	var pe *PrintError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// Sentinel errors
var (
	ErrNoPrinter           = NewPrintError(ErrKindConfiguration, "no printer configured", nil)
	ErrPlatformUnsupported = NewPrintError(ErrKindPlatformUnsupported, "printing is only supported on Windows", nil)
)
