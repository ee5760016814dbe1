package printing

import "github.com/erp/printagent/internal/domain/printing"

// FontHandle is an opaque font object owned by a Device
type FontHandle uintptr

// Device is a drawing surface bound to one printer for one print job.
// It mirrors the GDI printer device context: a document contains pages,
// text is drawn with the currently selected font at logical coordinates.
// A Device is owned by a single Render call and must be closed on every path.
type Device interface {
	// StartDoc begins a print job with the given document name
	StartDoc(name string) error
	// StartPage begins a page within the current document
	StartPage() error
	// CreateFont creates a font object; the caller must DeleteFont it
	CreateFont(spec printing.FontSpec) (FontHandle, error)
	// SelectFont makes font current and returns the previously selected one
	SelectFont(font FontHandle) (FontHandle, error)
	// DeleteFont releases a font created by CreateFont
	DeleteFont(font FontHandle) error
	// TextMetrics reports the metrics of the currently selected font
	TextMetrics() (printing.TextMetrics, error)
	// TextOut draws a single line with its top-left corner at (x, y)
	TextOut(x, y int, text string) error
	// EndPage finishes the current page
	EndPage() error
	// EndDoc finishes the current document and submits it to the spooler
	EndDoc() error
	// Close releases the device
	Close() error
}

// DeviceOpener acquires a Device bound to a printer
type DeviceOpener interface {
	Open(printer printing.PrinterName) (Device, error)
}

// DeviceOpenerFunc adapts a function to DeviceOpener
type DeviceOpenerFunc func(printer printing.PrinterName) (Device, error)

// Open calls f(printer)
func (f DeviceOpenerFunc) Open(printer printing.PrinterName) (Device, error) {
	return f(printer)
}
