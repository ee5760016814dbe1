//go:build !windows

package printing

import "github.com/erp/printagent/internal/domain/printing"

// NewGDIOpener returns an opener that always reports the platform as unsupported
func NewGDIOpener() DeviceOpener {
	return DeviceOpenerFunc(func(printing.PrinterName) (Device, error) {
		return nil, printing.ErrPlatformUnsupported
	})
}
