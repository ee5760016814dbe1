//go:build !windows

package printing

// nativePrinting is false where there is no GDI print subsystem
const nativePrinting = false
