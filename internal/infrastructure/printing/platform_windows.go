//go:build windows

package printing

const nativePrinting = true
