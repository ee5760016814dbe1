package printing

import "strings"

// PrinterName identifies a physical printer as known to the OS print subsystem.
// No structure is assumed; existence is only checked by the OS.
type PrinterName string

// String returns the string representation of PrinterName
func (p PrinterName) String() string {
	return string(p)
}

// IsEmpty returns true when the name is empty or whitespace only
func (p PrinterName) IsEmpty() bool {
	return strings.TrimSpace(string(p)) == ""
}

// PrintRequest is a single ticket print invocation.
// It is built per call from caller input and never retained afterwards.
type PrintRequest struct {
	Text        string
	PrinterName *string
	UseCRLF     *bool
	Strategy    Strategy
}

// Printer validates and returns the target printer.
// A missing or blank name is a configuration error.
func (r PrintRequest) Printer() (PrinterName, error) {
	if r.PrinterName == nil {
		return "", ErrNoPrinter
	}
	name := PrinterName(*r.PrinterName)
	if name.IsEmpty() {
		return "", ErrNoPrinter
	}
	return name, nil
}

// CRLF returns the line ending policy for the spool strategy, using
// fallback when the caller did not choose one.
func (r PrintRequest) CRLF(fallback bool) bool {
	if r.UseCRLF == nil {
		return fallback
	}
	return *r.UseCRLF
}

// SplitLines splits text into the line slots consumed on the page.
// Lines are separated by "\n" with an optional preceding "\r"; a single
// trailing line break does not open an extra slot. Empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
