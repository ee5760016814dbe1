package printing

// NativePrintingSupported reports whether this build can reach the OS
// print subsystem. It is decided at compile time by the target OS.
func NativePrintingSupported() bool {
	return nativePrinting
}

const defaultPowerShell = "powershell"

// powerShellArgs builds the argument list for a non-interactive script
func powerShellArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

// quotePS quotes s as a single-quoted PowerShell string literal
func quotePS(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}
