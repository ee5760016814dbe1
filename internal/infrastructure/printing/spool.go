package printing

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/erp/printagent/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const spoolFilePattern = "ticket-*.txt"

// SpoolConfig contains configuration for the spool printer
type SpoolConfig struct {
	// Runner executes the print pipeline (default: ExecRunner)
	Runner CommandRunner
	// PowerShellPath is the PowerShell executable (default: "powershell" in PATH)
	PowerShellPath string
	// TempDir for the transient ticket file (default: os.TempDir())
	TempDir string
	// Logger for debug output
	Logger *zap.Logger
}

// Spooler prints text by writing it to a temporary file and piping the file
// through the OS print pipeline, Get-Content | Out-Printer.
type Spooler struct {
	runner     CommandRunner
	powershell string
	tempDir    string
	native     bool
	logger     *zap.Logger
}

// NewSpooler creates a new Spooler
func NewSpooler(config *SpoolConfig) *Spooler {
	if config == nil {
		config = &SpoolConfig{}
	}

	s := &Spooler{
		runner:     config.Runner,
		powershell: config.PowerShellPath,
		tempDir:    config.TempDir,
		native:     nativePrinting,
		logger:     config.Logger,
	}
	if s.runner == nil {
		s.runner = NewExecRunner()
	}
	if s.powershell == "" {
		s.powershell = defaultPowerShell
	}
	if s.tempDir == "" {
		s.tempDir = os.TempDir()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Print sends text to printer, or to the OS default printer when printer is
// empty. With useCRLF the line endings are normalized to CRLF first. The
// temporary file is removed once the pipeline returns, whatever its outcome.
func (s *Spooler) Print(ctx context.Context, text string, printer printing.PrinterName, useCRLF bool) error {
	if !s.native {
		return printing.ErrPlatformUnsupported
	}
	log := logger.FromContextOr(ctx, s.logger)

	path, err := s.writeTemp(NormalizeLineEndings(text, useCRLF))
	if err != nil {
		return printing.NewPrintError(printing.ErrKindSpool, "failed to write ticket file", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Debug("failed to remove ticket file", zap.String("path", path), zap.Error(err))
		}
	}()

	script := spoolScript(path, printer)
	log.Debug("executing print pipeline",
		zap.String("binary", s.powershell),
		zap.String("script", script))

	result, err := s.runner.Run(ctx, s.powershell, powerShellArgs(script)...)
	if err != nil {
		return printing.NewPrintError(printing.ErrKindSpool, "failed to run print pipeline", err)
	}
	if !result.Success() || len(strings.TrimSpace(string(result.Stderr))) > 0 {
		log.Error("print pipeline failed",
			zap.Int("exit_code", result.ExitCode),
			zap.String("stderr", string(result.Stderr)))
		return printing.NewPrintError(printing.ErrKindSpool, "print pipeline failed: "+result.Diagnostic(), nil)
	}
	return nil
}

func (s *Spooler) writeTemp(payload string) (string, error) {
	file, err := os.CreateTemp(s.tempDir, spoolFilePattern)
	if err != nil {
		return "", err
	}
	path := file.Name()

	if _, err := file.WriteString(payload); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// spoolScript builds the PowerShell pipeline that prints the file at path
func spoolScript(path string, printer printing.PrinterName) string {
	script := "Get-Content -Path " + quotePS(path) + " -Raw | Out-Printer"
	if !printer.IsEmpty() {
		script += " -Name " + quotePS(printer.String())
	}
	return script
}

// NormalizeLineEndings returns text unchanged when crlf is false. Otherwise
// every line break becomes CRLF and the result ends with exactly one CRLF.
// A trailing break is not doubled, so "a\n" prints one line, not two.
func NormalizeLineEndings(text string, crlf bool) string {
	if !crlf {
		return text
	}
	lf := strings.ReplaceAll(text, "\r\n", "\n")
	out := strings.ReplaceAll(lf, "\n", "\r\n")
	if !strings.HasSuffix(out, "\r\n") {
		out += "\r\n"
	}
	return out
}
