package printing

import (
	"context"
	"strings"

	"github.com/erp/printagent/internal/domain/printing"
	"go.uber.org/zap"
)

const enumerateScript = "Get-Printer | Select-Object -ExpandProperty Name"

// DefaultVirtualPrinters are software printers hidden from the directory
var DefaultVirtualPrinters = []string{"Microsoft Print to PDF"}

// DirectoryConfig contains configuration for the printer directory
type DirectoryConfig struct {
	// Runner executes the enumeration command (default: ExecRunner)
	Runner CommandRunner
	// PowerShellPath is the PowerShell executable (default: "powershell" in PATH)
	PowerShellPath string
	// VirtualPrinters are excluded from the listing, compared case-insensitively
	VirtualPrinters []string
	// Logger for debug output
	Logger *zap.Logger
}

// Directory lists the physical printers known to the OS
type Directory struct {
	runner     CommandRunner
	powershell string
	virtual    []string
	native     bool
	logger     *zap.Logger
}

// NewDirectory creates a new printer directory
func NewDirectory(config *DirectoryConfig) *Directory {
	if config == nil {
		config = &DirectoryConfig{}
	}

	d := &Directory{
		runner:     config.Runner,
		powershell: config.PowerShellPath,
		virtual:    config.VirtualPrinters,
		native:     nativePrinting,
		logger:     config.Logger,
	}
	if d.runner == nil {
		d.runner = NewExecRunner()
	}
	if d.powershell == "" {
		d.powershell = defaultPowerShell
	}
	if d.virtual == nil {
		d.virtual = DefaultVirtualPrinters
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// ListPrinters returns printer names in OS enumeration order.
// Without a native print subsystem the list is empty and err is nil.
func (d *Directory) ListPrinters(ctx context.Context) ([]string, error) {
	if !d.native {
		return []string{}, nil
	}

	result, err := d.runner.Run(ctx, d.powershell, powerShellArgs(enumerateScript)...)
	if err != nil {
		return nil, printing.NewPrintError(printing.ErrKindEnumeration, "failed to run printer enumeration", err)
	}
	if !result.Success() {
		d.logger.Error("printer enumeration failed",
			zap.Int("exit_code", result.ExitCode),
			zap.String("stderr", string(result.Stderr)))
		return nil, printing.NewPrintError(printing.ErrKindEnumeration,
			"PowerShell error: "+string(result.Stderr), nil)
	}

	printers := FilterPrinters(string(result.Stdout), d.virtual)
	d.logger.Debug("printers enumerated", zap.Strings("printers", printers))
	return printers, nil
}

// FilterPrinters parses one printer name per line, trimming whitespace and
// dropping empty lines and virtual printers.
func FilterPrinters(output string, virtual []string) []string {
	printers := make([]string, 0)
	for _, line := range strings.Split(output, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || isVirtual(name, virtual) {
			continue
		}
		printers = append(printers, name)
	}
	return printers
}

func isVirtual(name string, virtual []string) bool {
	for _, v := range virtual {
		if strings.EqualFold(name, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}
