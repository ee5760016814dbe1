package printing

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/erp/printagent/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Warnings attached to a RenderReport when the rasterizer degrades
const (
	WarnFontUnavailable    = "layout font unavailable, using device default font"
	WarnMetricsUnavailable = "font metrics unavailable, using fallback line height"
	WarnDrawFailed         = "some lines could not be drawn"
)

// RasterizerConfig contains configuration for the text rasterizer
type RasterizerConfig struct {
	// Opener acquires the printer device (default: the platform GDI opener)
	Opener DeviceOpener
	// DocName is the spooler document name (default: "Ticket")
	DocName string
	// Font is the fixed-pitch layout font
	Font printing.FontSpec
	// Layout holds margins and the fallback line height
	Layout printing.Layout
	// Logger for debug output
	Logger *zap.Logger
}

// RenderReport describes a completed render
type RenderReport struct {
	// Lines is the number of line slots consumed, empty lines included
	Lines int
	// Metrics is the layout used for the job
	Metrics printing.LineMetrics
	// Warnings lists the soft degradations that occurred
	Warnings []string
}

// Rasterizer draws plain text directly onto a printer device, line by line,
// without dialogs or windows.
type Rasterizer struct {
	opener  DeviceOpener
	native  bool
	docName string
	font    printing.FontSpec
	layout  printing.Layout
	logger  *zap.Logger
}

// NewRasterizer creates a new text rasterizer
func NewRasterizer(config *RasterizerConfig) *Rasterizer {
	if config == nil {
		config = &RasterizerConfig{}
	}

	r := &Rasterizer{
		opener:  config.Opener,
		native:  config.Opener != nil || nativePrinting,
		docName: config.DocName,
		font:    config.Font,
		layout:  config.Layout,
		logger:  config.Logger,
	}
	if r.opener == nil {
		r.opener = NewGDIOpener()
	}
	if r.docName == "" {
		r.docName = printing.DefaultDocName
	}
	if r.font == (printing.FontSpec{}) {
		r.font = printing.DefaultFontSpec()
	}
	if r.layout == (printing.Layout{}) {
		r.layout = printing.DefaultLayout()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Render draws text on printer. Without native printing every call fails
// with ErrPlatformUnsupported, empty text included. Otherwise empty text is
// a successful no-op that never touches the device. Device acquisition, document and page control
// failures are returned as PrintError; font and metric failures degrade and
// are listed in the report warnings.
func (r *Rasterizer) Render(ctx context.Context, text string, printer printing.PrinterName) (*RenderReport, error) {
	if !r.native {
		return nil, printing.ErrPlatformUnsupported
	}
	lines := printing.SplitLines(text)
	if len(lines) == 0 {
		return &RenderReport{}, nil
	}
	if printer.IsEmpty() {
		return nil, printing.ErrNoPrinter
	}

	log := logger.FromContextOr(ctx, r.logger).With(zap.String("printer", printer.String()))

	dev, err := r.opener.Open(printer)
	if err != nil {
		var pe *printing.PrintError
		if errors.As(err, &pe) {
			return nil, pe
		}
		return nil, printing.NewPrintError(printing.ErrKindDeviceAcquisition,
			fmt.Sprintf("could not open printer %q", printer.String()), err)
	}

	job := &jobGuard{dev: dev, log: log}
	defer job.release()

	if err := job.startDoc(r.docName); err != nil {
		return nil, err
	}
	if err := job.startPage(); err != nil {
		return nil, err
	}

	report := &RenderReport{Lines: len(lines)}

	font := &fontGuard{dev: dev}
	defer font.release()
	if err := font.install(r.font); err != nil {
		log.Debug("layout font not installed", zap.Error(err))
		report.Warnings = append(report.Warnings, WarnFontUnavailable)
	}

	var reported *printing.TextMetrics
	if tm, err := dev.TextMetrics(); err == nil {
		reported = &tm
	} else {
		log.Debug("text metrics query failed", zap.Error(err))
	}
	metrics, ok := r.layout.Metrics(reported)
	if !ok {
		report.Warnings = append(report.Warnings, WarnMetricsUnavailable)
	}
	report.Metrics = metrics

	failed := 0
	for i, line := range lines {
		if line == "" {
			continue
		}
		if err := dev.TextOut(metrics.MarginX, metrics.LineY(i), line); err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Debug("text out failed", zap.Int("lines", failed))
		report.Warnings = append(report.Warnings, WarnDrawFailed)
	}

	font.release()
	if err := job.finish(); err != nil {
		return nil, err
	}

	log.Debug("ticket rendered",
		zap.Int("lines", report.Lines),
		zap.Int("line_height", metrics.LineHeight),
		zap.Strings("warnings", report.Warnings))
	return report, nil
}

// jobGuard owns the device and its document/page state. release undoes
// whatever is still open, in page, document, device order.
type jobGuard struct {
	dev      Device
	log      *zap.Logger
	docOpen  bool
	pageOpen bool
	closed   bool
}

func (g *jobGuard) startDoc(name string) error {
	if err := g.dev.StartDoc(name); err != nil {
		return printing.NewPrintError(printing.ErrKindJobControl, "StartDoc failed", err)
	}
	g.docOpen = true
	return nil
}

func (g *jobGuard) startPage() error {
	if err := g.dev.StartPage(); err != nil {
		return printing.NewPrintError(printing.ErrKindJobControl, "StartPage failed", err)
	}
	g.pageOpen = true
	return nil
}

// finish ends the page and the document, reporting their failures
func (g *jobGuard) finish() error {
	if g.pageOpen {
		g.pageOpen = false
		if err := g.dev.EndPage(); err != nil {
			return printing.NewPrintError(printing.ErrKindJobControl, "EndPage failed", err)
		}
	}
	if g.docOpen {
		g.docOpen = false
		if err := g.dev.EndDoc(); err != nil {
			return printing.NewPrintError(printing.ErrKindJobControl, "EndDoc failed", err)
		}
	}
	return nil
}

func (g *jobGuard) release() {
	if g.closed {
		return
	}
	g.closed = true
	if g.pageOpen {
		g.pageOpen = false
		if err := g.dev.EndPage(); err != nil {
			g.log.Debug("EndPage during cleanup failed", zap.Error(err))
		}
	}
	if g.docOpen {
		g.docOpen = false
		if err := g.dev.EndDoc(); err != nil {
			g.log.Debug("EndDoc during cleanup failed", zap.Error(err))
		}
	}
	if err := g.dev.Close(); err != nil {
		g.log.Debug("device release failed", zap.Error(err))
	}
}

// fontGuard owns the layout font for one job. release restores the
// previously selected font before deleting the created one.
type fontGuard struct {
	dev      Device
	font     FontHandle
	prev     FontHandle
	created  bool
	selected bool
}

func (g *fontGuard) install(spec printing.FontSpec) error {
	font, err := g.dev.CreateFont(spec)
	if err != nil {
		return err
	}
	g.font, g.created = font, true

	prev, err := g.dev.SelectFont(font)
	if err != nil {
		return err
	}
	g.prev, g.selected = prev, true
	return nil
}

func (g *fontGuard) release() {
	if g.selected {
		g.selected = false
		_, _ = g.dev.SelectFont(g.prev)
	}
	if g.created {
		g.created = false
		_ = g.dev.DeleteFont(g.font)
	}
}
