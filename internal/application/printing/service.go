package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/erp/printagent/internal/domain/ticket"
	"github.com/erp/printagent/internal/infrastructure/logger"
	infra "github.com/erp/printagent/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// Journal page sizes
const (
	defaultRecentJobs = 20
	maxRecentJobs     = 500
)

// Errors returned for optional collaborators that are not configured
var (
	ErrPDFDisabled     = printing.NewPrintError(printing.ErrKindConfiguration, "ticket PDF export is disabled", nil)
	ErrPreviewDisabled = printing.NewPrintError(printing.ErrKindConfiguration, "ticket preview is disabled", nil)
)

// PrinterDirectory enumerates the printers known to the OS
type PrinterDirectory interface {
	ListPrinters(ctx context.Context) ([]string, error)
}

// TextRasterizer draws text on a printer device
type TextRasterizer interface {
	Render(ctx context.Context, text string, printer printing.PrinterName) (*infra.RenderReport, error)
}

// SpoolPrinter sends text through the OS print pipeline
type SpoolPrinter interface {
	Print(ctx context.Context, text string, printer printing.PrinterName, useCRLF bool) error
}

// TicketPreviewer renders text to a PNG
type TicketPreviewer interface {
	Preview(ctx context.Context, text string) (*infra.PreviewResult, error)
}

// TicketPDFRenderer renders text to a ticket sized PDF
type TicketPDFRenderer interface {
	Render(ctx context.Context, text string) (*infra.PDFResult, error)
}

// PrintServiceDeps holds the collaborators of PrintService.
// Previewer, PDF and Journal are optional.
type PrintServiceDeps struct {
	Directory  PrinterDirectory
	Rasterizer TextRasterizer
	Spooler    SpoolPrinter
	Previewer  TicketPreviewer
	PDF        TicketPDFRenderer
	Journal    printing.PrintJobRepository
}

// PrintServiceConfig holds the print defaults applied to requests
type PrintServiceConfig struct {
	// Strategy used when a request does not name one
	DefaultStrategy printing.Strategy
	// Line ending policy for the spool strategy when a request does not choose one
	SpoolUseCRLF bool
	// Bound for external commands; zero leaves only the caller's deadline
	CommandTimeout time.Duration
	// Number of journal entries to keep; zero keeps everything
	JournalMaxEntries int
}

// PrintService orchestrates ticket printing. Every call is independent;
// the service holds no per-job state.
type PrintService struct {
	directory  PrinterDirectory
	rasterizer TextRasterizer
	spooler    SpoolPrinter
	previewer  TicketPreviewer
	pdf        TicketPDFRenderer
	journal    printing.PrintJobRepository
	config     PrintServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewPrintService creates a new PrintService
func NewPrintService(deps PrintServiceDeps, config PrintServiceConfig, logger *zap.Logger) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !config.DefaultStrategy.IsValid() {
		config.DefaultStrategy = printing.StrategyRaster
	}
	return &PrintService{
		directory:  deps.Directory,
		rasterizer: deps.Rasterizer,
		spooler:    deps.Spooler,
		previewer:  deps.Previewer,
		pdf:        deps.PDF,
		journal:    deps.Journal,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// =============================================================================
// Printer Operations
// =============================================================================

// ListPrinters returns the physical printers available to the agent
func (s *PrintService) ListPrinters(ctx context.Context) ([]string, error) {
	ctx, cancel := s.commandContext(ctx)
	defer cancel()

	printers, err := s.directory.ListPrinters(ctx)
	if err != nil {
		return nil, err
	}
	if printers == nil {
		printers = []string{}
	}
	return printers, nil
}

// =============================================================================
// Print Operations
// =============================================================================

// PrintTicket prints text with the requested strategy, or the configured
// default when none is given. The strategy's error is returned unchanged.
func (s *PrintService) PrintTicket(ctx context.Context, req PrintTicketRequest) (*PrintResult, error) {
	strategy, err := s.resolveStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, printing.PrintRequest{
		Text:        req.Text,
		PrinterName: req.PrinterName,
		UseCRLF:     req.UseCRLF,
		Strategy:    strategy,
	})
}

// PrintTicketFile prints text through the spool pipeline
func (s *PrintService) PrintTicketFile(ctx context.Context, req PrintTicketFileRequest) (*PrintResult, error) {
	return s.execute(ctx, printing.PrintRequest{
		Text:        req.Text,
		PrinterName: req.PrinterName,
		UseCRLF:     req.UseCRLF,
		Strategy:    printing.StrategySpool,
	})
}

// PrintTest prints the demo ticket laid out for the requested column count
func (s *PrintService) PrintTest(ctx context.Context, req PrintTestRequest) (*PrintResult, error) {
	strategy, err := s.resolveStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	width := req.Width
	if width <= 0 {
		width = ticket.DefaultWidth
	}
	return s.execute(ctx, printing.PrintRequest{
		Text:        ticket.DemoText(width, s.now()),
		PrinterName: req.PrinterName,
		Strategy:    strategy,
	})
}

func (s *PrintService) resolveStrategy(value string) (printing.Strategy, error) {
	if value == "" {
		return s.config.DefaultStrategy, nil
	}
	return printing.ParseStrategy(value)
}

// execute runs one job through Validating and Executing to a terminal state.
// The printer is validated before any OS call is made.
func (s *PrintService) execute(ctx context.Context, req printing.PrintRequest) (*PrintResult, error) {
	job := printing.NewPrintJob(req.Strategy)
	ctx, log := logger.WithJobID(ctx, s.logger, job.ID.String())
	log = log.With(zap.String("strategy", req.Strategy.String()))
	ctx = logger.WithContext(ctx, log)

	if err := job.StartValidating(); err != nil {
		return nil, err
	}
	printer, err := req.Printer()
	if err != nil {
		s.finishFailed(ctx, log, job, err)
		return nil, err
	}
	if err := job.StartExecuting(printer); err != nil {
		return nil, err
	}
	s.record(ctx, log, job)
	log = log.With(zap.String("printer", printer.String()))

	var (
		lines    int
		warnings []string
	)
	switch req.Strategy {
	case printing.StrategySpool:
		cctx, cancel := s.commandContext(ctx)
		err = s.spooler.Print(cctx, req.Text, printer, req.CRLF(s.config.SpoolUseCRLF))
		cancel()
		lines = len(printing.SplitLines(req.Text))
	default:
		var report *infra.RenderReport
		report, err = s.rasterizer.Render(ctx, req.Text, printer)
		if report != nil {
			lines = report.Lines
			warnings = report.Warnings
		}
	}
	if err != nil {
		log.Error("print job failed",
			zap.String("kind", printing.KindOf(err).String()),
			zap.Error(err))
		s.finishFailed(ctx, log, job, err)
		return nil, err
	}

	if len(warnings) > 0 {
		log.Warn("ticket printed with degraded layout", zap.Strings("warnings", warnings))
	}
	if err := job.Succeed(lines, warnings); err != nil {
		return nil, err
	}
	s.record(ctx, log, job)
	s.prune(ctx, log)

	log.Info("ticket printed", zap.Int("lines", lines), zap.Duration("duration", job.Duration()))
	return &PrintResult{
		JobID:      job.ID,
		Printer:    printer.String(),
		Strategy:   req.Strategy.String(),
		Lines:      lines,
		Warnings:   warnings,
		DurationMs: job.Duration().Milliseconds(),
	}, nil
}

func (s *PrintService) finishFailed(ctx context.Context, log *zap.Logger, job *printing.PrintJob, cause error) {
	if err := job.Fail(cause); err != nil {
		log.Warn("failed to mark job failed", zap.Error(err))
		return
	}
	s.record(ctx, log, job)
	s.prune(ctx, log)
}

// record saves the job to the journal. Journal failures never fail a print.
func (s *PrintService) record(ctx context.Context, log *zap.Logger, job *printing.PrintJob) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Save(ctx, job); err != nil {
		log.Warn("failed to record print job", zap.String("status", job.Status.String()), zap.Error(err))
	}
}

func (s *PrintService) prune(ctx context.Context, log *zap.Logger) {
	if s.journal == nil || s.config.JournalMaxEntries <= 0 {
		return
	}
	deleted, err := s.journal.Prune(ctx, s.config.JournalMaxEntries)
	if err != nil {
		log.Warn("failed to prune print journal", zap.Error(err))
		return
	}
	if deleted > 0 {
		log.Debug("print journal pruned", zap.Int64("deleted", deleted))
	}
}

func (s *PrintService) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.CommandTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.config.CommandTimeout)
}

// =============================================================================
// Render Operations
// =============================================================================

// Preview renders text as the PNG the raster strategy would print
func (s *PrintService) Preview(ctx context.Context, req RenderTicketRequest) (*infra.PreviewResult, error) {
	if s.previewer == nil {
		return nil, ErrPreviewDisabled
	}
	result, err := s.previewer.Preview(ctx, req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return result, nil
}

// RenderPDF renders text as a ticket sized PDF
func (s *PrintService) RenderPDF(ctx context.Context, req RenderTicketRequest) (*infra.PDFResult, error) {
	if s.pdf == nil {
		return nil, ErrPDFDisabled
	}
	result, err := s.pdf.Render(ctx, req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket PDF: %w", err)
	}
	return result, nil
}

// =============================================================================
// Journal Operations
// =============================================================================

// RecentJobs returns the newest journal entries. Without a journal the list is empty.
func (s *PrintService) RecentJobs(ctx context.Context, req ListJobsRequest) ([]PrintJobResponse, error) {
	if s.journal == nil {
		return []PrintJobResponse{}, nil
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecentJobs
	}
	if limit > maxRecentJobs {
		limit = maxRecentJobs
	}
	jobs, err := s.journal.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list print jobs: %w", err)
	}
	return ToPrintJobResponses(jobs), nil
}
