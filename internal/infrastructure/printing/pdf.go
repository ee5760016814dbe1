package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/erp/printagent/internal/domain/printing"
	"go.uber.org/zap"
)

// Ticket PDF geometry, 58 mm POS roll
const (
	ticketWidthMM      = 58
	ticketPageHeightMM = 400
	ticketMarginMM     = 2
	ticketFontSizePt   = 8
	ticketLineHeightMM = 4
	// ticketPDFColumns is the longest line that fits the PDF at ticketFontSizePt
	ticketPDFColumns = 28

	defaultChromeTimeout = 30 * time.Second
)

// ErrEmptyTicket is returned when a PDF is requested for empty text
var ErrEmptyTicket = errors.New("ticket text is empty")

// PDFConfig contains configuration for the chromedp ticket PDF renderer
type PDFConfig struct {
	// Timeout for one render (default: 30s)
	Timeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// PDFResult contains a rendered ticket PDF
type PDFResult struct {
	PDFData        []byte
	Lines          int
	RenderDuration time.Duration
}

// TicketPDFRenderer renders ticket text to a 58 mm PDF using Chrome DevTools Protocol
type TicketPDFRenderer struct {
	config      *PDFConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewTicketPDFRenderer creates a new chromedp-based ticket renderer.
// The browser is started lazily by the first render.
func NewTicketPDFRenderer(config *PDFConfig) *TicketPDFRenderer {
	if config == nil {
		config = &PDFConfig{}
	}
	if config.Timeout == 0 {
		config.Timeout = defaultChromeTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &TicketPDFRenderer{
		config: config,
		logger: logger,
	}
	r.initAllocator()
	return r
}

func (r *TicketPDFRenderer) initAllocator() {
	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
		return
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render converts ticket text to PDF. Long lines continue below instead of
// being clipped.
func (r *TicketPDFRenderer) Render(ctx context.Context, text string) (*PDFResult, error) {
	lines := wrapForPDF(printing.SplitLines(text))
	if len(lines) == 0 {
		return nil, ErrEmptyTicket
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Bind the browser to the request deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	document := ticketHTML(lines)
	var pdfData []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, document).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(mmToInches(ticketWidthMM)).
				WithPaperHeight(mmToInches(ticketPageHeightMM)).
				WithMarginTop(mmToInches(ticketMarginMM)).
				WithMarginRight(mmToInches(ticketMarginMM)).
				WithMarginBottom(mmToInches(ticketMarginMM)).
				WithMarginLeft(mmToInches(ticketMarginMM)).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("PDF rendering timed out after %v: %w", r.config.Timeout, err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(pdfData) == 0 {
		return nil, errors.New("generated PDF is empty")
	}

	duration := time.Since(startTime)
	r.logger.Info("ticket PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Int("lines", len(lines)),
		zap.Duration("duration", duration))

	return &PDFResult{
		PDFData:        pdfData,
		Lines:          len(lines),
		RenderDuration: duration,
	}, nil
}

// Close releases the browser allocator
func (r *TicketPDFRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// wrapForPDF splits every line into chunks of at most ticketPDFColumns runes
func wrapForPDF(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		runes := []rune(line)
		if len(runes) <= ticketPDFColumns {
			out = append(out, line)
			continue
		}
		for start := 0; start < len(runes); start += ticketPDFColumns {
			end := min(start+ticketPDFColumns, len(runes))
			out = append(out, string(runes[start:end]))
		}
	}
	return out
}

// ticketHTML builds the document for the given pre-wrapped lines
func ticketHTML(lines []string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"UTF-8\"><style>")
	fmt.Fprintf(&b, "body{margin:0;width:%dmm;}", ticketWidthMM-2*ticketMarginMM)
	fmt.Fprintf(&b, "pre{margin:0;font-family:'Courier New',Courier,monospace;font-size:%dpt;line-height:%dmm;white-space:pre;}",
		ticketFontSizePt, ticketLineHeightMM)
	b.WriteString("</style></head><body><pre>")
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(html.EscapeString(line))
	}
	b.WriteString("</pre></body></html>")
	return b.String()
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
