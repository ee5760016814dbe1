package printing

import (
	"bytes"
	"context"

	"github.com/erp/printagent/internal/domain/printing"
	"go.uber.org/zap"
)

const previewPrinter printing.PrinterName = "preview"

// PreviewConfig contains configuration for ticket previews
type PreviewConfig struct {
	// Image configures the page canvas
	Image ImageDeviceConfig
	// Font is the layout font, matching the one sent to printers
	Font printing.FontSpec
	// Layout matches the printer layout
	Layout printing.Layout
	// Logger for debug output
	Logger *zap.Logger
}

// PreviewResult contains a rendered preview
type PreviewResult struct {
	// PNG is the encoded first page
	PNG []byte
	// Width and Height of the page in pixels
	Width  int
	Height int
	// Report is the rasterizer report for the preview job
	Report *RenderReport
}

// Previewer renders tickets to PNG with the same rasterizer used for printers
type Previewer struct {
	config *PreviewConfig
}

// NewPreviewer creates a new Previewer
func NewPreviewer(config *PreviewConfig) *Previewer {
	if config == nil {
		config = &PreviewConfig{}
	}
	return &Previewer{config: config}
}

// Preview renders text onto an image device and returns the first page
func (p *Previewer) Preview(ctx context.Context, text string) (*PreviewResult, error) {
	dev := NewImageDevice(&p.config.Image)
	rasterizer := NewRasterizer(&RasterizerConfig{
		Opener: DeviceOpenerFunc(func(printing.PrinterName) (Device, error) {
			return dev, nil
		}),
		DocName: "Preview",
		Font:    p.config.Font,
		Layout:  p.config.Layout,
		Logger:  p.config.Logger,
	})

	if len(printing.SplitLines(text)) == 0 {
		// Render would not open the device; draw the blank page it would print
		text = " "
	}
	report, err := rasterizer.Render(ctx, text, previewPrinter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dev.EncodePNG(&buf, 0); err != nil {
		return nil, err
	}
	bounds := dev.Pages()[0].Bounds()
	return &PreviewResult{
		PNG:    buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Report: report,
	}, nil
}
