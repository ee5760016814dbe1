// Package printing provides the OS-facing side of ticket printing.
//
// This package contains:
// - Directory, which lists installed printers through PowerShell
// - Rasterizer, which draws text line by line on a Device
// - the GDI Device used on Windows and an ImageDevice used for previews
// - Spooler, which pipes a temporary text file through Out-Printer
// - TicketPDFRenderer, which exports a 58 mm ticket PDF with chromedp
//
// Native printing is only available on Windows. On other platforms the
// directory is empty and every print path returns ErrPlatformUnsupported.
//
// Example usage:
//
//	r := NewRasterizer(&RasterizerConfig{Logger: log})
//	report, err := r.Render(ctx, "LINE1\nLINE2", "POS-80")
//	if err != nil {
//	    return err
//	}
//	for _, w := range report.Warnings {
//	    log.Warn(w)
//	}
package printing
