package handler

import (
	"net/http"
	"strconv"

	printingapp "github.com/erp/printagent/internal/application/printing"
	"github.com/erp/printagent/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Raster and PDF renders are returned as raw bodies; these headers carry
// what the JSON envelope would otherwise hold.
const (
	HeaderTicketLines    = "X-Ticket-Lines"
	HeaderTicketWidth    = "X-Ticket-Width"
	HeaderTicketHeight   = "X-Ticket-Height"
	HeaderTicketWarnings = "X-Ticket-Warnings"
)

// PrintHandler handles print-related API endpoints
type PrintHandler struct {
	BaseHandler
	printService *printingapp.PrintService
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(printService *printingapp.PrintService) *PrintHandler {
	return &PrintHandler{
		printService: printService,
	}
}

// ListPrinters returns the physical printers, virtual PDF printers excluded
//
// GET /print/printers
func (h *PrintHandler) ListPrinters(c *gin.Context) {
	printers, err := h.printService.ListPrinters(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, printers)
}

// PrintTicket prints plain text with the requested or default strategy
//
// POST /print/ticket
func (h *PrintHandler) PrintTicket(c *gin.Context) {
	var req printingapp.PrintTicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.printService.PrintTicket(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PrintTicketFile prints plain text through the spool pipeline
//
// POST /print/ticket-file
func (h *PrintHandler) PrintTicketFile(c *gin.Context) {
	var req printingapp.PrintTicketFileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.printService.PrintTicketFile(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PrintTest prints the demo ticket
//
// POST /print/test
func (h *PrintHandler) PrintTest(c *gin.Context) {
	var req printingapp.PrintTestRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.printService.PrintTest(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Preview renders the ticket as the PNG the raster strategy would print
//
// POST /print/preview
func (h *PrintHandler) Preview(c *gin.Context) {
	var req printingapp.RenderTicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.printService.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header(HeaderTicketWidth, strconv.Itoa(result.Width))
	c.Header(HeaderTicketHeight, strconv.Itoa(result.Height))
	if result.Report != nil {
		c.Header(HeaderTicketLines, strconv.Itoa(result.Report.Lines))
		if n := len(result.Report.Warnings); n > 0 {
			c.Header(HeaderTicketWarnings, strconv.Itoa(n))
		}
	}
	c.Data(http.StatusOK, "image/png", result.PNG)
}

// RenderPDF renders the ticket as a 58mm wide PDF
//
// POST /print/pdf
func (h *PrintHandler) RenderPDF(c *gin.Context) {
	var req printingapp.RenderTicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.printService.RenderPDF(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header(HeaderTicketLines, strconv.Itoa(result.Lines))
	c.Header("Content-Disposition", `inline; filename="ticket.pdf"`)
	c.Data(http.StatusOK, "application/pdf", result.PDFData)
}

// ListJobs returns the newest job journal entries
//
// GET /print/jobs?limit=20
func (h *PrintHandler) ListJobs(c *gin.Context) {
	var req printingapp.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	jobs, err := h.printService.RecentJobs(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jobs)
}
