package printing

import (
	"time"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/google/uuid"
)

// =============================================================================
// Request DTOs
// =============================================================================

// PrintTicketRequest prints plain text on a printer.
// PrinterName is a pointer so a missing name can be told apart from an explicit one.
type PrintTicketRequest struct {
	Text        string  `json:"text"`
	PrinterName *string `json:"printerName"`
	UseCRLF     *bool   `json:"useCrlf"`
	Strategy    string  `json:"strategy"`
}

// PrintTicketFileRequest prints plain text through the spool pipeline
type PrintTicketFileRequest struct {
	Text        string  `json:"text"`
	PrinterName *string `json:"printerName"`
	UseCRLF     *bool   `json:"useCrlf"`
}

// PrintTestRequest prints the demo ticket
type PrintTestRequest struct {
	PrinterName *string `json:"printerName"`
	Width       int     `json:"width" binding:"omitempty,min=16,max=64"`
	Strategy    string  `json:"strategy"`
}

// RenderTicketRequest renders ticket text without printing it
type RenderTicketRequest struct {
	Text string `json:"text"`
}

// ListJobsRequest pages through the job journal
type ListJobsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// PrintResult is returned for every successful print call
type PrintResult struct {
	JobID      uuid.UUID `json:"jobId"`
	Printer    string    `json:"printer"`
	Strategy   string    `json:"strategy"`
	Lines      int       `json:"lines"`
	Warnings   []string  `json:"warnings,omitempty"`
	DurationMs int64     `json:"durationMs"`
}

// PrintJobResponse is one entry of the job journal
type PrintJobResponse struct {
	ID           uuid.UUID  `json:"id"`
	PrinterName  string     `json:"printerName"`
	Strategy     string     `json:"strategy"`
	Status       string     `json:"status"`
	LineCount    int        `json:"lineCount"`
	Warnings     []string   `json:"warnings,omitempty"`
	ErrorKind    string     `json:"errorKind,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
}

// ToPrintJobResponse converts a domain job to its response DTO
func ToPrintJobResponse(job *printing.PrintJob) PrintJobResponse {
	return PrintJobResponse{
		ID:           job.ID,
		PrinterName:  job.PrinterName,
		Strategy:     job.Strategy.String(),
		Status:       job.Status.String(),
		LineCount:    job.LineCount,
		Warnings:     job.Warnings,
		ErrorKind:    job.ErrorKind.String(),
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		FinishedAt:   job.FinishedAt,
	}
}

// ToPrintJobResponses converts a slice of domain jobs
func ToPrintJobResponses(jobs []printing.PrintJob) []PrintJobResponse {
	responses := make([]PrintJobResponse, len(jobs))
	for i := range jobs {
		responses[i] = ToPrintJobResponse(&jobs[i])
	}
	return responses
}
