package models

import (
	"time"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/google/uuid"
)

// PrintJobModel is the GORM model for the print_jobs table
type PrintJobModel struct {
	ID           uuid.UUID  `gorm:"type:text;primaryKey"`
	PrinterName  string     `gorm:"column:printer_name;type:varchar(255);index"`
	Strategy     string     `gorm:"type:varchar(20);not null"`
	Status       string     `gorm:"type:varchar(20);not null;index"`
	LineCount    int        `gorm:"column:line_count;not null;default:0"`
	Warnings     []string   `gorm:"type:text;serializer:json"`
	ErrorKind    string     `gorm:"column:error_kind;type:varchar(40)"`
	ErrorMessage string     `gorm:"column:error_message;type:text"`
	CreatedAt    time.Time  `gorm:"not null;index"`
	FinishedAt   *time.Time `gorm:"column:finished_at"`
}

// TableName returns the table name for PrintJobModel
func (PrintJobModel) TableName() string {
	return "print_jobs"
}

// ToDomain converts PrintJobModel to domain PrintJob
func (m *PrintJobModel) ToDomain() *printing.PrintJob {
	return &printing.PrintJob{
		ID:           m.ID,
		PrinterName:  m.PrinterName,
		Strategy:     printing.Strategy(m.Strategy),
		Status:       printing.JobStatus(m.Status),
		LineCount:    m.LineCount,
		Warnings:     m.Warnings,
		ErrorKind:    printing.ErrorKind(m.ErrorKind),
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		FinishedAt:   m.FinishedAt,
	}
}

// PrintJobModelFromDomain creates a PrintJobModel from domain PrintJob
func PrintJobModelFromDomain(j *printing.PrintJob) *PrintJobModel {
	return &PrintJobModel{
		ID:           j.ID,
		PrinterName:  j.PrinterName,
		Strategy:     string(j.Strategy),
		Status:       string(j.Status),
		LineCount:    j.LineCount,
		Warnings:     j.Warnings,
		ErrorKind:    string(j.ErrorKind),
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		FinishedAt:   j.FinishedAt,
	}
}

// AllModels returns the models migrated at startup
func AllModels() []any {
	return []any{&PrintJobModel{}}
}
