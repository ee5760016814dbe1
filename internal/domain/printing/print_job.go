package printing

import (
	"time"

	"github.com/google/uuid"
)

// PrintJob is the journal record of one print call.
// It follows the call through Idle → Validating → Executing → {Succeeded | Failed}.
type PrintJob struct {
	ID           uuid.UUID
	PrinterName  string
	Strategy     Strategy
	Status       JobStatus
	LineCount    int
	Warnings     []string
	ErrorKind    ErrorKind
	ErrorMessage string
	CreatedAt    time.Time
	FinishedAt   *time.Time
}

// NewPrintJob creates a job in the Idle state
func NewPrintJob(strategy Strategy) *PrintJob {
	return &PrintJob{
		ID:        uuid.New(),
		Strategy:  strategy,
		Status:    JobStatusIdle,
		CreatedAt: time.Now(),
	}
}

func (j *PrintJob) transition(target JobStatus) error {
	if !j.Status.CanTransitionTo(target) {
		return NewPrintError(ErrKindConfiguration,
			"invalid job transition from "+j.Status.String()+" to "+target.String(), nil)
	}
	j.Status = target
	return nil
}

// StartValidating marks the job as validating its request
func (j *PrintJob) StartValidating() error {
	return j.transition(JobStatusValidating)
}

// StartExecuting marks the job as running its strategy against the printer
func (j *PrintJob) StartExecuting(printer PrinterName) error {
	if err := j.transition(JobStatusExecuting); err != nil {
		return err
	}
	j.PrinterName = printer.String()
	return nil
}

// Succeed marks the job as printed
func (j *PrintJob) Succeed(lines int, warnings []string) error {
	if err := j.transition(JobStatusSucceeded); err != nil {
		return err
	}
	j.LineCount = lines
	j.Warnings = warnings
	j.finish()
	return nil
}

// Fail marks the job as failed with the error returned to the caller
func (j *PrintJob) Fail(cause error) error {
	if j.Status.IsTerminal() {
		return NewPrintError(ErrKindConfiguration,
			"cannot fail a job that is already in terminal status: "+j.Status.String(), nil)
	}
	j.Status = JobStatusFailed
	j.ErrorKind = KindOf(cause)
	if cause != nil {
		j.ErrorMessage = cause.Error()
	}
	j.finish()
	return nil
}

func (j *PrintJob) finish() {
	now := time.Now()
	j.FinishedAt = &now
}

// Duration returns how long the job ran, zero while it is still running
func (j *PrintJob) Duration() time.Duration {
	if j.FinishedAt == nil {
		return 0
	}
	return j.FinishedAt.Sub(j.CreatedAt)
}
