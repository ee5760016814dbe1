package printing

import "strings"

// Strategy selects how a ticket reaches the printer.
// The two strategies are mutually exclusive entry points; one never falls back to the other.
type Strategy string

const (
	StrategyRaster Strategy = "raster" // draw lines on the printer device context
	StrategySpool  Strategy = "spool"  // write a temp file and pipe it through the OS print pipeline
)

// IsValid checks if the Strategy is a valid value
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyRaster, StrategySpool:
		return true
	}
	return false
}

// String returns the string representation of Strategy
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy converts a user supplied value into a Strategy.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseStrategy(value string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", NewPrintError(ErrKindConfiguration, "unknown print strategy: "+value, nil)
	}
	return s, nil
}

// AllStrategies returns all valid Strategy values
func AllStrategies() []Strategy {
	return []Strategy{StrategyRaster, StrategySpool}
}

// JobStatus represents the lifecycle of a single print call
type JobStatus string

const (
	JobStatusIdle       JobStatus = "IDLE"
	JobStatusValidating JobStatus = "VALIDATING"
	JobStatusExecuting  JobStatus = "EXECUTING"
	JobStatusSucceeded  JobStatus = "SUCCEEDED"
	JobStatusFailed     JobStatus = "FAILED"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusIdle, JobStatusValidating, JobStatusExecuting, JobStatusSucceeded, JobStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusIdle:
		return target == JobStatusValidating
	case JobStatusValidating:
		return target == JobStatusExecuting || target == JobStatusFailed
	case JobStatusExecuting:
		return target == JobStatusSucceeded || target == JobStatusFailed
	case JobStatusSucceeded, JobStatusFailed:
		return false
	}
	return false
}
