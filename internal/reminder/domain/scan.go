package domain

import "time"

// OutcomeStatus is what a scan did with a single due reminder
type OutcomeStatus string

const (
	OutcomeCompleted OutcomeStatus = "completed"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// ReminderOutcome records the dispatch result for one reminder
type ReminderOutcome struct {
	ReminderID      string        `json:"reminder_id"`
	Channel         Channel       `json:"channel"`
	Status          OutcomeStatus `json:"status"`
	EmailSent       bool          `json:"email_sent"`
	MessageID       string        `json:"message_id,omitempty"`
	PushSent        bool          `json:"push_sent,omitempty"`
	SuccessorID     string        `json:"successor_id,omitempty"`
	Error           string        `json:"error,omitempty"`
	RecurrenceError string        `json:"recurrence_error,omitempty"`
}

// ScanSummary aggregates the outcomes of one scan
type ScanSummary struct {
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
	ProcessedCount int               `json:"processed_count"`
	ErrorCount     int               `json:"error_count"`
	SkippedCount   int               `json:"skipped_count"`
	Outcomes       []ReminderOutcome `json:"outcomes"`
}

// Add appends an outcome and updates the counters
func (s *ScanSummary) Add(o ReminderOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case OutcomeCompleted:
		s.ProcessedCount++
	case OutcomeFailed:
		s.ErrorCount++
	case OutcomeSkipped:
		s.SkippedCount++
	}
}
