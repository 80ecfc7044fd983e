package models

// EntryStatus classifies what happened to one due entry during a sweep.
type EntryStatus string

const (
	EntrySent        EntryStatus = "sent"
	EntryNoContent   EntryStatus = "no_content"
	EntryRescheduled EntryStatus = "rescheduled"
	EntryExpired     EntryStatus = "expired"
	EntryError       EntryStatus = "error"
)

// EntryOutcome records the result of processing a single due entry.
// A single entry can carry two outcomes in a report, one for the delivery
// attempt and one for the rearm decision.
type EntryOutcome struct {
	ReminderID  string      `json:"reminderId"`
	PhoneNumber string      `json:"phoneNumber"`
	Topic       string      `json:"topic"`
	Status      EntryStatus `json:"status"`
	// NextDue is set when Status is EntryRescheduled.
	NextDue int64 `json:"nextDue,omitempty"`
	// Error holds the failure message when Status is EntryError.
	Error string `json:"error,omitempty"`
}

// SweepReport summarizes one invocation of due-task processing.
type SweepReport struct {
	SweepTime int64          `json:"sweepTime"`
	DueCount  int            `json:"dueCount"`
	Outcomes  []EntryOutcome `json:"outcomes"`
}
