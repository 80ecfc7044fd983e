package models

import (
	"fmt"
	"time"
)

// UnboundedEndTime marks a reminder that keeps firing until cancelled.
const UnboundedEndTime int64 = -1

// Reminder is a user's durable request for recurring or one-time topic updates.
// All fields except the generated ID come from the scheduling request and are
// immutable after creation.
type Reminder struct {
	ID              string `json:"id"`
	PhoneNumber     string `json:"phone_number"`
	Topic           string `json:"topic"`
	IntervalSeconds int64  `json:"interval_seconds"`
	IsOneTime       bool   `json:"is_one_time"`
	// EndTime is a unix timestamp past which the reminder no longer fires,
	// or UnboundedEndTime.
	EndTime   int64 `json:"end_time"`
	CreatedAt int64 `json:"created_at"`
}

// ScheduleEntry pairs a reminder with its next firing timestamp as stored.
type ScheduleEntry struct {
	Reminder Reminder
	// NextDue is the unix timestamp of the next firing.
	NextDue int64
}

// IntervalLabel renders the interval as whole minutes, hours or days.
func (r Reminder) IntervalLabel() string {
	switch {
	case r.IntervalSeconds < 3600:
		return fmt.Sprintf("%d min", r.IntervalSeconds/60)
	case r.IntervalSeconds < 86400:
		return fmt.Sprintf("%d hr", r.IntervalSeconds/3600)
	default:
		return fmt.Sprintf("%d day", r.IntervalSeconds/86400)
	}
}

// Summary renders the reminder the way it is shown in a schedule listing.
func (r Reminder) Summary(nextDue int64) string {
	status := "Once"
	if !r.IsOneTime {
		status = "Every " + r.IntervalLabel()
	}
	next := time.Unix(nextDue, 0).Format("15:04")
	return fmt.Sprintf("⏰ *%s* (%s) - Next: %s", r.Topic, status, next)
}
