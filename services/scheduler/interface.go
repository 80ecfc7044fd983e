package scheduler

import (
	"context"
	"time"

	scheduleRepo "github.com/abhijeetnazar/finance-agent-whatsapp-bot/database/repository/schedule"
)

// SchedulerService manages the reminder lifecycle: creation, cancellation
// and listing. Firing decisions are made by OnFired.
type SchedulerService interface {
	// Schedule creates a reminder and returns a human-readable confirmation.
	// The first firing happens one interval from now, never synchronously.
	Schedule(ctx context.Context, phoneNumber, intervalText, durationText, topic string) (string, error)
	// Cancel removes the user's reminders, optionally narrowed to topics
	// containing topicFilter (case-insensitive). Removing zero is a success.
	Cancel(ctx context.Context, phoneNumber, topicFilter string) (int, error)
	// List returns one formatted summary per active reminder for the user,
	// ordered by next firing time.
	List(ctx context.Context, phoneNumber string) ([]string, error)
}

// DefaultSchedulerService is the ScheduleRepository-backed implementation.
type DefaultSchedulerService struct {
	Repo scheduleRepo.ScheduleRepository
	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultSchedulerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
