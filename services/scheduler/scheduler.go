package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"

	"github.com/google/uuid"
)

// Decision is the outcome of a firing: rearm at NextDue, or retire.
type Decision struct {
	Rearm   bool
	NextDue int64
}

// NormalizePhone strips the leading "+" so numbers compare equal regardless
// of how the channel formatted them.
func NormalizePhone(phoneNumber string) string {
	return strings.TrimPrefix(strings.TrimSpace(phoneNumber), "+")
}

// Schedule creates the reminder and inserts it due one interval from now.
func (s *DefaultSchedulerService) Schedule(ctx context.Context, phoneNumber, intervalText, durationText, topic string) (string, error) {
	intervalSecs, _ := ParseToSeconds(intervalText)
	now := s.now().Unix()

	durationText = strings.TrimSpace(durationText)
	isOneTime := strings.EqualFold(durationText, "once")

	endTime := models.UnboundedEndTime
	if !isOneTime && !strings.EqualFold(durationText, "forever") {
		durationSecs, _ := ParseToSeconds(durationText)
		// The half-interval pad keeps the last requested firing alive when
		// the sweep cadence drifts past the naive cutoff.
		endTime = now + durationSecs + intervalSecs/2
	}

	rem := models.Reminder{
		ID:              uuid.New().String(),
		PhoneNumber:     NormalizePhone(phoneNumber),
		Topic:           topic,
		IntervalSeconds: intervalSecs,
		IsOneTime:       isOneTime,
		EndTime:         endTime,
		CreatedAt:       now,
	}

	if err := s.Repo.Insert(ctx, rem, now+intervalSecs); err != nil {
		return "", fmt.Errorf("failed to schedule reminder: %w", err)
	}

	var cadence string
	switch {
	case isOneTime:
		cadence = "just once"
	case endTime == models.UnboundedEndTime:
		cadence = fmt.Sprintf("every %s forever", intervalText)
	default:
		cadence = fmt.Sprintf("every %s for %s", intervalText, durationText)
	}
	return fmt.Sprintf("Scheduled %s update for %s %s.", topic, rem.PhoneNumber, cadence), nil
}

// OnFired decides whether a reminder that just fired lives on. A recurring
// reminder is rearmed while fireTime + interval/2 is still before its end
// time; the half-interval look-ahead deliberately allows one extra firing
// past a naive cutoff so the user gets their last requested update.
func OnFired(rem models.Reminder, fireTime int64) Decision {
	if rem.IsOneTime {
		return Decision{}
	}
	if rem.EndTime == models.UnboundedEndTime || fireTime+rem.IntervalSeconds/2 < rem.EndTime {
		return Decision{Rearm: true, NextDue: fireTime + rem.IntervalSeconds}
	}
	return Decision{}
}

// Cancel removes matching reminders and reports how many were removed.
func (s *DefaultSchedulerService) Cancel(ctx context.Context, phoneNumber, topicFilter string) (int, error) {
	entries, err := s.Repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to scan reminders: %w", err)
	}

	phoneNumber = NormalizePhone(phoneNumber)
	topicFilter = strings.ToLower(strings.TrimSpace(topicFilter))

	removed := 0
	for _, e := range entries {
		if e.Reminder.PhoneNumber != phoneNumber {
			continue
		}
		if topicFilter != "" && !strings.Contains(strings.ToLower(e.Reminder.Topic), topicFilter) {
			continue
		}
		if err := s.Repo.Remove(ctx, e.Reminder.ID); err != nil {
			return removed, fmt.Errorf("failed to remove reminder %s: %w", e.Reminder.ID, err)
		}
		removed++
	}
	return removed, nil
}

// List returns formatted summaries of the user's reminders, soonest first.
func (s *DefaultSchedulerService) List(ctx context.Context, phoneNumber string) ([]string, error) {
	entries, err := s.Repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reminders: %w", err)
	}

	phoneNumber = NormalizePhone(phoneNumber)
	var summaries []string
	for _, e := range entries {
		if e.Reminder.PhoneNumber != phoneNumber {
			continue
		}
		summaries = append(summaries, e.Reminder.Summary(e.NextDue))
	}
	return summaries, nil
}
