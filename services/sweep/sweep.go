package sweep

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	scheduleRepo "github.com/abhijeetnazar/finance-agent-whatsapp-bot/database/repository/schedule"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/scheduler"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/utils"

	"go.uber.org/zap"
)

// UpdateProducer is the slice of the agent the sweep needs.
type UpdateProducer interface {
	ProduceUpdate(ctx context.Context, phoneNumber, topic string) (string, error)
}

// MessageSender delivers the produced update.
type MessageSender interface {
	Send(ctx context.Context, phoneNumber, text string) error
}

// DeliveryLogger records successful deliveries. Optional.
type DeliveryLogger interface {
	Create(ctx context.Context, record models.DeliveryRecord) (string, error)
}

// Runner processes due reminders on each external tick.
type Runner struct {
	Repo     scheduleRepo.ScheduleRepository
	Producer UpdateProducer
	Sender   MessageSender
	// Records receives a DeliveryRecord per successful send; may be nil.
	Records DeliveryLogger
	// EntryTimeout bounds agent + send work per entry; zero means no bound.
	EntryTimeout time.Duration
}

// ProcessDue pops every entry due at or before now and processes each in
// isolation: a failure in one entry never aborts the rest, and the rearm
// decision for an entry proceeds regardless of its delivery outcome.
func (r *Runner) ProcessDue(ctx context.Context, now time.Time) (*models.SweepReport, error) {
	logger := utils.GetLogger()
	sweepTime := now.Unix()

	entries, err := r.Repo.PopDue(ctx, sweepTime)
	if err != nil {
		return nil, fmt.Errorf("failed to pop due entries: %w", err)
	}

	report := &models.SweepReport{SweepTime: sweepTime, DueCount: len(entries)}
	if len(entries) == 0 {
		return report, nil
	}
	logger.Info("Processing due reminders", zap.Int("count", len(entries)))

	for _, entry := range entries {
		report.Outcomes = append(report.Outcomes, r.processEntry(ctx, entry, sweepTime)...)
	}
	return report, nil
}

func (r *Runner) processEntry(ctx context.Context, entry models.ScheduleEntry, sweepTime int64) []models.EntryOutcome {
	logger := utils.GetLogger()
	rem := entry.Reminder

	outcome := func(status models.EntryStatus) models.EntryOutcome {
		return models.EntryOutcome{
			ReminderID:  rem.ID,
			PhoneNumber: rem.PhoneNumber,
			Topic:       rem.Topic,
			Status:      status,
		}
	}

	entryCtx := ctx
	if r.EntryTimeout > 0 {
		var cancel context.CancelFunc
		entryCtx, cancel = context.WithTimeout(ctx, r.EntryTimeout)
		defer cancel()
	}

	var outcomes []models.EntryOutcome
	outcomes = append(outcomes, r.deliver(entryCtx, rem, sweepTime, outcome))

	// Rearm decision runs on the reminder's own schedule even when delivery
	// failed: the failed firing is dropped for this cycle, not retried.
	decision := scheduler.OnFired(rem, sweepTime)
	if decision.Rearm {
		if err := r.Repo.Insert(ctx, rem, decision.NextDue); err != nil {
			logger.Error("Failed to rearm reminder", zap.String("id", rem.ID), zap.Error(err))
			o := outcome(models.EntryError)
			o.Error = fmt.Sprintf("rearm failed: %v", err)
			outcomes = append(outcomes, o)
			return outcomes
		}
		o := outcome(models.EntryRescheduled)
		o.NextDue = decision.NextDue
		outcomes = append(outcomes, o)
		return outcomes
	}
	outcomes = append(outcomes, outcome(models.EntryExpired))
	return outcomes
}

// deliver produces the update text and sends it, converting any collaborator
// failure into a per-entry error outcome.
func (r *Runner) deliver(ctx context.Context, rem models.Reminder, sweepTime int64, outcome func(models.EntryStatus) models.EntryOutcome) models.EntryOutcome {
	logger := utils.GetLogger()

	text, err := r.Producer.ProduceUpdate(ctx, rem.PhoneNumber, rem.Topic)
	if err != nil {
		logger.Error("Agent failed to produce update",
			zap.String("topic", rem.Topic), zap.Error(err))
		o := outcome(models.EntryError)
		o.Error = fmt.Sprintf("produce update: %v", err)
		return o
	}
	if text == "" {
		logger.Warn("No update text produced", zap.String("topic", rem.Topic))
		return outcome(models.EntryNoContent)
	}

	if err := r.Sender.Send(ctx, rem.PhoneNumber, text); err != nil {
		logger.Error("Failed to send update",
			zap.String("phone", rem.PhoneNumber), zap.Error(err))
		o := outcome(models.EntryError)
		o.Error = fmt.Sprintf("send: %v", err)
		return o
	}

	if r.Records != nil {
		record := models.DeliveryRecord{
			ReminderID:  rem.ID,
			PhoneNumber: rem.PhoneNumber,
			Topic:       rem.Topic,
			Preview:     preview(text),
			SentAt:      time.Unix(sweepTime, 0),
		}
		if _, err := r.Records.Create(ctx, record); err != nil {
			logger.Warn("Failed to log delivery", zap.String("id", rem.ID), zap.Error(err))
		}
	}
	return outcome(models.EntrySent)
}

// preview trims the update text for the delivery record. The cut backs up to
// a rune boundary so a multi-byte character is never split.
func preview(text string) string {
	const max = 140
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
