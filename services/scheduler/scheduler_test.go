package scheduler

import (
	"context"
	"testing"
	"time"

	scheduleRepo "github.com/abhijeetnazar/finance-agent-whatsapp-bot/database/repository/schedule"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, now time.Time) (*DefaultSchedulerService, scheduleRepo.ScheduleRepository) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	repo := scheduleRepo.NewRedisScheduleRepo(client)
	svc := &DefaultSchedulerService{
		Repo: repo,
		Now:  func() time.Time { return now },
	}
	return svc, repo
}

func TestScheduleFirstFiringIsDelayedOneInterval(t *testing.T) {
	now := time.Unix(100000, 0)
	svc, repo := newTestService(t, now)
	ctx := context.Background()

	_, err := svc.Schedule(ctx, "+123", "5 minutes", "forever", "AAPL")
	require.NoError(t, err)

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, now.Unix()+300, entries[0].NextDue)
	assert.NotEqual(t, now.Unix(), entries[0].NextDue)
	assert.Equal(t, "123", entries[0].Reminder.PhoneNumber)
	assert.Equal(t, int64(300), entries[0].Reminder.IntervalSeconds)
}

func TestScheduleOnce(t *testing.T) {
	now := time.Unix(100000, 0)
	svc, repo := newTestService(t, now)
	ctx := context.Background()

	confirmation, err := svc.Schedule(ctx, "123", "1 hour", "Once", "NVDA")
	require.NoError(t, err)
	assert.Contains(t, confirmation, "just once")

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Reminder.IsOneTime)
	assert.Equal(t, models.UnboundedEndTime, entries[0].Reminder.EndTime)
}

func TestScheduleForever(t *testing.T) {
	now := time.Unix(100000, 0)
	svc, repo := newTestService(t, now)
	ctx := context.Background()

	confirmation, err := svc.Schedule(ctx, "123", "1 hour", "forever", "NVDA")
	require.NoError(t, err)
	assert.Contains(t, confirmation, "every 1 hour forever")

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Reminder.IsOneTime)
	assert.Equal(t, models.UnboundedEndTime, entries[0].Reminder.EndTime)
}

func TestScheduleBoundedEndTimeHasHalfIntervalPad(t *testing.T) {
	now := time.Unix(100000, 0)
	svc, repo := newTestService(t, now)
	ctx := context.Background()

	_, err := svc.Schedule(ctx, "123", "1 hour", "2 days", "NVDA")
	require.NoError(t, err)

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// end = now + 2*84600 + 3600/2
	assert.Equal(t, now.Unix()+169200+1800, entries[0].Reminder.EndTime)
}

func TestOnFiredOneTimeAlwaysRetires(t *testing.T) {
	rem := models.Reminder{IsOneTime: true, IntervalSeconds: 60, EndTime: models.UnboundedEndTime}
	for _, fire := range []int64{0, 1000, 1 << 40} {
		decision := OnFired(rem, fire)
		assert.False(t, decision.Rearm)
	}
}

func TestOnFiredForeverAlwaysRearms(t *testing.T) {
	rem := models.Reminder{IntervalSeconds: 300, EndTime: models.UnboundedEndTime}
	fire := int64(1000)
	for i := 0; i < 10000; i++ {
		decision := OnFired(rem, fire)
		require.True(t, decision.Rearm)
		require.Equal(t, fire+300, decision.NextDue)
		fire = decision.NextDue
	}
}

// countFirings walks the fire/rearm loop with sweeps landing exactly on the
// due times and returns how many times the reminder fires before retiring.
func countFirings(rem models.Reminder, firstDue int64) int {
	fires := 0
	due := firstDue
	for {
		fires++
		decision := OnFired(rem, due)
		if !decision.Rearm {
			return fires
		}
		due = decision.NextDue
	}
}

func TestOnFiredBoundedFiringCounts(t *testing.T) {
	now := int64(100000)

	// "1 hour" for "2 days": interval divides the duration exactly, so the
	// final firing lands exactly at the end of the requested window and the
	// pad keeps it alive: 169200/3600 firings in total.
	rem := models.Reminder{
		IntervalSeconds: 3600,
		EndTime:         now + 169200 + 1800,
	}
	assert.Equal(t, 47, countFirings(rem, now+3600))

	// "2 hours" for "3 hours": a naive cutoff would stop after the single
	// firing inside the window; the half-interval pad allows one extra,
	// floor(10800/7200)+1 = 2.
	rem = models.Reminder{
		IntervalSeconds: 7200,
		EndTime:         now + 10800 + 3600,
	}
	assert.Equal(t, 2, countFirings(rem, now+7200))
}

func TestCancelAllAndByTopic(t *testing.T) {
	now := time.Unix(100000, 0)
	svc, repo := newTestService(t, now)
	ctx := context.Background()

	mustSchedule := func(phone, topic string) {
		_, err := svc.Schedule(ctx, phone, "1 hour", "forever", topic)
		require.NoError(t, err)
	}
	mustSchedule("123", "AAPL stock")
	mustSchedule("123", "NVDA earnings")
	mustSchedule("456", "AAPL stock")

	// Topic-filtered cancel is case-insensitive substring match and leaves
	// the user's other reminders intact.
	count, err := svc.Cancel(ctx, "123", "aapl")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Unfiltered cancel removes everything for the number, nothing else.
	count, err = svc.Cancel(ctx, "123", "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries, err = repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "456", entries[0].Reminder.PhoneNumber)

	// Cancelling with no matches is a zero-count success.
	count, err = svc.Cancel(ctx, "999", "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListRoundTrip(t *testing.T) {
	now := time.Unix(100000, 0)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	_, err := svc.Schedule(ctx, "123", "5 minutes", "forever", "AAPL")
	require.NoError(t, err)

	summaries, err := svc.List(ctx, "123")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Contains(t, summaries[0], "AAPL")
	assert.Contains(t, summaries[0], "Every 5 min")

	none, err := svc.List(ctx, "999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListSortedByNextDue(t *testing.T) {
	now := time.Unix(100000, 0)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	_, err := svc.Schedule(ctx, "123", "1 day", "forever", "slow topic")
	require.NoError(t, err)
	_, err = svc.Schedule(ctx, "123", "5 minutes", "forever", "fast topic")
	require.NoError(t, err)

	summaries, err := svc.List(ctx, "123")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Contains(t, summaries[0], "fast topic")
	assert.Contains(t, summaries[1], "slow topic")
}
