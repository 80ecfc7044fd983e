package scheduleRepo

import (
	"context"
	"testing"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) ScheduleRepository {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewRedisScheduleRepo(client)
}

func testReminder(id, phone, topic string) models.Reminder {
	return models.Reminder{
		ID:              id,
		PhoneNumber:     phone,
		Topic:           topic,
		IntervalSeconds: 3600,
		EndTime:         models.UnboundedEndTime,
		CreatedAt:       1000,
	}
}

func TestInsertAndAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testReminder("b", "123", "AAPL"), 2000))
	require.NoError(t, repo.Insert(ctx, testReminder("a", "123", "NVDA"), 1500))

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ascending by due time.
	assert.Equal(t, "a", entries[0].Reminder.ID)
	assert.Equal(t, int64(1500), entries[0].NextDue)
	assert.Equal(t, "b", entries[1].Reminder.ID)
	assert.Equal(t, int64(2000), entries[1].NextDue)
	assert.Equal(t, "NVDA", entries[0].Reminder.Topic)
}

func TestPopDueClaimsAndRemoves(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testReminder("due1", "123", "AAPL"), 900))
	require.NoError(t, repo.Insert(ctx, testReminder("due2", "123", "NVDA"), 1000))
	require.NoError(t, repo.Insert(ctx, testReminder("future", "123", "TSLA"), 5000))

	popped, err := repo.PopDue(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, popped, 2)
	assert.Equal(t, "due1", popped[0].Reminder.ID)
	assert.Equal(t, "due2", popped[1].Reminder.ID)

	// Popped entries are gone; the future entry stays.
	remaining, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "future", remaining[0].Reminder.ID)

	// A second sweep at the same time finds nothing.
	again, err := repo.PopDue(ctx, 1000)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestPopDueNothingDue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testReminder("x", "123", "AAPL"), 5000))

	popped, err := repo.PopDue(ctx, 1000)
	require.NoError(t, err)
	assert.Empty(t, popped)
}

func TestRemove(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testReminder("x", "123", "AAPL"), 2000))
	require.NoError(t, repo.Remove(ctx, "x"))

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Removing a missing ID is a no-op.
	require.NoError(t, repo.Remove(ctx, "missing"))
}

func TestReinsertAfterPop(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rem := testReminder("r", "123", "AAPL")
	require.NoError(t, repo.Insert(ctx, rem, 1000))

	popped, err := repo.PopDue(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, popped, 1)

	// Rearm at a later due time round-trips the full record.
	require.NoError(t, repo.Insert(ctx, popped[0].Reminder, 4600))
	entries, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, rem, entries[0].Reminder)
	assert.Equal(t, int64(4600), entries[0].NextDue)
}
