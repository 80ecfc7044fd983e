package scheduleRepo

import (
	"context"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"

	"github.com/go-redis/redis/v8"
)

// ScheduleRepository is the durable, time-ordered store of pending reminders.
type ScheduleRepository interface {
	// Insert stores the reminder with the given next-due unix timestamp.
	Insert(ctx context.Context, rem models.Reminder, due int64) error
	// PopDue atomically claims and removes every entry due at or before now,
	// in ascending due order. An entry claimed by a concurrent sweep is
	// skipped, never returned twice.
	PopDue(ctx context.Context, now int64) ([]models.ScheduleEntry, error)
	// Remove deletes the entry with the given reminder ID. Removing a
	// missing ID is a no-op.
	Remove(ctx context.Context, id string) error
	// All returns every stored entry with its due timestamp, ascending by due.
	All(ctx context.Context) ([]models.ScheduleEntry, error)
}

type redisScheduleRepo struct {
	client *redis.Client
}

// NewRedisScheduleRepo returns a ScheduleRepository backed by the given
// Redis client.
func NewRedisScheduleRepo(client *redis.Client) ScheduleRepository {
	return &redisScheduleRepo{client: client}
}
