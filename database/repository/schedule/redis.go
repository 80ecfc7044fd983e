package scheduleRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"

	"github.com/go-redis/redis/v8"
)

const (
	// scheduleKey is the ZSET of reminder IDs scored by next-due unix time.
	scheduleKey = "scheduled_tasks"
	// recordsKey maps reminder ID to its serialized record.
	recordsKey = "scheduled_tasks:records"
)

// Insert stores the record and indexes it by due time in one round trip.
func (r *redisScheduleRepo) Insert(ctx context.Context, rem models.Reminder, due int64) error {
	b, err := json.Marshal(rem)
	if err != nil {
		return fmt.Errorf("failed to serialize reminder: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, recordsKey, rem.ID, b)
	pipe.ZAdd(ctx, scheduleKey, &redis.Z{Score: float64(due), Member: rem.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert schedule entry: %w", err)
	}
	return nil
}

// PopDue claims due entries one at a time. ZREM returning zero means another
// sweep already claimed that ID, so the entry is skipped; a claimed ID whose
// record has meanwhile been cancelled is skipped the same way. The claimed
// entry exists nowhere durably until the caller re-inserts it.
func (r *redisScheduleRepo) PopDue(ctx context.Context, now int64) ([]models.ScheduleEntry, error) {
	ids, err := r.client.ZRangeByScoreWithScores(ctx, scheduleKey, &redis.ZRangeBy{
		Min: "0",
		Max: strconv.FormatInt(now, 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range due entries: %w", err)
	}

	var entries []models.ScheduleEntry
	for _, z := range ids {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		removed, err := r.client.ZRem(ctx, scheduleKey, id).Result()
		if err != nil {
			return entries, fmt.Errorf("failed to claim entry %s: %w", id, err)
		}
		if removed == 0 {
			continue
		}

		data, err := r.client.HGet(ctx, recordsKey, id).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return entries, fmt.Errorf("failed to load record %s: %w", id, err)
		}
		if err := r.client.HDel(ctx, recordsKey, id).Err(); err != nil {
			return entries, fmt.Errorf("failed to delete record %s: %w", id, err)
		}

		var rem models.Reminder
		if err := json.Unmarshal([]byte(data), &rem); err != nil {
			continue
		}
		entries = append(entries, models.ScheduleEntry{Reminder: rem, NextDue: int64(z.Score)})
	}
	return entries, nil
}

func (r *redisScheduleRepo) Remove(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.ZRem(ctx, scheduleKey, id)
	pipe.HDel(ctx, recordsKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove schedule entry: %w", err)
	}
	return nil
}

func (r *redisScheduleRepo) All(ctx context.Context) ([]models.ScheduleEntry, error) {
	zs, err := r.client.ZRangeWithScores(ctx, scheduleKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}
	if len(zs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(zs))
	dues := make([]int64, 0, len(zs))
	for _, z := range zs {
		if id, ok := z.Member.(string); ok {
			ids = append(ids, id)
			dues = append(dues, int64(z.Score))
		}
	}
	records, err := r.client.HMGet(ctx, recordsKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	var entries []models.ScheduleEntry
	for i, raw := range records {
		data, ok := raw.(string)
		if !ok {
			continue
		}
		var rem models.Reminder
		if err := json.Unmarshal([]byte(data), &rem); err != nil {
			continue
		}
		entries = append(entries, models.ScheduleEntry{Reminder: rem, NextDue: dues[i]})
	}
	return entries, nil
}
