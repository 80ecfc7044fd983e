package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/config"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/sweep"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSweepRun = "sweep:run"

// InitSweepWorker starts the async worker and the periodic trigger that
// enqueues a sweep on the configured cadence (once per minute by default).
func InitSweepWorker(runner *sweep.Runner) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			// One sweep at a time; entries inside a sweep are already
			// claimed atomically, overlapping sweeps would only burn work.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSweepRun, handleSweepTask(runner))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(config.AppConfig.SweepSchedule, asynq.NewTask(TypeSweepRun, nil)); err != nil {
		log.Fatalf("[SweepWorker] failed to register sweep schedule: %v", err)
	}

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		logger := utils.GetLogger()
		logger.Info("[SweepWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("[SweepWorker] failed to start worker",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[SweepWorker] failed to start sweep trigger: %v", err)
		}
	}()
}

func handleSweepTask(runner *sweep.Runner) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		report, err := runner.ProcessDue(ctx, time.Now())
		if err != nil {
			logger.Error("[SweepHandler] 🔴 Sweep failed", zap.Error(err))
			return err
		}
		if report.DueCount == 0 {
			return nil
		}

		b, _ := json.Marshal(report.Outcomes)
		logger.Info("[SweepHandler] ⏰ Sweep complete",
			zap.Int("due", report.DueCount), zap.ByteString("outcomes", b))
		return nil
	}
}

// monitorRedisConnection pings the queue Redis periodically to detect
// failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepQueueDB,
	})

	ctx := context.Background()
	logger := utils.GetLogger()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("[SweepWorker] ⚠️ Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
