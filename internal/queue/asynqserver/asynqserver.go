package asynqserver

import (
	"fmt"

	"github.com/team-divops/backend/internal/cache"
	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/queue/processor"
	"github.com/team-divops/backend/internal/queue/task"
	"github.com/team-divops/backend/internal/worker"

	"github.com/hibiken/asynq"
)

func New(cfg *config.Config, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		cache.AsynqRedisOptions(cfg.Cache),
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

// NewScheduler registers the periodic purge of expired sessions.
func NewScheduler(cfg *config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(cache.AsynqRedisOptions(cfg.Cache), &asynq.SchedulerOpts{
		LogLevel: asynq.ErrorLevel,
	})

	if _, err := scheduler.Register(cfg.Worker.PurgeCron, task.NewPurgeExpiredSessionsTask()); err != nil {
		return nil, fmt.Errorf("register purge expired sessions task failed: %w", err)
	}

	return scheduler, nil
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.SessionsRevokedTaskName, processor.NewSessionsRevokedProcessor(workers))
	mux.Handle(task.PurgeExpiredSessionsTaskName, processor.NewPurgeExpiredProcessor(workers))
	queues := map[string]int{
		task.SessionsRevokedQueueName:      3,
		task.PurgeExpiredSessionsQueueName: 1,
	}
	return mux, queues
}
