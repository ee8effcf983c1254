package task

import (
	"time"

	"github.com/hibiken/asynq"
)

const (
	PurgeExpiredSessionsTaskName  = "purgeExpiredSessionsTask"
	PurgeExpiredSessionsQueueName = "maintenanceQueue"
)

func NewPurgeExpiredSessionsTask() *asynq.Task {
	return asynq.NewTask(
		PurgeExpiredSessionsTaskName,
		nil,
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
		asynq.Queue(PurgeExpiredSessionsQueueName),
	)
}
