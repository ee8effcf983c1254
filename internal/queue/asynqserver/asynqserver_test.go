package asynqserver

import (
	"testing"

	"github.com/team-divops/backend/internal/queue/task"
	"github.com/team-divops/backend/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
)

func TestGetQueues(t *testing.T) {
	mux, queues := getQueues(&worker.Workers{})

	assert.Len(t, queues, 2)
	assert.Contains(t, queues, task.SessionsRevokedQueueName)
	assert.Contains(t, queues, task.PurgeExpiredSessionsQueueName)

	for _, name := range []string{task.SessionsRevokedTaskName, task.PurgeExpiredSessionsTaskName} {
		_, pattern := mux.Handler(asynq.NewTask(name, nil))
		assert.Equal(t, name, pattern)
	}
}
