package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	SessionsRevokedTaskName  = "sessionsRevokedEmailTask"
	SessionsRevokedQueueName = "notificationsQueue"
)

type SessionsRevoked struct {
	Email string `json:"email"`
	Count int64  `json:"count"`
}

func NewSessionsRevokedTask(email string, count int64) (*asynq.Task, error) {
	payload, err := json.Marshal(SessionsRevoked{Email: email, Count: count})
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		SessionsRevokedTaskName,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(SessionsRevokedQueueName),
	), nil
}
