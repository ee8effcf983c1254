package processor

import (
	"context"
	"encoding/json"

	"github.com/team-divops/backend/internal/queue/task"
	"github.com/team-divops/backend/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

type sessionsRevokedProcessor struct {
	workers *worker.Workers
}

func NewSessionsRevokedProcessor(workers *worker.Workers) *sessionsRevokedProcessor {
	return &sessionsRevokedProcessor{
		workers: workers,
	}
}

func (p *sessionsRevokedProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SessionsRevoked
	if err := json.Unmarshal(t.Payload(), &data); err != nil {
		return errors.Wrapf(asynq.SkipRetry, "process sessions revoked task json unmarshal failed: %v", err)
	}

	if err := p.workers.EmailSender.SendSessionsRevokedEmail(ctx, data.Email, data.Count); err != nil {
		return errors.Wrap(err, "send sessions revoked email failed")
	}

	return nil
}
