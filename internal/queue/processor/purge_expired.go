package processor

import (
	"context"

	"github.com/team-divops/backend/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

type purgeExpiredProcessor struct {
	workers *worker.Workers
}

func NewPurgeExpiredProcessor(workers *worker.Workers) *purgeExpiredProcessor {
	return &purgeExpiredProcessor{
		workers: workers,
	}
}

func (p *purgeExpiredProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	if err := p.workers.SessionPurger.PurgeExpired(ctx); err != nil {
		return errors.Wrap(err, "purge expired sessions failed")
	}

	return nil
}
