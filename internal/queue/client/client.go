package client

import (
	"context"
	"fmt"

	"github.com/team-divops/backend/internal/queue/task"

	"github.com/hibiken/asynq"
)

// Client enqueues gateway background tasks.
type Client struct {
	client *asynq.Client
}

func New(redisOpt asynq.RedisConnOpt) *Client {
	return &Client{
		client: asynq.NewClient(redisOpt),
	}
}

func (c *Client) SessionsRevoked(ctx context.Context, email string, count int64) error {
	t, err := task.NewSessionsRevokedTask(email, count)
	if err != nil {
		return fmt.Errorf("new sessions revoked task failed: %w", err)
	}

	if _, err := c.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("enqueue sessions revoked task failed: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
