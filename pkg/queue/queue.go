// Package queue is the Redis-backed job queue feeding the background
// confirmation worker: transactions the synchronous workflow could not
// verify get re-checked out of band.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/confirm"
)

const (
	// QueueConfirmations is the Redis list key for recheck jobs.
	QueueConfirmations = "worker:confirmations"
	// QueueDLQ holds jobs that stayed unverifiable after all rechecks.
	QueueDLQ = "worker:confirmations:dlq"
	// MaxRetries is the number of recheck rounds before a job moves to the
	// DLQ and the stored status becomes terminal-unconfirmed.
	MaxRetries = 3
	// RetryBackoff is the delay between recheck rounds.
	RetryBackoff = 30 * time.Second
)

// RecheckPayload describes one unconfirmed transaction to re-verify.
type RecheckPayload struct {
	Digest      string              `json:"digest"`
	Expectation confirm.Expectation `json:"expectation"`
}

// Job is the queue envelope.
type Job struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue enqueues and dequeues confirmation recheck jobs via Redis.
type Queue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewQueue creates a Redis-backed queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

// EnqueueRecheck schedules an unconfirmed transaction for background
// re-verification.
func (q *Queue) EnqueueRecheck(ctx context.Context, payload RecheckPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	job := Job{
		ID:        uuid.New().String(),
		Payload:   body,
		Attempt:   0,
		CreatedAt: time.Now(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, QueueConfirmations, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	q.logger.Debug("enqueued recheck", zap.String("job_id", job.ID), zap.String("digest", payload.Digest))
	return nil
}

// Dequeue blocks until a job is available or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	result, err := q.client.BLPop(ctx, 0, QueueConfirmations).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Warn("invalid job payload", zap.String("raw", result[1]), zap.Error(err))
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues a job with incremented attempt, or moves it to the DLQ
// once MaxRetries is reached. Returns true when the job was retried.
func (q *Queue) Retry(ctx context.Context, job *Job) (bool, error) {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return false, err
	}
	if job.Attempt >= MaxRetries {
		if err := q.client.RPush(ctx, QueueDLQ, raw).Err(); err != nil {
			return false, fmt.Errorf("dlq push: %w", err)
		}
		q.logger.Warn("recheck moved to DLQ", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		return false, nil
	}
	if err := q.client.RPush(ctx, QueueConfirmations, raw).Err(); err != nil {
		return false, err
	}
	return true, nil
}
