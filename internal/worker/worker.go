// Package worker rechecks transactions the synchronous workflow reported
// as unconfirmed, promoting them to confirmed when the state change
// eventually shows up.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adboard/backend/internal/confirm"
	"github.com/adboard/backend/pkg/queue"
)

// ConfirmationProcessor re-runs confirmation predicates for queued digests.
type ConfirmationProcessor struct {
	workflow *confirm.Workflow
	statuses *confirm.StatusStore
	queue    *queue.Queue
	logger   *zap.Logger
}

// NewConfirmationProcessor creates a recheck processor.
func NewConfirmationProcessor(workflow *confirm.Workflow, statuses *confirm.StatusStore, q *queue.Queue, logger *zap.Logger) *ConfirmationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfirmationProcessor{workflow: workflow, statuses: statuses, queue: q, logger: logger}
}

// Process executes one recheck job. It returns an error only when the job
// should be retried.
func (p *ConfirmationProcessor) Process(ctx context.Context, job *queue.Job) error {
	var payload queue.RecheckPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	// The worker has no live session; the expectation's captured sender is
	// authoritative here.
	outcome := p.workflow.Confirm(ctx, payload.Digest, payload.Expectation, payload.Expectation.Sender)
	if err := p.statuses.Set(ctx, outcome); err != nil {
		p.logger.Warn("status store failed", zap.Error(err), zap.String("digest", payload.Digest))
	}
	if outcome.Status != confirm.StatusConfirmed {
		return fmt.Errorf("digest %s still unconfirmed", payload.Digest)
	}
	p.logger.Info("recheck confirmed", zap.String("digest", payload.Digest), zap.String("action", string(payload.Expectation.Action)))
	return nil
}

// Run starts the worker loop: dequeue, recheck, retry with backoff until
// the queue moves the job to the DLQ.
func (p *ConfirmationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("confirmation worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.Process(ctx, job); err != nil {
			p.logger.Debug("recheck not confirmed", zap.String("job_id", job.ID), zap.Error(err))
			if _, reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
