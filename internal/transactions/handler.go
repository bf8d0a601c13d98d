// Package transactions executes signed transactions and reports
// confirmation outcomes.
package transactions

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/confirm"
	"github.com/adboard/backend/internal/middleware"
	"github.com/adboard/backend/pkg/queue"
	"github.com/adboard/backend/pkg/response"
)

// Handler handles transaction submission and status endpoints.
type Handler struct {
	workflow *confirm.Workflow
	statuses *confirm.StatusStore
	queue    *queue.Queue
	logger   *zap.Logger
}

// NewHandler creates a transaction handler.
func NewHandler(workflow *confirm.Workflow, statuses *confirm.StatusStore, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{workflow: workflow, statuses: statuses, queue: q, logger: logger}
}

// SubmitRequest is the body for POST /tx/submit: wallet-signed transaction
// bytes plus the expectation returned by the build endpoint.
type SubmitRequest struct {
	TxBytes     string              `json:"tx_bytes" binding:"required"`
	Signatures  []string            `json:"signatures" binding:"required"`
	Expectation confirm.Expectation `json:"expectation" binding:"required"`
}

// Submit handles POST /tx/submit: execute, then poll for the expected state
// change. Unconfirmed outcomes are queued for background recheck and
// reported as a soft success.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	sender := middleware.Address(c)
	if req.Expectation.Sender != sender {
		response.Forbidden(c, "expectation was built for a different account, reconnect and rebuild")
		return
	}

	outcome := h.workflow.SubmitAndConfirm(c.Request.Context(), req.TxBytes, req.Signatures, req.Expectation, sender)
	if outcome.Digest != "" {
		if err := h.statuses.Set(c.Request.Context(), outcome); err != nil {
			h.logger.Warn("status store failed", zap.Error(err), zap.String("digest", outcome.Digest))
		}
	}

	switch outcome.Status {
	case confirm.StatusFailed:
		response.BadRequest(c, outcome.Error)
	case confirm.StatusUnconfirmed:
		if err := h.queue.EnqueueRecheck(c.Request.Context(), queue.RecheckPayload{
			Digest:      outcome.Digest,
			Expectation: req.Expectation,
		}); err != nil {
			h.logger.Warn("recheck enqueue failed", zap.Error(err), zap.String("digest", outcome.Digest))
		}
		response.Accepted(c, gin.H{
			"outcome": outcome,
			"message": "submitted, could not verify yet - refresh later",
		})
	default:
		response.OK(c, outcome)
	}
}

// Status handles GET /transactions/:digest/status.
func (h *Handler) Status(c *gin.Context) {
	outcome, err := h.statuses.Get(c.Request.Context(), c.Param("digest"))
	if err != nil {
		h.logger.Error("status load failed", zap.Error(err))
		response.Internal(c, "failed to load transaction status")
		return
	}
	if outcome == nil {
		response.NotFound(c, "unknown transaction")
		return
	}
	response.OK(c, outcome)
}
