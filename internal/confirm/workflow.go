package confirm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/adboard/backend/internal/market"
	"github.com/adboard/backend/internal/models"
)

// Status is the terminal state of one submit-and-confirm invocation.
type Status string

const (
	// StatusConfirmed means the expected state change was observed.
	StatusConfirmed Status = "confirmed"
	// StatusUnconfirmed means the transaction was submitted but the change
	// could not be verified within the polling budget. Soft success: the
	// user is told to refresh, never that the action failed.
	StatusUnconfirmed Status = "unconfirmed"
	// StatusFailed means signing or execution failed; nothing was submitted
	// or the contract aborted.
	StatusFailed Status = "failed"
)

// Action selects the confirmation predicate.
type Action string

const (
	// ActionPurchase confirms when the sender's owned set contains an
	// active lease bound to the target ad space.
	ActionPurchase Action = "purchase"
	// ActionRenew confirms when the lease end moved strictly past the
	// pre-submission value.
	ActionRenew Action = "renew"
	// ActionContent confirms when the lease's content URL equals the
	// submitted one.
	ActionContent Action = "content"
	// ActionGeneric has no read-model predicate; successful execution is
	// the confirmation signal.
	ActionGeneric Action = "generic"
)

// Expectation captures, at submission time, everything a later poll needs:
// the acting account, the target entities and the pre-submission state.
// Binding the sender here makes an account switch mid-confirmation fail
// closed instead of validating against the wrong owner.
type Expectation struct {
	Action         Action `json:"action"`
	Sender         string `json:"sender"`
	AdSpaceID      string `json:"ad_space_id,omitempty"`
	NFTID          string `json:"nft_id,omitempty"`
	PrevLeaseEndMS int64  `json:"prev_lease_end_ms,omitempty"`
	ContentURL     string `json:"content_url,omitempty"`
}

// Outcome is the result reported to the caller.
type Outcome struct {
	Status Status           `json:"status"`
	Digest string           `json:"digest,omitempty"`
	Error  string           `json:"error,omitempty"`
	Lease  *models.LeaseNFT `json:"lease,omitempty"`
}

// Executor submits client-signed transaction bytes for execution. The
// fullnode client satisfies this; tests substitute fakes.
type Executor interface {
	Execute(ctx context.Context, txBytes string, signatures []string) (digest string, err error)
}

// Workflow runs submissions through execution and confirmation polling.
type Workflow struct {
	reader   market.Reader
	executor Executor
	attempts int
	delay    DelayFunc
	logger   *zap.Logger
}

// NewWorkflow creates a workflow with the default polling schedule
// (5 attempts, 2s*k linear backoff).
func NewWorkflow(reader market.Reader, executor Executor, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		reader:   reader,
		executor: executor,
		attempts: DefaultAttempts,
		delay:    LinearDelay(DefaultBaseDelay),
		logger:   logger,
	}
}

// WithSchedule overrides the polling schedule; tests use short delays.
func (w *Workflow) WithSchedule(attempts int, delay DelayFunc) *Workflow {
	w.attempts = attempts
	w.delay = delay
	return w
}

// SubmitAndConfirm executes signed transaction bytes, then polls for the
// expected state change. activeSender is the account bound to the calling
// session at confirmation time; when it differs from the account captured
// in exp the workflow reports Unconfirmed without polling.
func (w *Workflow) SubmitAndConfirm(ctx context.Context, txBytes string, signatures []string, exp Expectation, activeSender string) Outcome {
	digest, err := w.executor.Execute(ctx, txBytes, signatures)
	if err != nil {
		// Surface the underlying message verbatim; no retry on execution
		// failure.
		return Outcome{Status: StatusFailed, Digest: digest, Error: err.Error()}
	}
	return w.Confirm(ctx, digest, exp, activeSender)
}

// Confirm polls the read model for the state change described by exp.
func (w *Workflow) Confirm(ctx context.Context, digest string, exp Expectation, activeSender string) Outcome {
	if activeSender != "" && activeSender != exp.Sender {
		w.logger.Warn("account changed during confirmation, failing closed",
			zap.String("digest", digest),
			zap.String("submitted_as", exp.Sender),
		)
		return Outcome{Status: StatusUnconfirmed, Digest: digest}
	}
	if exp.Action == ActionGeneric {
		// Execution already succeeded; there is no entity to re-read.
		return Outcome{Status: StatusConfirmed, Digest: digest}
	}

	var confirmed *models.LeaseNFT
	ok, err := Poll(ctx, w.attempts, w.delay, func(ctx context.Context) (bool, error) {
		lease, err := w.check(ctx, exp)
		if err != nil {
			return false, err
		}
		if lease != nil {
			confirmed = lease
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return Outcome{Status: StatusUnconfirmed, Digest: digest}
	}
	if !ok {
		w.logger.Info("confirmation budget exhausted",
			zap.String("digest", digest),
			zap.String("action", string(exp.Action)),
		)
		return Outcome{Status: StatusUnconfirmed, Digest: digest}
	}
	return Outcome{Status: StatusConfirmed, Digest: digest, Lease: confirmed}
}

// check runs one semantic comparison. It returns the refreshed lease when
// the expectation holds, nil when it does not hold yet.
func (w *Workflow) check(ctx context.Context, exp Expectation) (*models.LeaseNFT, error) {
	switch exp.Action {
	case ActionPurchase:
		leases, err := w.reader.ListOwnedLeaseNFTs(ctx, exp.Sender)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		for _, lease := range leases {
			if lease.AdSpaceID == exp.AdSpaceID && lease.DisplayStateAt(now) != models.LeaseExpired {
				return lease, nil
			}
		}
		return nil, nil
	case ActionRenew:
		lease, err := w.reader.GetLeaseNFT(ctx, exp.NFTID)
		if err != nil {
			return nil, err
		}
		if lease != nil && lease.LeaseEndMS > exp.PrevLeaseEndMS {
			return lease, nil
		}
		return nil, nil
	case ActionContent:
		lease, err := w.reader.GetLeaseNFT(ctx, exp.NFTID)
		if err != nil {
			return nil, err
		}
		if lease != nil && lease.ContentURL == exp.ContentURL {
			return lease, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}
