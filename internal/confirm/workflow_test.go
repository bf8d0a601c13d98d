package confirm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/backend/internal/models"
)

// fakeReader serves scripted leases; each GetLeaseNFT call pops the next
// scripted state so tests can model slow chain convergence.
type fakeReader struct {
	leaseStates []*models.LeaseNFT
	owned       []*models.LeaseNFT
	calls       int
}

func (f *fakeReader) ListAvailableAdSpaces(ctx context.Context) ([]*models.AdSpace, error) {
	return nil, nil
}

func (f *fakeReader) GetAdSpace(ctx context.Context, id string) (*models.AdSpace, error) {
	return nil, nil
}

func (f *fakeReader) GetLeaseNFT(ctx context.Context, id string) (*models.LeaseNFT, error) {
	f.calls++
	if len(f.leaseStates) == 0 {
		return nil, nil
	}
	state := f.leaseStates[0]
	if len(f.leaseStates) > 1 {
		f.leaseStates = f.leaseStates[1:]
	}
	return state, nil
}

func (f *fakeReader) ListOwnedLeaseNFTs(ctx context.Context, owner string) ([]*models.LeaseNFT, error) {
	f.calls++
	return f.owned, nil
}

type fakeExecutor struct {
	digest string
	err    error
}

func (f fakeExecutor) Execute(ctx context.Context, txBytes string, signatures []string) (string, error) {
	return f.digest, f.err
}

func fastWorkflow(reader *fakeReader, exec Executor) *Workflow {
	return NewWorkflow(reader, exec, nil).WithSchedule(5, LinearDelay(time.Millisecond))
}

func TestRenewConfirmedOnlyWhenLeaseEndStrictlyIncreases(t *testing.T) {
	const prevEnd = int64(1_000_000)

	// The first two reads still show the old lease end; the third shows
	// the extension.
	reader := &fakeReader{leaseStates: []*models.LeaseNFT{
		{ID: "0xnft", LeaseEndMS: prevEnd},
		{ID: "0xnft", LeaseEndMS: prevEnd},
		{ID: "0xnft", LeaseEndMS: prevEnd + 86_400_000},
	}}
	w := fastWorkflow(reader, fakeExecutor{digest: "d1"})

	outcome := w.Confirm(context.Background(), "d1", Expectation{
		Action:         ActionRenew,
		Sender:         "0xsender",
		NFTID:          "0xnft",
		PrevLeaseEndMS: prevEnd,
	}, "0xsender")

	assert.Equal(t, StatusConfirmed, outcome.Status)
	require.NotNil(t, outcome.Lease)
	assert.Greater(t, outcome.Lease.LeaseEndMS, prevEnd)
}

func TestRenewUnconfirmedWhenLeaseEndNeverMoves(t *testing.T) {
	const prevEnd = int64(1_000_000)

	reader := &fakeReader{leaseStates: []*models.LeaseNFT{
		{ID: "0xnft", LeaseEndMS: prevEnd}, // == prevEnd on every read
	}}
	w := fastWorkflow(reader, fakeExecutor{digest: "d2"})

	outcome := w.Confirm(context.Background(), "d2", Expectation{
		Action:         ActionRenew,
		Sender:         "0xsender",
		NFTID:          "0xnft",
		PrevLeaseEndMS: prevEnd,
	}, "0xsender")

	assert.Equal(t, StatusUnconfirmed, outcome.Status)
	assert.Equal(t, 5, reader.calls, "all five attempts must run before giving up")
}

func TestPurchaseConfirmedWhenOwnedSetGainsActiveLease(t *testing.T) {
	now := time.Now()
	reader := &fakeReader{owned: []*models.LeaseNFT{{
		ID:           "0xnew",
		AdSpaceID:    "0x123",
		Owner:        "0xsender",
		LeaseStartMS: now.Add(-time.Hour).UnixMilli(),
		LeaseEndMS:   now.Add(24 * time.Hour).UnixMilli(),
		Active:       true,
	}}}
	w := fastWorkflow(reader, fakeExecutor{digest: "d3"})

	outcome := w.SubmitAndConfirm(context.Background(), "bytes", []string{"sig"}, Expectation{
		Action:    ActionPurchase,
		Sender:    "0xsender",
		AdSpaceID: "0x123",
	}, "0xsender")

	assert.Equal(t, StatusConfirmed, outcome.Status)
	require.NotNil(t, outcome.Lease)
	assert.Equal(t, "0xnew", outcome.Lease.ID)
}

func TestPurchaseIgnoresExpiredLeasesOnTargetSpace(t *testing.T) {
	now := time.Now()
	reader := &fakeReader{owned: []*models.LeaseNFT{{
		ID:         "0xold",
		AdSpaceID:  "0x123",
		LeaseEndMS: now.Add(-time.Hour).UnixMilli(), // already over
		Active:     true,
	}}}
	w := fastWorkflow(reader, fakeExecutor{digest: "d4"})

	outcome := w.Confirm(context.Background(), "d4", Expectation{
		Action:    ActionPurchase,
		Sender:    "0xsender",
		AdSpaceID: "0x123",
	}, "0xsender")

	assert.Equal(t, StatusUnconfirmed, outcome.Status)
}

func TestContentUpdateConfirmedOnExactURLMatch(t *testing.T) {
	reader := &fakeReader{leaseStates: []*models.LeaseNFT{
		{ID: "0xnft", ContentURL: "https://cdn.example.com/old.png"},
		{ID: "0xnft", ContentURL: "https://cdn.example.com/new.png"},
	}}
	w := fastWorkflow(reader, fakeExecutor{digest: "d5"})

	outcome := w.Confirm(context.Background(), "d5", Expectation{
		Action:     ActionContent,
		Sender:     "0xsender",
		NFTID:      "0xnft",
		ContentURL: "https://cdn.example.com/new.png",
	}, "0xsender")

	assert.Equal(t, StatusConfirmed, outcome.Status)
}

func TestExecutionFailureSurfacesVerbatim(t *testing.T) {
	w := fastWorkflow(&fakeReader{}, fakeExecutor{err: errors.New("insufficient gas balance")})

	outcome := w.SubmitAndConfirm(context.Background(), "bytes", []string{"sig"}, Expectation{
		Action: ActionRenew,
		Sender: "0xsender",
	}, "0xsender")

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, "insufficient gas balance", outcome.Error)
}

func TestAccountSwitchFailsClosed(t *testing.T) {
	// The reader would confirm immediately, but the active account no
	// longer matches the one captured at submission.
	reader := &fakeReader{owned: []*models.LeaseNFT{{
		ID: "0xnew", AdSpaceID: "0x123", Active: true,
		LeaseEndMS: time.Now().Add(time.Hour).UnixMilli(),
	}}}
	w := fastWorkflow(reader, fakeExecutor{digest: "d6"})

	outcome := w.Confirm(context.Background(), "d6", Expectation{
		Action:    ActionPurchase,
		Sender:    "0xoriginal",
		AdSpaceID: "0x123",
	}, "0xswitched")

	assert.Equal(t, StatusUnconfirmed, outcome.Status)
	assert.Zero(t, reader.calls, "no poll may run against the wrong account")
}

func TestGenericActionConfirmedByExecution(t *testing.T) {
	w := fastWorkflow(&fakeReader{}, fakeExecutor{digest: "d7"})
	outcome := w.SubmitAndConfirm(context.Background(), "bytes", []string{"sig"}, Expectation{
		Action: ActionGeneric,
		Sender: "0xadmin",
	}, "0xadmin")
	assert.Equal(t, StatusConfirmed, outcome.Status)
	assert.Equal(t, "d7", outcome.Digest)
}
