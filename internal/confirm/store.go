package confirm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const statusTTL = 24 * time.Hour

// StatusStore keeps the latest known outcome per transaction digest in
// Redis so the frontend can re-query after an "unconfirmed" response. This
// is a cache over chain state, not a system of record.
type StatusStore struct {
	client *redis.Client
}

// NewStatusStore creates the store.
func NewStatusStore(client *redis.Client) *StatusStore {
	return &StatusStore{client: client}
}

func statusKey(digest string) string {
	return "tx:status:" + digest
}

// Set records the outcome for a digest.
func (s *StatusStore) Set(ctx context.Context, outcome Outcome) error {
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	if err := s.client.Set(ctx, statusKey(outcome.Digest), raw, statusTTL).Err(); err != nil {
		return fmt.Errorf("store outcome: %w", err)
	}
	return nil
}

// Get returns the recorded outcome for a digest, or nil when unknown.
func (s *StatusStore) Get(ctx context.Context, digest string) (*Outcome, error) {
	raw, err := s.client.Get(ctx, statusKey(digest)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load outcome: %w", err)
	}
	var outcome Outcome
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return nil, fmt.Errorf("unmarshal outcome: %w", err)
	}
	return &outcome, nil
}
