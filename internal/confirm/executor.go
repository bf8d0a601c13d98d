package confirm

import (
	"context"

	"github.com/google/uuid"
)

// StaticExecutor fabricates successful submissions for mock mode; nothing
// reaches a chain.
type StaticExecutor struct{}

// Execute returns a synthetic digest.
func (StaticExecutor) Execute(ctx context.Context, txBytes string, signatures []string) (string, error) {
	return "mock-" + uuid.New().String(), nil
}
