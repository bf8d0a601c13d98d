// Package roles derives an account's access level from two read-only
// factory queries. Resolution never fails: inconclusive queries default to
// the plain user role.
package roles

import (
	"context"

	"go.uber.org/zap"

	"github.com/adboard/backend/internal/chain"
	"github.com/adboard/backend/internal/models"
)

// Resolver maps an address to a role.
type Resolver interface {
	Resolve(ctx context.Context, address string) models.Role
}

// ChainResolver issues is_admin and is_operator simulated calls against the
// factory with the candidate address as the caller.
type ChainResolver struct {
	client    *chain.Client
	packageID string
	module    string
	factoryID string
	logger    *zap.Logger
}

// NewChainResolver creates a factory-backed resolver.
func NewChainResolver(client *chain.Client, packageID, module, factoryID string, logger *zap.Logger) *ChainResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainResolver{
		client:    client,
		packageID: packageID,
		module:    module,
		factoryID: factoryID,
		logger:    logger,
	}
}

// Resolve runs both queries independently and combines them with
// administrator precedence. Query failures are treated as false, never
// propagated: the caller always gets a role.
func (r *ChainResolver) Resolve(ctx context.Context, address string) models.Role {
	isAdmin := r.query(ctx, address, "is_admin")
	isOperator := r.query(ctx, address, "is_operator")
	return models.RoleFrom(isAdmin, isOperator)
}

func (r *ChainResolver) query(ctx context.Context, address, function string) bool {
	raw, err := r.client.InspectCall(ctx, address, r.packageID, r.module, function, []any{r.factoryID, address})
	if err != nil {
		r.logger.Debug("role query inconclusive",
			zap.String("function", function),
			zap.String("address", address),
			zap.Error(err),
		)
		return false
	}
	return chain.DecodeBool(raw)
}

// StaticResolver returns a fixed role for every address; mock mode uses it
// so privileged flows stay reachable without a chain.
type StaticResolver struct {
	Role models.Role
}

// Resolve returns the fixed role.
func (r StaticResolver) Resolve(ctx context.Context, address string) models.Role {
	return r.Role
}
