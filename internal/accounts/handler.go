// Package accounts serves per-address read endpoints: owned leases, role
// and gas balance.
package accounts

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/market"
	"github.com/adboard/backend/internal/models"
	"github.com/adboard/backend/internal/roles"
	"github.com/adboard/backend/pkg/response"
)

// BalanceFunc fetches the gas balance for an address in the smallest unit.
type BalanceFunc func(ctx context.Context, address string) (models.Amount, error)

// Handler handles account HTTP endpoints.
type Handler struct {
	reader   market.Reader
	resolver roles.Resolver
	balance  BalanceFunc
	logger   *zap.Logger
}

// NewHandler creates an account handler.
func NewHandler(reader market.Reader, resolver roles.Resolver, balance BalanceFunc, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{reader: reader, resolver: resolver, balance: balance, logger: logger}
}

type leaseView struct {
	*models.LeaseNFT
	DisplayState models.DisplayState `json:"display_state"`
}

// ListLeases handles GET /accounts/:address/leases.
func (h *Handler) ListLeases(c *gin.Context) {
	address := c.Param("address")
	leases, err := h.reader.ListOwnedLeaseNFTs(c.Request.Context(), address)
	if err != nil {
		h.logger.Error("list owned leases failed", zap.String("address", address), zap.Error(err))
		response.BadGateway(c, "failed to load leases, please retry")
		return
	}
	now := time.Now()
	views := make([]leaseView, 0, len(leases))
	for _, lease := range leases {
		views = append(views, leaseView{LeaseNFT: lease, DisplayState: lease.DisplayStateAt(now)})
	}
	response.OK(c, views)
}

// GetRole handles GET /accounts/:address/role. Resolution never fails; an
// unreachable factory reads as a plain user.
func (h *Handler) GetRole(c *gin.Context) {
	address := c.Param("address")
	response.OK(c, gin.H{
		"address": address,
		"role":    h.resolver.Resolve(c.Request.Context(), address),
	})
}

// GetBalance handles GET /accounts/:address/balance.
func (h *Handler) GetBalance(c *gin.Context) {
	address := c.Param("address")
	amount, err := h.balance(c.Request.Context(), address)
	if err != nil {
		h.logger.Error("balance failed", zap.String("address", address), zap.Error(err))
		response.BadGateway(c, "failed to load balance, please retry")
		return
	}
	response.OK(c, gin.H{"address": address, "balance": amount})
}
