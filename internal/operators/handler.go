// Package operators serves the admin transaction builds: operator registry
// changes and the platform fee ratio.
package operators

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/middleware"
	"github.com/adboard/backend/internal/txbuilder"
	"github.com/adboard/backend/pkg/response"
)

// Handler handles operator-registry HTTP endpoints.
type Handler struct {
	builder *txbuilder.Builder
	logger  *zap.Logger
}

// NewHandler creates an operator handler.
func NewHandler(builder *txbuilder.Builder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{builder: builder, logger: logger}
}

// RegisterRequest is the body for POST /tx/operators.
type RegisterRequest struct {
	Address string `json:"address" binding:"required"`
}

// BuildRegister handles POST /tx/operators (admin).
func (h *Handler) BuildRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	tx, err := h.builder.BuildRegisterOperatorTx(middleware.Address(c), req.Address)
	if err != nil {
		buildError(c, err)
		return
	}
	response.OK(c, tx)
}

// BuildRemove handles DELETE /tx/operators/:address (admin).
func (h *Handler) BuildRemove(c *gin.Context) {
	tx, err := h.builder.BuildRemoveOperatorTx(middleware.Address(c), c.Param("address"))
	if err != nil {
		buildError(c, err)
		return
	}
	response.OK(c, tx)
}

// RatioRequest is the body for POST /tx/platform-ratio.
type RatioRequest struct {
	RatioBps uint64 `json:"ratio_bps" binding:"required"`
}

// BuildUpdateRatio handles POST /tx/platform-ratio (admin).
func (h *Handler) BuildUpdateRatio(c *gin.Context) {
	var req RatioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	tx, err := h.builder.BuildUpdatePlatformRatioTx(middleware.Address(c), req.RatioBps)
	if err != nil {
		buildError(c, err)
		return
	}
	response.OK(c, tx)
}

func buildError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, txbuilder.ErrMissingObjectID):
		response.UnprocessableEntity(c, "contract identifiers not configured: "+err.Error())
	case errors.Is(err, txbuilder.ErrInvalidParams):
		response.BadRequest(c, err.Error())
	default:
		response.Internal(c, "failed to build transaction")
	}
}
