package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/roles"
	"github.com/adboard/backend/pkg/response"
)

// ConnectRequest is the body for POST /session.
type ConnectRequest struct {
	Address string `json:"address" binding:"required"`
}

// Handler issues sessions when a wallet connects.
type Handler struct {
	sessions *SessionService
	roles    *roles.CachedResolver
	logger   *zap.Logger
}

// NewHandler creates the session handler.
func NewHandler(sessions *SessionService, cached *roles.CachedResolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, roles: cached, logger: logger}
}

// Connect handles POST /session: binds the connected wallet address to a
// token and drops any cached role so the account change re-resolves.
func (h *Handler) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	address := strings.ToLower(strings.TrimSpace(req.Address))
	if !strings.HasPrefix(address, "0x") {
		response.BadRequest(c, "invalid address")
		return
	}

	h.roles.Invalidate(c.Request.Context(), address)
	role := h.roles.Resolve(c.Request.Context(), address)

	token, err := h.sessions.Generate(address)
	if err != nil {
		h.logger.Error("session generate failed", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}
	response.Created(c, gin.H{
		"token":   token,
		"address": address,
		"role":    role,
	})
}
