// Package adspaces serves ad-space read endpoints and operator transaction
// builds (create, reprice).
package adspaces

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/market"
	"github.com/adboard/backend/internal/middleware"
	"github.com/adboard/backend/internal/models"
	"github.com/adboard/backend/internal/txbuilder"
	"github.com/adboard/backend/pkg/response"
)

// Handler handles ad-space HTTP endpoints.
type Handler struct {
	reader  market.Reader
	builder *txbuilder.Builder
	logger  *zap.Logger
}

// NewHandler creates an ad-space handler.
func NewHandler(reader market.Reader, builder *txbuilder.Builder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{reader: reader, builder: builder, logger: logger}
}

// List handles GET /adspaces: all currently available spaces.
func (h *Handler) List(c *gin.Context) {
	spaces, err := h.reader.ListAvailableAdSpaces(c.Request.Context())
	if err != nil {
		h.logger.Error("list ad spaces failed", zap.Error(err))
		response.BadGateway(c, "failed to load ad spaces, please retry")
		return
	}
	response.OK(c, spaces)
}

// Get handles GET /adspaces/:id.
func (h *Handler) Get(c *gin.Context) {
	space, err := h.reader.GetAdSpace(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("get ad space failed", zap.String("id", c.Param("id")), zap.Error(err))
		response.BadGateway(c, "failed to load ad space, please retry")
		return
	}
	if space == nil {
		response.NotFound(c, "ad space not found")
		return
	}
	response.OK(c, space)
}

// CreateRequest is the body for POST /tx/adspaces.
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Width       uint64 `json:"width" binding:"required"`
	Height      uint64 `json:"height" binding:"required"`
	Price       string `json:"price" binding:"required"` // smallest unit
}

// BuildCreate handles POST /tx/adspaces (operator): returns the unsigned
// create-ad-space transaction.
func (h *Handler) BuildCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	price, err := models.ParseAmount(req.Price)
	if err != nil {
		response.BadRequest(c, "invalid price: "+err.Error())
		return
	}
	tx, err := h.builder.BuildCreateAdSpaceTx(txbuilder.CreateAdSpaceParams{
		Sender:      middleware.Address(c),
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Width:       req.Width,
		Height:      req.Height,
		Price:       price,
	})
	if err != nil {
		buildError(c, err)
		return
	}
	response.OK(c, tx)
}

// UpdatePriceRequest is the body for POST /tx/adspaces/:id/price.
type UpdatePriceRequest struct {
	Price string `json:"price" binding:"required"` // smallest unit
}

// BuildUpdatePrice handles POST /tx/adspaces/:id/price (operator).
func (h *Handler) BuildUpdatePrice(c *gin.Context) {
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	price, err := models.ParseAmount(req.Price)
	if err != nil {
		response.BadRequest(c, "invalid price: "+err.Error())
		return
	}
	tx, err := h.builder.BuildUpdatePriceTx(txbuilder.UpdatePriceParams{
		Sender:    middleware.Address(c),
		AdSpaceID: c.Param("id"),
		NewPrice:  price,
	})
	if err != nil {
		buildError(c, err)
		return
	}
	response.OK(c, tx)
}

// buildError maps builder failures onto the construction-error responses
// shared by all transaction-build endpoints.
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
