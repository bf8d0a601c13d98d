// Package leases serves lease-NFT read endpoints and the purchase / renew /
// content-update transaction builds. Every build re-reads the chain first:
// the client never supplies prices or pre-states on its own authority.
package leases

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/confirm"
	"github.com/adboard/backend/internal/market"
	"github.com/adboard/backend/internal/middleware"
	"github.com/adboard/backend/internal/models"
	"github.com/adboard/backend/internal/txbuilder"
	"github.com/adboard/backend/pkg/response"
)

// Handler handles lease-NFT HTTP endpoints.
type Handler struct {
	reader  market.Reader
	builder *txbuilder.Builder
	logger  *zap.Logger
}

// NewHandler creates a lease handler.
func NewHandler(reader market.Reader, builder *txbuilder.Builder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{reader: reader, builder: builder, logger: logger}
}

// BuildResult pairs an unsigned transaction with the expectation the submit
// endpoint later uses to verify the state change.
type BuildResult struct {
	Request     *txbuilder.Request  `json:"request"`
	Expectation confirm.Expectation `json:"expectation"`
}

// Get handles GET /leases/:id. The display state is derived on read.
func (h *Handler) Get(c *gin.Context) {
	lease, err := h.reader.GetLeaseNFT(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("get lease failed", zap.String("id", c.Param("id")), zap.Error(err))
		response.BadGateway(c, "failed to load lease, please retry")
		return
	}
	if lease == nil {
		response.NotFound(c, "lease not found")
		return
	}
	response.OK(c, gin.H{"lease": lease, "display_state": lease.DisplayState()})
}

// PurchaseRequest is the body for POST /tx/purchase.
type PurchaseRequest struct {
	AdSpaceID     string `json:"ad_space_id" binding:"required"`
	BrandName     string `json:"brand_name" binding:"required"`
	ContentURL    string `json:"content_url" binding:"required"`
	ProjectURL    string `json:"project_url"`
	LeaseDays     uint64 `json:"lease_days" binding:"required"`
	StartTimeMS   *int64 `json:"start_time_ms"`
	BlobID        string `json:"blob_id"`
	StorageSource string `json:"storage_source"`
}

// BuildPurchase handles POST /tx/purchase: re-reads the ad space, builds a
// purchase transaction paying exactly the current price, and returns it
// with a purchase expectation bound to the session account.
func (h *Handler) BuildPurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	sender := middleware.Address(c)

	space, err := h.reader.GetAdSpace(c.Request.Context(), req.AdSpaceID)
	if err != nil {
		response.BadGateway(c, "failed to load ad space, please retry")
		return
	}
	if space == nil {
		response.NotFound(c, "ad space not found")
		return
	}
	if !space.Available {
		response.BadRequest(c, "ad space is not available")
		return
	}

	source := req.StorageSource
	if source == "" {
		source = models.StorageExternal
	}
	tx, err := h.builder.BuildPurchaseTx(txbuilder.PurchaseParams{
		Sender:        sender,
		AdSpaceID:     space.ID,
		Price:         space.Price,
		BrandName:     req.BrandName,
		ContentURL:    req.ContentURL,
		ProjectURL:    req.ProjectURL,
		LeaseDays:     req.LeaseDays,
		StartTimeMS:   req.StartTimeMS,
		BlobID:        req.BlobID,
		StorageSource: source,
	})
	if err != nil {
		buildError(c, err)
		return
	}
	response.OK(c, BuildResult{
		Request: tx,
		Expectation: confirm.Expectation{
			Action:    confirm.ActionPurchase,
			Sender:    sender,
			AdSpaceID: space.ID,
		},
	})
}

// RenewRequest is the body for POST /tx/renew.
type RenewRequest struct {
	NFTID     string `json:"nft_id" binding:"required"`
	LeaseDays uint64 `json:"lease_days" binding:"required"`
}

// BuildRenew handles POST /tx/renew: captures the pre-submission lease end
// so confirmation can require a strictly greater value.
func (h *Handler) BuildRenew(c *gin.Context) {
	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	sender := middleware.Address(c)

	lease, err := h.reader.GetLeaseNFT(c.Request.Context(), req.NFTID)
	if err != nil {
		response.BadGateway(c, "failed to load lease, please retry")
		return
	}
	if lease == nil {
		response.NotFound(c, "lease not found")
		return
	}
	if lease.Owner != "" && lease.Owner != sender {
		response.Forbidden(c, "only the lease owner can renew")
		return
	}
	space, err := h.reader.GetAdSpace(c.Request.Context(), lease.AdSpaceID)
	if err != nil {
		response.BadGateway(c, "failed to load ad space, please retry")
		return
	}
	if space == nil {
		response.NotFound(c, "ad space not found")
		return
	}

	tx, err := h.builder.BuildRenewTx(txbuilder.RenewParams{
		Sender:    sender,
		NFTID:     lease.ID,
		AdSpaceID: space.ID,
		Price:     space.Price,
		LeaseDays: req.LeaseDays,
	})
	if err != nil {
		buildError(c, err)
		return
	}
	response.OK(c, BuildResult{
		Request: tx,
		Expectation: confirm.Expectation{
			Action:         confirm.ActionRenew,
			Sender:         sender,
			NFTID:          lease.ID,
			PrevLeaseEndMS: lease.LeaseEndMS,
		},
	})
}

// UpdateContentRequest is the body for POST /tx/content.
type UpdateContentRequest struct {
	NFTID         string `json:"nft_id" binding:"required"`
	ContentURL    string `json:"content_url" binding:"required"`
	BlobID        string `json:"blob_id"`
	StorageSource string `json:"storage_source"`
}

// BuildUpdateContent handles POST /tx/content.
func (h *Handler) BuildUpdateContent(c *gin.Context) {
	var req UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	sender := middleware.Address(c)

	lease, err := h.reader.GetLeaseNFT(c.Request.Context(), req.NFTID)
	if err != nil {
		response.BadGateway(c, "failed to load lease, please retry")
		return
	}
	if lease == nil {
		response.NotFound(c, "lease not found")
		return
	}
	if lease.Owner != "" && lease.Owner != sender {
		response.Forbidden(c, "only the lease owner can update content")
		return
	}

	source := req.StorageSource
	if source == "" {
		source = models.StorageExternal
	}
	tx, err := h.builder.BuildUpdateContentTx(txbuilder.UpdateContentParams{
		Sender:        sender,
		NFTID:         lease.ID,
		ContentURL:    req.ContentURL,
		BlobID:        req.BlobID,
		StorageSource: source,
	})
	if err != nil {
		buildError(c, err)
		return
	}
	response.OK(c, BuildResult{
		Request: tx,
		Expectation: confirm.Expectation{
			Action:     confirm.ActionContent,
			Sender:     sender,
			NFTID:      lease.ID,
			ContentURL: req.ContentURL,
		},
	})
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
