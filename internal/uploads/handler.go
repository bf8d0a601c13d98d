// Package uploads prepares ad content references: either a verbatim
// external URL or a managed-storage (Walrus) upload sized to the lease.
package uploads

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/middleware"
	"github.com/adboard/backend/pkg/response"
	"github.com/adboard/backend/pkg/storage"
)

// Handler handles content-preparation HTTP endpoints.
type Handler struct {
	walrus  *storage.Walrus
	archive *storage.Archive // nil disables archiving
	logger  *zap.Logger
}

// NewHandler creates an upload handler.
func NewHandler(walrus *storage.Walrus, archive *storage.Archive, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{walrus: walrus, archive: archive, logger: logger}
}

// ExternalRequest is the JSON body for external-URL mode.
type ExternalRequest struct {
	URL string `json:"url" binding:"required"`
}

// Prepare handles POST /uploads. A multipart body enters managed-storage
// mode (file + lease_days fields); a JSON body enters external-URL mode.
// The two modes are mutually exclusive by construction.
func (h *Handler) Prepare(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.prepareManaged(c)
		return
	}
	h.prepareExternal(c)
}

func (h *Handler) prepareExternal(c *gin.Context) {
	var req ExternalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ref, err := storage.ExternalRef(req.URL)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, ref)
}

func (h *Handler) prepareManaged(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file")
		return
	}
	leaseDays, err := strconv.Atoi(c.PostForm("lease_days"))
	if err != nil || leaseDays <= 0 {
		response.BadRequest(c, "invalid lease_days")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "unreadable file")
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		response.BadRequest(c, "unreadable file")
		return
	}
	contentType := file.Header.Get("Content-Type")
	sender := middleware.Address(c)

	ref, err := h.walrus.Store(c.Request.Context(), data, contentType, leaseDays, sender)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge), errors.Is(err, storage.ErrUnsupportedFileType):
			response.BadRequest(c, err.Error())
		default:
			h.logger.Error("walrus upload failed", zap.Error(err), zap.String("sender", sender))
			response.BadGateway(c, "upload failed, please retry")
		}
		return
	}
	ref.Checksum = storage.Checksum(data)

	if h.archive != nil {
		key := storage.CreativeKey(sender, uuid.New().String()+storage.ExtensionForType(contentType))
		if _, err := h.archive.Store(c.Request.Context(), key, contentType, data, ref.BlobID); err != nil {
			// Audit copy only; the user's upload already succeeded.
			h.logger.Warn("creative archive failed", zap.Error(err), zap.String("key", key))
		}
	}

	response.OK(c, ref)
}
