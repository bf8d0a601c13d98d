// Package storage holds the managed-storage upload adapter (Walrus) and the
// optional S3 creative archive.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adboard/backend/internal/models"
)

var (
	// ErrUploadFailed means every upload attempt was exhausted. No content
	// reference exists; callers must not build a transaction from a partial
	// result.
	ErrUploadFailed = errors.New("walrus upload failed after retries")
	// ErrInvalidExternalURL means an external content URL is not absolute.
	ErrInvalidExternalURL = errors.New("external content url must be absolute http(s)")
	// ErrFileTooLarge means the creative exceeds the configured size cap.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	// ErrUnsupportedFileType means the creative MIME type is not allowed.
	ErrUnsupportedFileType = errors.New("unsupported creative file type")
)

const (
	publishPath = "/v1/blobs"
	readPath    = "/v1/blobs"
)

// AllowedCreativeTypes maps accepted creative MIME types to extensions.
var AllowedCreativeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"video/mp4":  ".mp4",
}

// WalrusConfig holds endpoints and the retry policy for uploads.
type WalrusConfig struct {
	PublisherURL  string
	AggregatorURL string
	EpochDays     int
	Attempts      int
	Delay         time.Duration
	Timeout       time.Duration
	MaxFileSize   int64
}

// Walrus uploads creatives to the Walrus publisher and derives public read
// URLs from the aggregator.
type Walrus struct {
	cfg    WalrusConfig
	httpc  *http.Client
	logger *zap.Logger
}

// NewWalrus creates the upload adapter.
func NewWalrus(cfg WalrusConfig, logger *zap.Logger) *Walrus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.EpochDays <= 0 {
		cfg.EpochDays = 14
	}
	return &Walrus{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// EpochsForLease converts a lease length in days to a storage duration in
// epochs, rounding up so the blob outlives the lease. Minimum one epoch.
func (w *Walrus) EpochsForLease(leaseDays int) int {
	if leaseDays <= 0 {
		return 1
	}
	epochs := (leaseDays + w.cfg.EpochDays - 1) / w.cfg.EpochDays
	if epochs < 1 {
		return 1
	}
	return epochs
}

// uploadResponse matches the publisher's PUT response: exactly one of the
// two records is present.
type uploadResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			ID     string `json:"id"`
			BlobID string `json:"blobId"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobID string `json:"blobId"`
		Object string `json:"object,omitempty"`
	} `json:"alreadyCertified"`
}

// Store uploads creative bytes to the publisher, retrying a fixed number of
// times with a fixed delay. Any non-2xx response counts as a failed attempt.
// The recipient address, when set, receives the blob's storage object.
func (w *Walrus) Store(ctx context.Context, data []byte, contentType string, leaseDays int, recipient string) (*models.ContentRef, error) {
	if w.cfg.MaxFileSize > 0 && int64(len(data)) > w.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if _, ok := AllowedCreativeTypes[strings.ToLower(contentType)]; !ok {
		return nil, ErrUnsupportedFileType
	}

	target := fmt.Sprintf("%s%s?epochs=%d", strings.TrimRight(w.cfg.PublisherURL, "/"), publishPath, w.EpochsForLease(leaseDays))
	if recipient != "" {
		target += "&send_object_to=" + url.QueryEscape(recipient)
	}

	var lastErr error
	for attempt := 1; attempt <= w.cfg.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(w.cfg.Delay):
			}
		}
		ref, err := w.put(ctx, target, contentType, data)
		if err == nil {
			return ref, nil
		}
		lastErr = err
		w.logger.Warn("walrus upload attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", w.cfg.Attempts),
			zap.Error(err),
		)
	}
	return nil, fmt.Errorf("%w: %v", ErrUploadFailed, lastErr)
}

func (w *Walrus) put(ctx context.Context, target, contentType string, data []byte) (*models.ContentRef, error) {
	attemptCtx := ctx
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := w.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("publisher put: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("publisher status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("decode publisher response: %w", err)
	}

	var blobID, objectID string
	switch {
	case ur.NewlyCreated != nil:
		blobID = ur.NewlyCreated.BlobObject.BlobID
		objectID = ur.NewlyCreated.BlobObject.ID
	case ur.AlreadyCertified != nil:
		blobID = ur.AlreadyCertified.BlobID
		objectID = ur.AlreadyCertified.Object
	default:
		return nil, errors.New("publisher response missing blob record")
	}
	if blobID == "" && objectID == "" {
		return nil, errors.New("publisher response missing identifiers")
	}

	return &models.ContentRef{
		URL:           w.ReadURL(objectID, blobID),
		BlobID:        blobID,
		StorageSource: models.StorageWalrus,
	}, nil
}

// ReadURL builds the public aggregator URL. The storage object id is
// preferred; the content-addressed blob id is the fallback.
func (w *Walrus) ReadURL(objectID, blobID string) string {
	id := objectID
	if id == "" {
		id = blobID
	}
	return strings.TrimRight(w.cfg.AggregatorURL, "/") + readPath + "/" + id
}

// ExternalRef wraps a user-supplied absolute URL as a content reference.
// The URL passes through verbatim; no blob id is attached.
func ExternalRef(raw string) (*models.ContentRef, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidExternalURL
	}
	return &models.ContentRef{
		URL:           raw,
		StorageSource: models.StorageExternal,
	}, nil
}

// ExtensionForType returns the file extension for an allowed creative MIME
// type, or empty when unknown.
func ExtensionForType(contentType string) string {
	return AllowedCreativeTypes[strings.ToLower(contentType)]
}

// CreativeKey builds the archive object key: creatives/{address}/{name}.
func CreativeKey(address, name string) string {
	return path.Join("creatives", address, path.Base(name))
}
