package models

import "time"

// DisplayState is the derived lifecycle state of a lease, computed from the
// lease window and the active flag. It is never stored.
type DisplayState string

const (
	// LeasePending means the lease window has not started yet.
	LeasePending DisplayState = "pending"
	// LeaseActive means the lease window covers now and the NFT is active.
	LeaseActive DisplayState = "active"
	// LeaseExpired means the window has passed or the NFT was deactivated.
	LeaseExpired DisplayState = "expired"
)

// LeaseNFT is a billboard NFT: time-bounded display rights over one ad space.
// Timestamps are unix milliseconds, matching the chain clock.
type LeaseNFT struct {
	ID            string `json:"id"`
	AdSpaceID     string `json:"ad_space_id"`
	Owner         string `json:"owner"`
	BrandName     string `json:"brand_name"`
	ContentURL    string `json:"content_url"`
	BlobID        string `json:"blob_id,omitempty"`
	StorageSource string `json:"storage_source,omitempty"`
	ProjectURL    string `json:"project_url,omitempty"`
	LeaseStartMS  int64  `json:"lease_start_ms"`
	LeaseEndMS    int64  `json:"lease_end_ms"`
	Active        bool   `json:"active"`
}

// DisplayStateAt derives the lifecycle state at the given instant.
func (n *LeaseNFT) DisplayStateAt(now time.Time) DisplayState {
	ms := now.UnixMilli()
	switch {
	case ms < n.LeaseStartMS:
		return LeasePending
	case ms > n.LeaseEndMS || !n.Active:
		return LeaseExpired
	default:
		return LeaseActive
	}
}

// DisplayState derives the lifecycle state now.
func (n *LeaseNFT) DisplayState() DisplayState {
	return n.DisplayStateAt(time.Now())
}
