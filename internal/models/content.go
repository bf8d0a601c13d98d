package models

// StorageSource tags where a creative's bytes live.
const (
	StorageWalrus   = "walrus"
	StorageExternal = "external"
)

// ContentRef is the transient result of preparing ad content: a public URL
// plus, for managed storage, the blob identifier. It is consumed immediately
// by transaction building and never persisted.
type ContentRef struct {
	URL           string `json:"url"`
	BlobID        string `json:"blob_id,omitempty"`
	StorageSource string `json:"storage_source"`
	Checksum      string `json:"checksum,omitempty"` // blake2b-256 of the uploaded bytes, hex
}
