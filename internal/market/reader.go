// Package market exposes the marketplace read model. The chain is the single
// source of truth; readers hold no long-lived state. The backing
// implementation (fixtures or chain) is chosen once at construction.
package market

import (
	"context"
	"strings"

	"github.com/adboard/backend/internal/models"
)

// Reader fetches ad spaces and lease NFTs. Absence is a valid result: a
// missing or malformed identifier yields (nil, nil), never an error.
type Reader interface {
	ListAvailableAdSpaces(ctx context.Context) ([]*models.AdSpace, error)
	GetAdSpace(ctx context.Context, id string) (*models.AdSpace, error)
	GetLeaseNFT(ctx context.Context, id string) (*models.LeaseNFT, error)
	ListOwnedLeaseNFTs(ctx context.Context, owner string) ([]*models.LeaseNFT, error)
}

// validID reports whether s looks like an object id or address. Anything
// else short-circuits to absent without touching the network.
func validID(s string) bool {
	if !strings.HasPrefix(s, "0x") || len(s) < 3 {
		return false
	}
	for _, r := range s[2:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
