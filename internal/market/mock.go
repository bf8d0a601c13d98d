package market

import (
	"context"
	"time"

	"github.com/adboard/backend/internal/models"
)

// MockReader serves fixture data for development and demos without a chain
// connection. Fixtures are copied on every read so callers can't mutate them.
type MockReader struct{}

// NewMockReader creates a fixture-backed reader.
func NewMockReader() *MockReader {
	return &MockReader{}
}

var mockAdSpaces = []models.AdSpace{
	{
		ID:          "0x123",
		Name:        "Times Square Billboard",
		Description: "Premium digital billboard in the heart of the metaverse",
		Location:    "Virtual Times Square",
		Width:       1920,
		Height:      1080,
		Price:       models.Amount(100_000_000),
		Available:   true,
		Creator:     "0xoperator1",
	},
	{
		ID:          "0x456",
		Name:        "Highway 101 Banner",
		Description: "High-traffic roadside banner",
		Location:    "Virtual Highway 101",
		Width:       1280,
		Height:      400,
		Price:       models.Amount(50_000_000),
		Available:   true,
		Creator:     "0xoperator1",
	},
}

var mockLeases = []models.LeaseNFT{
	{
		ID:            "0xabc",
		AdSpaceID:     "0x789",
		Owner:         "0xbuyer1",
		BrandName:     "Acme Rockets",
		ContentURL:    "https://example.com/creative.png",
		StorageSource: models.StorageExternal,
		ProjectURL:    "https://acme.example.com",
		LeaseStartMS:  time.Now().Add(-24 * time.Hour).UnixMilli(),
		LeaseEndMS:    time.Now().Add(29 * 24 * time.Hour).UnixMilli(),
		Active:        true,
	},
}

// ListAvailableAdSpaces returns the fixture ad spaces.
func (r *MockReader) ListAvailableAdSpaces(ctx context.Context) ([]*models.AdSpace, error) {
	out := make([]*models.AdSpace, 0, len(mockAdSpaces))
	for i := range mockAdSpaces {
		space := mockAdSpaces[i]
		out = append(out, &space)
	}
	return out, nil
}

// GetAdSpace returns the fixture with the given id, or absent.
func (r *MockReader) GetAdSpace(ctx context.Context, id string) (*models.AdSpace, error) {
	for i := range mockAdSpaces {
		if mockAdSpaces[i].ID == id {
			space := mockAdSpaces[i]
			return &space, nil
		}
	}
	return nil, nil
}

// GetLeaseNFT returns the fixture lease with the given id, or absent.
func (r *MockReader) GetLeaseNFT(ctx context.Context, id string) (*models.LeaseNFT, error) {
	for i := range mockLeases {
		if mockLeases[i].ID == id {
			lease := mockLeases[i]
			return &lease, nil
		}
	}
	return nil, nil
}

// ListOwnedLeaseNFTs returns the fixture leases owned by owner.
func (r *MockReader) ListOwnedLeaseNFTs(ctx context.Context, owner string) ([]*models.LeaseNFT, error) {
	var out []*models.LeaseNFT
	for i := range mockLeases {
		if mockLeases[i].Owner == owner {
			lease := mockLeases[i]
			out = append(out, &lease)
		}
	}
	return out, nil
}
