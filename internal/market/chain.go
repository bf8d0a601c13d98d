package market

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/adboard/backend/internal/chain"
	"github.com/adboard/backend/internal/models"
)

// ChainReader resolves the read model directly from the fullnode.
type ChainReader struct {
	client    *chain.Client
	packageID string
	module    string
	factoryID string
	logger    *zap.Logger
}

// NewChainReader creates a chain-backed reader.
func NewChainReader(client *chain.Client, packageID, module, factoryID string, logger *zap.Logger) *ChainReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainReader{
		client:    client,
		packageID: packageID,
		module:    module,
		factoryID: factoryID,
		logger:    logger,
	}
}

func (r *ChainReader) adSpaceType() string {
	return fmt.Sprintf("%s::%s::AdSpace", r.packageID, r.module)
}

func (r *ChainReader) leaseType() string {
	return fmt.Sprintf("%s::%s::BillboardNFT", r.packageID, r.module)
}

// ListAvailableAdSpaces reads the factory's ad-space registry and fetches
// every listed space concurrently. Results are unordered; spaces that fail
// to load are skipped rather than failing the whole listing.
func (r *ChainReader) ListAvailableAdSpaces(ctx context.Context) ([]*models.AdSpace, error) {
	factory, err := r.client.GetObject(ctx, r.factoryID)
	if err != nil {
		return nil, fmt.Errorf("load factory: %w", err)
	}
	ids := chain.FieldStrings(factory.Fields, "ad_spaces")

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out []*models.AdSpace
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			space, err := r.GetAdSpace(ctx, id)
			if err != nil {
				r.logger.Warn("ad space load failed", zap.String("id", id), zap.Error(err))
				return
			}
			if space == nil || !space.Available {
				return
			}
			mu.Lock()
			out = append(out, space)
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return out, nil
}

// GetAdSpace fetches one ad space. Malformed or unknown ids are absent.
func (r *ChainReader) GetAdSpace(ctx context.Context, id string) (*models.AdSpace, error) {
	if !validID(id) {
		return nil, nil
	}
	obj, err := r.client.GetObject(ctx, id)
	if errors.Is(err, chain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return adSpaceFromObject(obj), nil
}

// GetLeaseNFT fetches one lease NFT. Malformed or unknown ids are absent.
func (r *ChainReader) GetLeaseNFT(ctx context.Context, id string) (*models.LeaseNFT, error) {
	if !validID(id) {
		return nil, nil
	}
	obj, err := r.client.GetObject(ctx, id)
	if errors.Is(err, chain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return leaseFromObject(obj), nil
}

// ListOwnedLeaseNFTs lists the lease NFTs owned by owner.
func (r *ChainReader) ListOwnedLeaseNFTs(ctx context.Context, owner string) ([]*models.LeaseNFT, error) {
	if !validID(owner) {
		return nil, nil
	}
	objs, err := r.client.GetOwnedObjects(ctx, owner, r.leaseType())
	if err != nil {
		return nil, fmt.Errorf("list owned leases: %w", err)
	}
	out := make([]*models.LeaseNFT, 0, len(objs))
	for _, obj := range objs {
		lease := leaseFromObject(obj)
		if lease.Owner == "" {
			lease.Owner = owner
		}
		out = append(out, lease)
	}
	return out, nil
}

func adSpaceFromObject(obj *chain.Object) *models.AdSpace {
	f := obj.Fields
	return &models.AdSpace{
		ID:          obj.ID,
		Name:        chain.FieldString(f, "name"),
		Description: chain.FieldString(f, "description"),
		Location:    chain.FieldString(f, "location"),
		Width:       int(chain.FieldUint(f, "width")),
		Height:      int(chain.FieldUint(f, "height")),
		Price:       models.Amount(chain.FieldUint(f, "price")),
		Available:   chain.FieldBool(f, "available"),
		NFTIDs:      chain.FieldStrings(f, "nft_ids"),
		Creator:     chain.FieldString(f, "creator"),
	}
}

func leaseFromObject(obj *chain.Object) *models.LeaseNFT {
	f := obj.Fields
	return &models.LeaseNFT{
		ID:            obj.ID,
		AdSpaceID:     chain.FieldString(f, "ad_space_id"),
		Owner:         obj.Owner,
		BrandName:     chain.FieldString(f, "brand_name"),
		ContentURL:    chain.FieldString(f, "content_url"),
		BlobID:        chain.FieldOptionString(f, "blob_id"),
		StorageSource: chain.FieldString(f, "storage_source"),
		ProjectURL:    chain.FieldString(f, "project_url"),
		LeaseStartMS:  int64(chain.FieldUint(f, "lease_start")),
		LeaseEndMS:    int64(chain.FieldUint(f, "lease_end")),
		Active:        chain.FieldBool(f, "is_active"),
	}
}
