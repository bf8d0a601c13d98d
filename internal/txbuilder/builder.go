package txbuilder

import (
	"errors"
	"fmt"

	"github.com/adboard/backend/internal/models"
)

var (
	// ErrMissingObjectID means a required contract identifier (package,
	// factory, clock or target object) is not configured or not supplied.
	ErrMissingObjectID = errors.New("missing required object id")
	// ErrInvalidParams means a parameter record is incomplete.
	ErrInvalidParams = errors.New("invalid transaction parameters")
)

// Builder constructs unsigned transaction requests against one deployed
// marketplace. With Noop set (mock mode) every build returns an empty
// request.
type Builder struct {
	packageID string
	module    string
	factoryID string
	clockID   string
	noop      bool
}

// New creates a builder bound to the configured marketplace contract.
func New(packageID, module, factoryID, clockID string, noop bool) *Builder {
	return &Builder{
		packageID: packageID,
		module:    module,
		factoryID: factoryID,
		clockID:   clockID,
		noop:      noop,
	}
}

// Noop reports whether the builder produces no-op requests (mock mode).
func (b *Builder) Noop() bool { return b.noop }

func (b *Builder) target(function string) string {
	return fmt.Sprintf("%s::%s::%s", b.packageID, b.module, function)
}

// requireIDs fails construction when any contract identifier a call depends
// on is absent. Building must fail loudly here rather than emit a request
// the wallet cannot execute.
func (b *Builder) requireIDs(ids ...string) error {
	if b.packageID == "" {
		return fmt.Errorf("%w: package", ErrMissingObjectID)
	}
	for _, id := range ids {
		if id == "" {
			return ErrMissingObjectID
		}
	}
	return nil
}

// PurchaseParams describes a purchase of an ad-space lease.
type PurchaseParams struct {
	Sender        string
	AdSpaceID     string
	Price         models.Amount // smallest unit, exact split amount
	BrandName     string
	ContentURL    string
	ProjectURL    string
	LeaseDays     uint64
	StartTimeMS   *int64 // optional future lease start
	BlobID        string // managed storage only
	StorageSource string
}

// BuildPurchaseTx builds the purchase-ad-space transaction. The payment
// split equals Price exactly.
func (b *Builder) BuildPurchaseTx(p PurchaseParams) (*Request, error) {
	if b.noop {
		return &Request{Noop: true}, nil
	}
	if err := b.requireIDs(b.factoryID, b.clockID, p.AdSpaceID); err != nil {
		return nil, err
	}
	if p.Sender == "" || p.BrandName == "" || p.ContentURL == "" || p.LeaseDays == 0 {
		return nil, ErrInvalidParams
	}
	var start any
	if p.StartTimeMS != nil {
		start = *p.StartTimeMS
	}
	return &Request{
		Sender: p.Sender,
		Calls: []MoveCall{{
			Target: b.target("purchase_ad_space"),
			Args: []Arg{
				objectArg(b.factoryID),
				objectArg(p.AdSpaceID),
				paymentArg(p.Price),
				pureArg("string", p.BrandName),
				pureArg("string", p.ContentURL),
				pureArg("string", p.ProjectURL),
				pureArg("u64", p.LeaseDays),
				pureArg("option<u64>", start),
				pureArg("option<string>", optional(p.BlobID)),
				pureArg("string", p.StorageSource),
				objectArg(b.clockID),
			},
		}},
	}, nil
}

// RenewParams describes a lease renewal.
type RenewParams struct {
	Sender    string
	NFTID     string
	AdSpaceID string
	Price     models.Amount
	LeaseDays uint64
}

// BuildRenewTx builds the renew-lease transaction.
func (b *Builder) BuildRenewTx(p RenewParams) (*Request, error) {
	if b.noop {
		return &Request{Noop: true}, nil
	}
	if err := b.requireIDs(b.factoryID, b.clockID, p.NFTID, p.AdSpaceID); err != nil {
		return nil, err
	}
	if p.Sender == "" || p.LeaseDays == 0 {
		return nil, ErrInvalidParams
	}
	return &Request{
		Sender: p.Sender,
		Calls: []MoveCall{{
			Target: b.target("renew_lease"),
			Args: []Arg{
				objectArg(b.factoryID),
				objectArg(p.NFTID),
				objectArg(p.AdSpaceID),
				paymentArg(p.Price),
				pureArg("u64", p.LeaseDays),
				objectArg(b.clockID),
			},
		}},
	}, nil
}

// UpdateContentParams describes an ad-content update by the NFT owner.
type UpdateContentParams struct {
	Sender        string
	NFTID         string
	ContentURL    string
	BlobID        string
	StorageSource string
}

// BuildUpdateContentTx builds the update-ad-content transaction.
func (b *Builder) BuildUpdateContentTx(p UpdateContentParams) (*Request, error) {
	if b.noop {
		return &Request{Noop: true}, nil
	}
	if err := b.requireIDs(b.clockID, p.NFTID); err != nil {
		return nil, err
	}
	if p.Sender == "" || p.ContentURL == "" {
		return nil, ErrInvalidParams
	}
	return &Request{
		Sender: p.Sender,
		Calls: []MoveCall{{
			Target: b.target("update_ad_content"),
			Args: []Arg{
				objectArg(p.NFTID),
				pureArg("string", p.ContentURL),
				pureArg("option<string>", optional(p.BlobID)),
				pureArg("string", p.StorageSource),
				objectArg(b.clockID),
			},
		}},
	}, nil
}

// CreateAdSpaceParams describes a new ad space (operator only).
type CreateAdSpaceParams struct {
	Sender      string
	Name        string
	Description string
	Location    string
	Width       uint64
	Height      uint64
	Price       models.Amount
}

// BuildCreateAdSpaceTx builds the create-ad-space transaction.
func (b *Builder) BuildCreateAdSpaceTx(p CreateAdSpaceParams) (*Request, error) {
	if b.noop {
		return &Request{Noop: true}, nil
	}
	if err := b.requireIDs(b.factoryID); err != nil {
		return nil, err
	}
	if p.Sender == "" || p.Name == "" || p.Width == 0 || p.Height == 0 {
		return nil, ErrInvalidParams
	}
	return &Request{
		Sender: p.Sender,
		Calls: []MoveCall{{
			Target: b.target("create_ad_space"),
			Args: []Arg{
				objectArg(b.factoryID),
				pureArg("string", p.Name),
				pureArg("string", p.Description),
				pureArg("string", p.Location),
				pureArg("u64", p.Width),
				pureArg("u64", p.Height),
				pureArg("u64", uint64(p.Price)),
			},
		}},
	}, nil
}

// BuildRegisterOperatorTx builds the register-operator transaction (admin).
func (b *Builder) BuildRegisterOperatorTx(sender, operator string) (*Request, error) {
	if b.noop {
		return &Request{Noop: true}, nil
	}
	if err := b.requireIDs(b.factoryID); err != nil {
		return nil, err
	}
	if sender == "" || operator == "" {
		return nil, ErrInvalidParams
	}
	return &Request{
		Sender: sender,
		Calls: []MoveCall{{
			Target: b.target("register_operator"),
			Args: []Arg{
				objectArg(b.factoryID),
				pureArg("address", operator),
			},
		}},
	}, nil
}

// BuildRemoveOperatorTx builds the remove-operator transaction (admin).
func (b *Builder) BuildRemoveOperatorTx(sender, operator string) (*Request, error) {
	if b.noop {
		return &Request{Noop: true}, nil
	}
	if err := b.requireIDs(b.factoryID); err != nil {
		return nil, err
	}
	if sender == "" || operator == "" {
		return nil, ErrInvalidParams
	}
	return &Request{
		Sender: sender,
		Calls: []MoveCall{{
			Target: b.target("remove_operator"),
			Args: []Arg{
				objectArg(b.factoryID),
				pureArg("address", operator),
			},
		}},
	}, nil
}

// UpdatePriceParams describes an ad-space price change (operator).
type UpdatePriceParams struct {
	Sender    string
	AdSpaceID string
	NewPrice  models.Amount
}

// BuildUpdatePriceTx builds the update-price transaction.
func (b *Builder) BuildUpdatePriceTx(p UpdatePriceParams) (*Request, error) {
	if b.noop {
		return &Request{Noop: true}, nil
	}
	if err := b.requireIDs(b.factoryID, p.AdSpaceID); err != nil {
		return nil, err
	}
	if p.Sender == "" {
		return nil, ErrInvalidParams
	}
	return &Request{
		Sender: p.Sender,
		Calls: []MoveCall{{
			Target: b.target("update_price"),
			Args: []Arg{
				objectArg(b.factoryID),
				objectArg(p.AdSpaceID),
				pureArg("u64", uint64(p.NewPrice)),
			},
		}},
	}, nil
}

// BuildUpdatePlatformRatioTx builds the platform-ratio update (admin).
// ratio is in basis points.
func (b *Builder) BuildUpdatePlatformRatioTx(sender string, ratioBps uint64) (*Request, error) {
	if b.noop {
		return &Request{Noop: true}, nil
	}
	if err := b.requireIDs(b.factoryID); err != nil {
		return nil, err
	}
	if sender == "" || ratioBps > 10_000 {
		return nil, ErrInvalidParams
	}
	return &Request{
		Sender: sender,
		Calls: []MoveCall{{
			Target: b.target("update_platform_ratio"),
			Args: []Arg{
				objectArg(b.factoryID),
				pureArg("u64", ratioBps),
			},
		}},
	}, nil
}

// optional maps an empty string to a nil option value.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
