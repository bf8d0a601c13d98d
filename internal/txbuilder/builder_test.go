package txbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/backend/internal/models"
)

func testBuilder() *Builder {
	return New("0xpkg", "marketplace", "0xfactory", "0x6", false)
}

func purchaseParams() PurchaseParams {
	return PurchaseParams{
		Sender:        "0xsender",
		AdSpaceID:     "0x123",
		Price:         models.Amount(100_000_000),
		BrandName:     "Acme",
		ContentURL:    "https://example.com/ad.png",
		ProjectURL:    "https://acme.example.com",
		LeaseDays:     30,
		StorageSource: models.StorageExternal,
	}
}

func TestPurchasePaymentSplitsExactPrice(t *testing.T) {
	// A price supplied as the smallest-unit string "100000000" must come
	// out as 100000000, never a human-unit reinterpretation.
	price, err := models.ParseAmount("100000000")
	require.NoError(t, err)

	p := purchaseParams()
	p.Price = price
	tx, err := testBuilder().BuildPurchaseTx(p)
	require.NoError(t, err)

	assert.Equal(t, models.Amount(100_000_000), tx.PaymentAmount())
}

func TestPurchaseTxShape(t *testing.T) {
	tx, err := testBuilder().BuildPurchaseTx(purchaseParams())
	require.NoError(t, err)

	require.Len(t, tx.Calls, 1)
	call := tx.Calls[0]
	assert.Equal(t, "0xpkg::marketplace::purchase_ad_space", call.Target)
	assert.Equal(t, "0xsender", tx.Sender)

	// Positional layout: factory, ad space, payment, then primitives, clock last.
	assert.Equal(t, ArgObject, call.Args[0].Kind)
	assert.Equal(t, "0xfactory", call.Args[0].Value)
	assert.Equal(t, "0x123", call.Args[1].Value)
	assert.Equal(t, ArgPayment, call.Args[2].Kind)
	assert.Equal(t, "0x6", call.Args[len(call.Args)-1].Value)

	// Exactly one payment argument for a priced action.
	payments := 0
	for _, arg := range call.Args {
		if arg.Kind == ArgPayment {
			payments++
		}
	}
	assert.Equal(t, 1, payments)
}

func TestRenewPaymentSplitsExactPrice(t *testing.T) {
	tx, err := testBuilder().BuildRenewTx(RenewParams{
		Sender:    "0xsender",
		NFTID:     "0xnft",
		AdSpaceID: "0x123",
		Price:     models.Amount(50_000_000),
		LeaseDays: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, models.Amount(50_000_000), tx.PaymentAmount())
}

func TestBuildFailsWithoutFactory(t *testing.T) {
	b := New("0xpkg", "marketplace", "", "0x6", false)
	_, err := b.BuildPurchaseTx(purchaseParams())
	assert.ErrorIs(t, err, ErrMissingObjectID)

	_, err = b.BuildRegisterOperatorTx("0xadmin", "0xdev")
	assert.ErrorIs(t, err, ErrMissingObjectID)
}

func TestBuildFailsWithoutPackage(t *testing.T) {
	b := New("", "marketplace", "0xfactory", "0x6", false)
	_, err := b.BuildCreateAdSpaceTx(CreateAdSpaceParams{
		Sender: "0xop", Name: "Billboard", Width: 100, Height: 50, Price: 1,
	})
	assert.ErrorIs(t, err, ErrMissingObjectID)
}

func TestBuildRejectsIncompleteParams(t *testing.T) {
	b := testBuilder()

	p := purchaseParams()
	p.BrandName = ""
	_, err := b.BuildPurchaseTx(p)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = b.BuildRenewTx(RenewParams{Sender: "0xs", NFTID: "0xnft", AdSpaceID: "0x1"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = b.BuildUpdatePlatformRatioTx("0xadmin", 10_001)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestNoopBuilderReturnsEmptyRequests(t *testing.T) {
	b := New("", "marketplace", "", "", true)

	tx, err := b.BuildPurchaseTx(purchaseParams())
	require.NoError(t, err)
	assert.True(t, tx.Noop)
	assert.Empty(t, tx.Calls)
	assert.Zero(t, tx.PaymentAmount())

	tx, err = b.BuildRegisterOperatorTx("0xadmin", "0xdev")
	require.NoError(t, err)
	assert.True(t, tx.Noop)
}

func TestUpdateContentTxCarriesSubmittedURL(t *testing.T) {
	tx, err := testBuilder().BuildUpdateContentTx(UpdateContentParams{
		Sender:        "0xsender",
		NFTID:         "0xnft",
		ContentURL:    "https://cdn.example.com/v2.png",
		BlobID:        "blob-1",
		StorageSource: models.StorageWalrus,
	})
	require.NoError(t, err)

	call := tx.Calls[0]
	assert.Equal(t, "0xpkg::marketplace::update_ad_content", call.Target)
	assert.Equal(t, "https://cdn.example.com/v2.png", call.Args[1].Value)
	assert.Equal(t, "blob-1", call.Args[2].Value)
}

func TestOptionalBlobIDOmitted(t *testing.T) {
	p := purchaseParams()
	p.BlobID = ""
	tx, err := testBuilder().BuildPurchaseTx(p)
	require.NoError(t, err)

	// option<string> arg is nil when no blob id exists.
	args := tx.Calls[0].Args
	assert.Nil(t, args[8].Value)
}
