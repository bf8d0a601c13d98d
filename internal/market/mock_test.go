package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockReaderListAvailableAdSpaces(t *testing.T) {
	r := NewMockReader()
	spaces, err := r.ListAvailableAdSpaces(context.Background())
	require.NoError(t, err)
	require.Len(t, spaces, 2)

	ids := map[string]bool{}
	for _, s := range spaces {
		ids[s.ID] = true
		assert.True(t, s.Available, "fixture %s must be available", s.ID)
	}
	assert.True(t, ids["0x123"])
	assert.True(t, ids["0x456"])
}

func TestMockReaderAbsentIsNotAnError(t *testing.T) {
	r := NewMockReader()

	// Same absent id twice: absent both times, no error either time.
	for i := 0; i < 2; i++ {
		space, err := r.GetAdSpace(context.Background(), "0xdoesnotexist")
		require.NoError(t, err)
		assert.Nil(t, space)
	}

	lease, err := r.GetLeaseNFT(context.Background(), "not-even-an-id")
	require.NoError(t, err)
	assert.Nil(t, lease)
}

func TestMockReaderListOwned(t *testing.T) {
	r := NewMockReader()
	leases, err := r.ListOwnedLeaseNFTs(context.Background(), "0xbuyer1")
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, "0xabc", leases[0].ID)

	none, err := r.ListOwnedLeaseNFTs(context.Background(), "0xnobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("0x123"))
	assert.True(t, validID("0xabcDEF01"))
	assert.False(t, validID(""))
	assert.False(t, validID("0x"))
	assert.False(t, validID("123"))
	assert.False(t, validID("0xzz"))
}
