package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeBool(t *testing.T) {
	assert.True(t, DecodeBool([]byte{1}))
	assert.False(t, DecodeBool([]byte{0}))
	assert.False(t, DecodeBool(nil))
	assert.False(t, DecodeBool([]byte{}))
	assert.False(t, DecodeBool([]byte{2}))
	assert.False(t, DecodeBool([]byte{1, 0}))
}

func TestFieldUintHandlesBothEncodings(t *testing.T) {
	fields := map[string]any{
		"price":  "100000000", // u64 arrives string-encoded
		"width":  float64(1920),
		"junk":   "not-a-number",
		"absent": nil,
	}
	assert.Equal(t, uint64(100_000_000), FieldUint(fields, "price"))
	assert.Equal(t, uint64(1920), FieldUint(fields, "width"))
	assert.Zero(t, FieldUint(fields, "junk"))
	assert.Zero(t, FieldUint(fields, "absent"))
	assert.Zero(t, FieldUint(fields, "missing"))
}

func TestFieldStrings(t *testing.T) {
	fields := map[string]any{
		"nft_ids": []any{"0x1", "0x2", 3},
		"scalar":  "0x1",
	}
	assert.Equal(t, []string{"0x1", "0x2"}, FieldStrings(fields, "nft_ids"))
	assert.Nil(t, FieldStrings(fields, "scalar"))
}

func TestFieldOptionString(t *testing.T) {
	fields := map[string]any{
		"plain":   "blob-1",
		"wrapped": map[string]any{"fields": map[string]any{"vec": []any{"blob-2"}}},
		"none":    map[string]any{"fields": map[string]any{"vec": []any{}}},
	}
	assert.Equal(t, "blob-1", FieldOptionString(fields, "plain"))
	assert.Equal(t, "blob-2", FieldOptionString(fields, "wrapped"))
	assert.Empty(t, FieldOptionString(fields, "none"))
	assert.Empty(t, FieldOptionString(fields, "missing"))
}
