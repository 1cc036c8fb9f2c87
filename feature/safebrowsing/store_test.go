package safebrowsing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStore_Empty(t *testing.T) {
	data := encodeStore(t, storeFixture{})

	set, meta, err := DecodeStore(bytes.NewReader(data), "goog-malware-shavar", DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "goog-malware-shavar", set.Name)
	assert.Empty(t, set.AddChunks)
	assert.Empty(t, set.SubChunks)
	assert.Empty(t, set.AddPrefixes)
	assert.Empty(t, set.SubPrefixes)
	assert.Empty(t, set.AddCompletes)
	assert.Empty(t, set.SubCompletes)

	assert.Equal(t, StoreMagic, meta.Magic)
	assert.Equal(t, StoreVersion, meta.Version)
}

func TestDecodeStore_Records(t *testing.T) {
	var hash [32]byte
	copy(hash[:], bytes.Repeat([]byte{0xab}, 32))

	fx := storeFixture{
		addChunks:          []uint32{1, 2},
		subChunks:          []uint32{7},
		addPrefixAddChunks: []uint32{1, 1, 2},
		subPrefixSubChunks: []uint32{7},
		subPrefixAddChunks: []uint32{2},
		subPrefixValues:    []uint32{0xdeadbeef},
		addCompletes:       []completeFixture{{hash: hash, addChunk: 2}},
		subCompletes:       []completeFixture{{hash: hash, addChunk: 1, subChunk: 7}},
	}
	data := encodeStore(t, fx)

	set, meta, err := DecodeStore(bytes.NewReader(data), "test-list", DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, uint32(3), meta.NumAddPrefixes)
	assert.Len(t, set.AddPrefixes, 3)
	// Add prefixes are placeholders until Assemble fills them in.
	for _, r := range set.AddPrefixes {
		assert.Zero(t, r.Prefix)
	}
	assert.Equal(t, uint32(1), set.AddPrefixes[0].AddChunk)
	assert.Equal(t, uint32(2), set.AddPrefixes[2].AddChunk)

	require.Len(t, set.SubPrefixes, 1)
	assert.Equal(t, uint32(0xdeadbeef), set.SubPrefixes[0].Prefix)
	assert.Equal(t, uint32(7), set.SubPrefixes[0].SubChunk)
	assert.Equal(t, uint32(2), set.SubPrefixes[0].AddChunk)

	require.Len(t, set.AddCompletes, 1)
	assert.Equal(t, hash[:], set.AddCompletes[0].Complete)
	assert.Equal(t, uint32(2), set.AddCompletes[0].AddChunk)

	require.Len(t, set.SubCompletes, 1)
	assert.Equal(t, uint32(1), set.SubCompletes[0].AddChunk)
	assert.Equal(t, uint32(7), set.SubCompletes[0].SubChunk)

	assert.Contains(t, set.AddChunks, uint32(1))
	assert.Contains(t, set.AddChunks, uint32(2))
	assert.Contains(t, set.SubChunks, uint32(7))
}

func TestDecodeStore_Idempotent(t *testing.T) {
	data := encodeStore(t, storeFixture{
		addChunks:          []uint32{3},
		addPrefixAddChunks: []uint32{3, 3},
	})

	first, _, err := DecodeStore(bytes.NewReader(data), "list", DecodeOptions{})
	require.NoError(t, err)
	second, _, err := DecodeStore(bytes.NewReader(data), "list", DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeStore_TrailingData(t *testing.T) {
	data := encodeStore(t, storeFixture{})
	data = append(data, 0x00, 0x01, 0x02)

	_, _, err := DecodeStore(bytes.NewReader(data), "list", DecodeOptions{})
	var trailing *TrailingDataError
	require.ErrorAs(t, err, &trailing)
	assert.Equal(t, int64(3), trailing.Remaining)
}

func TestDecodeStore_TruncatedChecksum(t *testing.T) {
	data := encodeStore(t, storeFixture{})
	data = data[:len(data)-10]

	_, _, err := DecodeStore(bytes.NewReader(data), "list", DecodeOptions{})
	var truncated *TruncatedChecksumError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, 6, truncated.Got)
}

func TestDecodeStore_StrictHeader(t *testing.T) {
	data := encodeStore(t, storeFixture{magic: 0x12345678, version: 9})

	// Lenient mode surfaces the header but decodes anyway.
	_, meta, err := DecodeStore(bytes.NewReader(data), "list", DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), meta.Magic)
	assert.Equal(t, uint32(9), meta.Version)

	_, _, err = DecodeStore(bytes.NewReader(data), "list", DecodeOptions{StrictHeader: true})
	assert.ErrorContains(t, err, "unexpected store header")
}

func TestDecodeStore_ChecksumMismatch(t *testing.T) {
	data := encodeStore(t, storeFixture{corruptChecksum: true})

	// Without verification the bad checksum is carried as metadata only.
	_, _, err := DecodeStore(bytes.NewReader(data), "list", DecodeOptions{})
	require.NoError(t, err)

	_, _, err = DecodeStore(bytes.NewReader(data), "list", DecodeOptions{VerifyChecksum: true})
	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.NotEqual(t, mismatch.Stored, mismatch.Computed)
}

func TestDecodeStore_TruncatedHeader(t *testing.T) {
	_, _, err := DecodeStore(bytes.NewReader([]byte{0x3b, 0xaf}), "list", DecodeOptions{})
	assert.ErrorContains(t, err, "failed to read store header")
}
