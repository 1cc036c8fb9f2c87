package safebrowsing

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"testing"

	"sb-verify/core/codec"

	"github.com/stretchr/testify/require"
)

// storeFixture describes the contents of a store file to encode for tests.
type storeFixture struct {
	magic   uint32
	version uint32

	addChunks []uint32
	subChunks []uint32

	// Parallel arrays, one entry per add prefix.
	addPrefixAddChunks []uint32

	// Parallel arrays, one entry per sub prefix.
	subPrefixSubChunks []uint32
	subPrefixAddChunks []uint32
	subPrefixValues    []uint32

	addCompletes []completeFixture
	subCompletes []completeFixture

	// corruptChecksum flips a checksum byte after hashing.
	corruptChecksum bool
}

type completeFixture struct {
	hash     [32]byte
	addChunk uint32
	subChunk uint32
}

func encodeStore(t *testing.T, fx storeFixture) []byte {
	t.Helper()

	if fx.magic == 0 {
		fx.magic = StoreMagic
	}
	if fx.version == 0 {
		fx.version = StoreVersion
	}
	require.Len(t, fx.subPrefixAddChunks, len(fx.subPrefixSubChunks))
	require.Len(t, fx.subPrefixValues, len(fx.subPrefixSubChunks))

	var body bytes.Buffer
	hdr := []uint32{
		fx.magic, fx.version,
		uint32(len(fx.addChunks)), uint32(len(fx.subChunks)),
		uint32(len(fx.addPrefixAddChunks)), uint32(len(fx.subPrefixSubChunks)),
		uint32(len(fx.addCompletes)), uint32(len(fx.subCompletes)),
	}
	require.NoError(t, binary.Write(&body, binary.LittleEndian, hdr))
	require.NoError(t, binary.Write(&body, binary.LittleEndian, fx.addChunks))
	require.NoError(t, binary.Write(&body, binary.LittleEndian, fx.subChunks))

	require.NoError(t, codec.EncodeSliced(&body, fx.addPrefixAddChunks))
	require.NoError(t, codec.EncodeSliced(&body, fx.subPrefixSubChunks))
	require.NoError(t, codec.EncodeSliced(&body, fx.subPrefixAddChunks))
	require.NoError(t, codec.EncodeSliced(&body, fx.subPrefixValues))

	for _, c := range fx.addCompletes {
		body.Write(c.hash[:])
		require.NoError(t, binary.Write(&body, binary.LittleEndian, c.addChunk))
	}
	for _, c := range fx.subCompletes {
		body.Write(c.hash[:])
		require.NoError(t, binary.Write(&body, binary.LittleEndian, c.addChunk))
		require.NoError(t, binary.Write(&body, binary.LittleEndian, c.subChunk))
	}

	sum := md5.Sum(body.Bytes())
	if fx.corruptChecksum {
		sum[0] ^= 0xff
	}
	body.Write(sum[:])
	return body.Bytes()
}

// encodePrefixSet builds a .pset file where every prefix is its own index
// entry with an empty delta run.
func encodePrefixSet(t *testing.T, prefixes []uint32) []byte {
	t.Helper()

	if len(prefixes) == 0 {
		// Canonical empty-set form: a single zero prefix.
		prefixes = []uint32{0}
	}

	var buf bytes.Buffer
	hdr := []uint32{1, uint32(len(prefixes)), 0}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, hdr))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, prefixes))
	starts := make([]uint32, len(prefixes))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, starts))
	return buf.Bytes()
}

// encodePrefixSetRuns builds a .pset file with explicit index and delta
// components for tests that exercise delta expansion.
func encodePrefixSetRuns(t *testing.T, indexPrefixes, indexStarts []uint32, deltas []uint16) []byte {
	t.Helper()

	var buf bytes.Buffer
	hdr := []uint32{1, uint32(len(indexPrefixes)), uint32(len(deltas))}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, hdr))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, indexPrefixes))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, indexStarts))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, deltas))
	return buf.Bytes()
}
