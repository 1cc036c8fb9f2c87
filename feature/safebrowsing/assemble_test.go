package safebrowsing

import (
	"testing"

	"sb-verify/feature/safebrowsing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	set := models.NewListRecordSet("list")
	set.AddPrefixes = []models.HashRecord{
		models.NewAddPrefix(0, 9),
		models.NewAddPrefix(0, 4),
		models.NewAddPrefix(0, 4),
	}

	err := Assemble(set, []uint32{300, 100, 200})
	require.NoError(t, err)

	// Prefixes are assigned positionally, then the set is sorted by
	// (prefix, add chunk).
	require.Len(t, set.AddPrefixes, 3)
	assert.Equal(t, uint32(100), set.AddPrefixes[0].Prefix)
	assert.Equal(t, uint32(4), set.AddPrefixes[0].AddChunk)
	assert.Equal(t, uint32(200), set.AddPrefixes[1].Prefix)
	assert.Equal(t, uint32(4), set.AddPrefixes[1].AddChunk)
	assert.Equal(t, uint32(300), set.AddPrefixes[2].Prefix)
	assert.Equal(t, uint32(9), set.AddPrefixes[2].AddChunk)
}

func TestAssemble_CountMismatch(t *testing.T) {
	set := models.NewListRecordSet("list")
	set.AddPrefixes = []models.HashRecord{
		models.NewAddPrefix(0, 1),
		models.NewAddPrefix(0, 1),
		models.NewAddPrefix(0, 2),
	}

	err := Assemble(set, []uint32{10, 20})

	var mismatch *PrefixCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)
}

func TestAssemble_EmptyPair(t *testing.T) {
	set := models.NewListRecordSet("list")
	assert.NoError(t, Assemble(set, nil))
	assert.Empty(t, set.AddPrefixes)
}
