package models

import (
	"bytes"
	"sort"
)

// RecordKind identifies what a HashRecord represents.
type RecordKind int

const (
	// KindAddPrefix is a 4-byte partial hash added by an add chunk.
	KindAddPrefix RecordKind = iota
	// KindSubPrefix is a 4-byte partial hash removed by a sub chunk.
	KindSubPrefix
	// KindAddComplete is a full 32-byte hash added by an add chunk.
	KindAddComplete
	// KindSubComplete is a full 32-byte hash removed by a sub chunk.
	KindSubComplete
)

// CompleteHashSize is the length of a full hash in bytes.
const CompleteHashSize = 32

// HashRecord is a single reputation entry. Prefix records carry a 4-byte
// partial hash in Prefix; complete records carry the full hash in Complete
// and leave Prefix zero. SubChunk is only meaningful on sub records.
type HashRecord struct {
	Kind     RecordKind
	Prefix   uint32
	Complete []byte
	AddChunk uint32
	SubChunk uint32
}

// NewAddPrefix builds an add-prefix record.
func NewAddPrefix(prefix, addChunk uint32) HashRecord {
	return HashRecord{Kind: KindAddPrefix, Prefix: prefix, AddChunk: addChunk}
}

// NewSubPrefix builds a sub-prefix record.
func NewSubPrefix(prefix, addChunk, subChunk uint32) HashRecord {
	return HashRecord{Kind: KindSubPrefix, Prefix: prefix, AddChunk: addChunk, SubChunk: subChunk}
}

// NewAddComplete builds an add-complete record from a 32-byte hash.
func NewAddComplete(complete []byte, addChunk uint32) HashRecord {
	return HashRecord{Kind: KindAddComplete, Complete: complete, AddChunk: addChunk}
}

// NewSubComplete builds a sub-complete record from a 32-byte hash.
func NewSubComplete(complete []byte, addChunk, subChunk uint32) HashRecord {
	return HashRecord{Kind: KindSubComplete, Complete: complete, AddChunk: addChunk, SubChunk: subChunk}
}

// comparePrefix orders two records by hash value: unsigned integer order for
// partial hashes, unsigned byte-sequence order for complete hashes.
func comparePrefix(a, b HashRecord) int {
	if a.Complete != nil || b.Complete != nil {
		return bytes.Compare(a.Complete, b.Complete)
	}
	switch {
	case a.Prefix < b.Prefix:
		return -1
	case a.Prefix > b.Prefix:
		return 1
	}
	return 0
}

// addLess is the canonical order for add records: (prefix, addChunk).
func addLess(a, b HashRecord) bool {
	if c := comparePrefix(a, b); c != 0 {
		return c < 0
	}
	return a.AddChunk < b.AddChunk
}

// subLess is the canonical order for sub records: (prefix, subChunk, addChunk).
func subLess(a, b HashRecord) bool {
	if c := comparePrefix(a, b); c != 0 {
		return c < 0
	}
	if a.SubChunk != b.SubChunk {
		return a.SubChunk < b.SubChunk
	}
	return a.AddChunk < b.AddChunk
}

// ListRecordSet is one named reputation list from a single source.
type ListRecordSet struct {
	// Name is the list identifier, unique per source.
	Name string

	// AddChunks and SubChunks are the chunk ids referenced anywhere in the
	// list, deduplicated.
	AddChunks map[uint32]struct{}
	SubChunks map[uint32]struct{}

	AddPrefixes  []HashRecord
	SubPrefixes  []HashRecord
	AddCompletes []HashRecord
	SubCompletes []HashRecord
}

// NewListRecordSet creates an empty record set for the named list.
func NewListRecordSet(name string) *ListRecordSet {
	return &ListRecordSet{
		Name:      name,
		AddChunks: make(map[uint32]struct{}),
		SubChunks: make(map[uint32]struct{}),
	}
}

// AddAddChunk records an add-chunk id.
func (s *ListRecordSet) AddAddChunk(chunk uint32) {
	s.AddChunks[chunk] = struct{}{}
}

// AddSubChunk records a sub-chunk id.
func (s *ListRecordSet) AddSubChunk(chunk uint32) {
	s.SubChunks[chunk] = struct{}{}
}

// SortAll puts every record sequence into canonical order: add records by
// (prefix, addChunk), sub records by (prefix, subChunk, addChunk). After
// sorting the set is ready for deterministic comparison and must not be
// mutated.
func (s *ListRecordSet) SortAll() {
	sort.SliceStable(s.AddPrefixes, func(i, j int) bool { return addLess(s.AddPrefixes[i], s.AddPrefixes[j]) })
	sort.SliceStable(s.SubPrefixes, func(i, j int) bool { return subLess(s.SubPrefixes[i], s.SubPrefixes[j]) })
	sort.SliceStable(s.AddCompletes, func(i, j int) bool { return addLess(s.AddCompletes[i], s.AddCompletes[j]) })
	sort.SliceStable(s.SubCompletes, func(i, j int) bool { return subLess(s.SubCompletes[i], s.SubCompletes[j]) })
}
