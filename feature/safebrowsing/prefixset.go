package safebrowsing

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PrefixSetMetadata carries the decoded .pset header for diagnostics.
type PrefixSetMetadata struct {
	Version    uint32
	IndexCount uint32
	DeltaCount uint32
}

// DecodePrefixSet decodes a .pset file into the flat ascending sequence of
// 32-bit add prefixes it encodes. Each index entry carries a base prefix and
// a run of unsigned 16-bit deltas; runs never decrease.
//
// The format encodes the empty set as a single zero prefix, so a decoded
// sequence starting with 0 collapses to the empty set. That rule is part of
// the format, not an error path.
func DecodePrefixSet(r io.Reader) ([]uint32, *PrefixSetMetadata, error) {
	var hdr struct {
		Version    uint32
		IndexCount uint32
		DeltaCount uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("failed to read prefix set header: %w", err)
	}
	meta := &PrefixSetMetadata{Version: hdr.Version, IndexCount: hdr.IndexCount, DeltaCount: hdr.DeltaCount}

	indexPrefixes := make([]uint32, hdr.IndexCount)
	if err := binary.Read(r, binary.LittleEndian, indexPrefixes); err != nil {
		return nil, meta, fmt.Errorf("failed to read index prefixes: %w", err)
	}

	indexStarts := make([]uint32, hdr.IndexCount)
	if err := binary.Read(r, binary.LittleEndian, indexStarts); err != nil {
		return nil, meta, fmt.Errorf("failed to read index starts: %w", err)
	}

	deltas := make([]uint16, hdr.DeltaCount)
	if err := binary.Read(r, binary.LittleEndian, deltas); err != nil {
		return nil, meta, fmt.Errorf("failed to read deltas: %w", err)
	}

	prefixes, err := expandPrefixes(indexPrefixes, indexStarts, deltas)
	if err != nil {
		return nil, meta, err
	}

	// Canonical empty-set form.
	if len(prefixes) > 0 && prefixes[0] == 0 {
		prefixes = prefixes[:0]
	}

	return prefixes, meta, nil
}

// expandPrefixes reconstructs the full prefix sequence from index entries
// and their delta runs.
func expandPrefixes(indexPrefixes []uint32, indexStarts []uint32, deltas []uint16) ([]uint32, error) {
	prefixes := make([]uint32, 0, len(indexPrefixes)+len(deltas))

	for i := range indexPrefixes {
		prefix := indexPrefixes[i]
		prefixes = append(prefixes, prefix)

		start := indexStarts[i]
		end := uint32(len(deltas))
		if i != len(indexPrefixes)-1 {
			end = indexStarts[i+1]
		}
		if start > end || end > uint32(len(deltas)) {
			return nil, fmt.Errorf("corrupt index starts: run %d spans [%d, %d) of %d deltas", i, start, end, len(deltas))
		}

		for _, delta := range deltas[start:end] {
			prefix += uint32(delta)
			prefixes = append(prefixes, prefix)
		}
	}

	return prefixes, nil
}
