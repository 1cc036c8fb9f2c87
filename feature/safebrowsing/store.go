package safebrowsing

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"

	"sb-verify/core/codec"
	"sb-verify/feature/safebrowsing/models"
)

// Known header values for version 3 store files. The decoder surfaces the
// header for diagnostics and only enforces these under StrictHeader.
const (
	StoreMagic   uint32 = 0x1231af3b
	StoreVersion uint32 = 3
)

const checksumSize = 16

// DecodeOptions controls the optional strictness checks of DecodeStore.
type DecodeOptions struct {
	// StrictHeader rejects files whose magic or version differ from the
	// known constants.
	StrictHeader bool

	// VerifyChecksum recomputes the MD5 of the store body and compares it
	// against the trailing checksum.
	VerifyChecksum bool
}

// storeHeader is the fixed 32-byte store file header.
type storeHeader struct {
	Magic           uint32
	Version         uint32
	NumAddChunks    uint32
	NumSubChunks    uint32
	NumAddPrefixes  uint32
	NumSubPrefixes  uint32
	NumAddCompletes uint32
	NumSubCompletes uint32
}

// StoreMetadata carries the decoded header and trailing checksum of a store
// file, for diagnostics and strictness checks.
type StoreMetadata struct {
	Magic           uint32
	Version         uint32
	NumAddChunks    uint32
	NumSubChunks    uint32
	NumAddPrefixes  uint32
	NumSubPrefixes  uint32
	NumAddCompletes uint32
	NumSubCompletes uint32
	Checksum        [checksumSize]byte
}

// DecodeStore decodes one .sbstore file into a ListRecordSet for the named
// list. Add-prefix records come back with a zero placeholder prefix; the
// actual values live in the paired prefix-set file and are filled in by
// Assemble. The reader must be positioned at the start of the file and is
// consumed exactly to its end; any trailing bytes fail the decode.
func DecodeStore(r io.Reader, name string, opts DecodeOptions) (*models.ListRecordSet, *StoreMetadata, error) {
	// Everything up to the checksum is hashed so VerifyChecksum can compare
	// against the trailer.
	h := md5.New()
	body := io.TeeReader(r, h)

	var hdr storeHeader
	if err := binary.Read(body, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("failed to read store header: %w", err)
	}

	meta := &StoreMetadata{
		Magic:           hdr.Magic,
		Version:         hdr.Version,
		NumAddChunks:    hdr.NumAddChunks,
		NumSubChunks:    hdr.NumSubChunks,
		NumAddPrefixes:  hdr.NumAddPrefixes,
		NumSubPrefixes:  hdr.NumSubPrefixes,
		NumAddCompletes: hdr.NumAddCompletes,
		NumSubCompletes: hdr.NumSubCompletes,
	}

	if opts.StrictHeader {
		if hdr.Magic != StoreMagic || hdr.Version != StoreVersion {
			return nil, meta, fmt.Errorf("unexpected store header: magic %#x version %d", hdr.Magic, hdr.Version)
		}
	}

	set := models.NewListRecordSet(name)

	addChunks, err := readUint32Array(body, hdr.NumAddChunks)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to read add chunks: %w", err)
	}
	for _, chunk := range addChunks {
		set.AddAddChunk(chunk)
	}

	subChunks, err := readUint32Array(body, hdr.NumSubChunks)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to read sub chunks: %w", err)
	}
	for _, chunk := range subChunks {
		set.AddSubChunk(chunk)
	}

	addPrefixAddChunk, err := codec.DecodeSliced(body, hdr.NumAddPrefixes)
	if err != nil {
		return nil, meta, fmt.Errorf("add-prefix add chunks: %w", err)
	}
	subPrefixSubChunk, err := codec.DecodeSliced(body, hdr.NumSubPrefixes)
	if err != nil {
		return nil, meta, fmt.Errorf("sub-prefix sub chunks: %w", err)
	}
	subPrefixAddChunk, err := codec.DecodeSliced(body, hdr.NumSubPrefixes)
	if err != nil {
		return nil, meta, fmt.Errorf("sub-prefix add chunks: %w", err)
	}
	subPrefixValue, err := codec.DecodeSliced(body, hdr.NumSubPrefixes)
	if err != nil {
		return nil, meta, fmt.Errorf("sub-prefix values: %w", err)
	}

	for i := uint32(0); i < hdr.NumAddPrefixes; i++ {
		set.AddPrefixes = append(set.AddPrefixes, models.NewAddPrefix(0, addPrefixAddChunk[i]))
	}
	for i := uint32(0); i < hdr.NumSubPrefixes; i++ {
		set.SubPrefixes = append(set.SubPrefixes,
			models.NewSubPrefix(subPrefixValue[i], subPrefixAddChunk[i], subPrefixSubChunk[i]))
	}

	for i := uint32(0); i < hdr.NumAddCompletes; i++ {
		complete := make([]byte, models.CompleteHashSize)
		if _, err := io.ReadFull(body, complete); err != nil {
			return nil, meta, fmt.Errorf("add complete %d: %w", i, err)
		}
		addChunk, err := readUint32(body)
		if err != nil {
			return nil, meta, fmt.Errorf("add complete %d chunk: %w", i, err)
		}
		set.AddCompletes = append(set.AddCompletes, models.NewAddComplete(complete, addChunk))
	}

	for i := uint32(0); i < hdr.NumSubCompletes; i++ {
		complete := make([]byte, models.CompleteHashSize)
		if _, err := io.ReadFull(body, complete); err != nil {
			return nil, meta, fmt.Errorf("sub complete %d: %w", i, err)
		}
		addChunk, err := readUint32(body)
		if err != nil {
			return nil, meta, fmt.Errorf("sub complete %d add chunk: %w", i, err)
		}
		subChunk, err := readUint32(body)
		if err != nil {
			return nil, meta, fmt.Errorf("sub complete %d sub chunk: %w", i, err)
		}
		set.SubCompletes = append(set.SubCompletes, models.NewSubComplete(complete, addChunk, subChunk))
	}

	computed := h.Sum(nil)

	// The checksum is read from the underlying reader so it does not hash
	// itself.
	n, err := io.ReadFull(r, meta.Checksum[:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, meta, &TruncatedChecksumError{Got: n}
	}
	if err != nil {
		return nil, meta, fmt.Errorf("failed to read checksum: %w", err)
	}

	if opts.VerifyChecksum && !bytes.Equal(computed, meta.Checksum[:]) {
		mismatch := &ChecksumMismatchError{Stored: meta.Checksum}
		copy(mismatch.Computed[:], computed)
		return nil, meta, mismatch
	}

	// Strict EOF: one more byte must not exist.
	remaining, err := io.Copy(io.Discard, r)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to probe for trailing data: %w", err)
	}
	if remaining > 0 {
		return nil, meta, &TrailingDataError{Remaining: remaining}
	}

	return set, meta, nil
}

func readUint32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func readUint32Array(r io.Reader, count uint32) ([]uint32, error) {
	values := make([]uint32, count)
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		return nil, err
	}
	return values, nil
}
