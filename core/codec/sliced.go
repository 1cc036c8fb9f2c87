package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// SliceLengthMismatchError is returned when the four decoded byte slices of
// a sliced array do not all have the expected element count. The compressed
// block headers only declare compressed sizes, so the decompressed lengths
// can only be validated after the fact.
type SliceLengthMismatchError struct {
	// Lengths holds the observed length of each slice, MSB first.
	Lengths [4]int
}

func (e *SliceLengthMismatchError) Error() string {
	return fmt.Sprintf("slices inconsistent %d %d %d %d",
		e.Lengths[0], e.Lengths[1], e.Lengths[2], e.Lengths[3])
}

// DecodeSliced reads a byte-sliced array of count uint32 values from r.
// It consumes three length-prefixed zlib blocks (the MSB, 2nd and 3rd byte
// slices) followed by count raw LSB bytes, validates that every slice holds
// exactly count bytes, and reassembles the original values.
func DecodeSliced(r io.Reader, count uint32) ([]uint32, error) {
	slices := make([][]byte, 4)

	for i := 0; i < 3; i++ {
		slice, err := readCompressed(r)
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", i+1, err)
		}
		slices[i] = slice
	}

	// LSB slice is stored raw. A short read still produces a length we can
	// report in the mismatch error below.
	raw := make([]byte, count)
	n, err := io.ReadFull(r, raw)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("slice 4: %w", err)
	}
	slices[3] = raw[:n]

	for _, slice := range slices {
		if uint32(len(slice)) != count {
			return nil, &SliceLengthMismatchError{Lengths: [4]int{
				len(slices[0]), len(slices[1]), len(slices[2]), len(slices[3]),
			}}
		}
	}

	values := make([]uint32, count)
	for i := range values {
		values[i] = uint32(slices[0][i])<<24 | uint32(slices[1][i])<<16 |
			uint32(slices[2][i])<<8 | uint32(slices[3][i])
	}
	return values, nil
}

// EncodeSliced writes values to w in byte-sliced form. The exact compressed
// bytes depend on the zlib implementation, but DecodeSliced always recovers
// the original values.
func EncodeSliced(w io.Writer, values []uint32) error {
	count := len(values)
	slices := make([][]byte, 4)
	for i := range slices {
		slices[i] = make([]byte, count)
	}
	for i, v := range values {
		slices[0][i] = byte(v >> 24)
		slices[1][i] = byte(v >> 16)
		slices[2][i] = byte(v >> 8)
		slices[3][i] = byte(v)
	}

	for i := 0; i < 3; i++ {
		if err := writeCompressed(w, slices[i]); err != nil {
			return fmt.Errorf("slice %d: %w", i+1, err)
		}
	}
	if _, err := w.Write(slices[3]); err != nil {
		return fmt.Errorf("slice 4: %w", err)
	}
	return nil
}

// readCompressed reads one length-prefixed zlib block and returns its
// decompressed payload.
func readCompressed(r io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("failed to read block size: %w", err)
	}

	compressed := make([]byte, size)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("failed to read %d compressed bytes: %w", size, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to open zlib block: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress block: %w", err)
	}
	return data, nil
}

// writeCompressed writes a zlib block prefixed with its compressed length.
func writeCompressed(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(buf.Len())); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
