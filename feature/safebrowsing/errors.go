package safebrowsing

import "fmt"

// TrailingDataError reports bytes left in a store file after the trailing
// checksum. The format has no footer, so anything after the checksum means
// the decode and the file disagree about the layout.
type TrailingDataError struct {
	// Remaining is the number of unconsumed bytes.
	Remaining int64
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("file doesn't end where expected: %d bytes remaining", e.Remaining)
}

// TruncatedChecksumError reports a store file that ended inside its trailing
// checksum.
type TruncatedChecksumError struct {
	// Got is the number of checksum bytes that were available.
	Got int
}

func (e *TruncatedChecksumError) Error() string {
	return fmt.Sprintf("checksum truncated: got %d of %d bytes", e.Got, checksumSize)
}

// ChecksumMismatchError reports a store body whose recomputed MD5 does not
// match the stored checksum. Only raised when DecodeOptions.VerifyChecksum
// is set.
type ChecksumMismatchError struct {
	Stored   [checksumSize]byte
	Computed [checksumSize]byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("store checksum mismatch: stored %x computed %x", e.Stored, e.Computed)
}

// PrefixCountMismatchError reports a store/prefix-set pair that disagree
// about the number of add prefixes. The two files are written together, so
// a mismatch means the pair is inconsistent and the list cannot be
// assembled.
type PrefixCountMismatchError struct {
	// Expected is the add-prefix count declared by the store file.
	Expected int
	// Actual is the number of prefixes decoded from the prefix set.
	Actual int
}

func (e *PrefixCountMismatchError) Error() string {
	return fmt.Sprintf("prefix count mismatch: store declares %d add prefixes, prefix set has %d", e.Expected, e.Actual)
}
