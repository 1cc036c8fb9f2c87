package safebrowsing

import "sb-verify/feature/safebrowsing/models"

// Assemble completes a decoded store with the add-prefix values from its
// paired prefix-set file and puts the set into canonical order. The two
// files are emitted together, so a count mismatch means the pair is
// inconsistent and the list is unusable.
//
// Prefixes are assigned positionally: both sequences are still in
// file-emitted order at this point, which is why assembly must happen
// before sorting.
func Assemble(set *models.ListRecordSet, prefixes []uint32) error {
	if len(prefixes) != len(set.AddPrefixes) {
		return &PrefixCountMismatchError{Expected: len(set.AddPrefixes), Actual: len(prefixes)}
	}

	for i := range set.AddPrefixes {
		set.AddPrefixes[i].Prefix = prefixes[i]
	}

	set.SortAll()
	return nil
}
