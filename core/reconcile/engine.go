package reconcile

// DiffCount returns the size of the symmetric difference between the two key
// sequences, treating each side as a set. Duplicate keys within one side
// collapse, matching set semantics: a record either survived migration or it
// did not, regardless of how often it appears.
func DiffCount[K comparable](old, new []K) int {
	oldSet := toSet(old)
	newSet := toSet(new)

	count := 0
	for k := range oldSet {
		if _, ok := newSet[k]; !ok {
			count++
		}
	}
	for k := range newSet {
		if _, ok := oldSet[k]; !ok {
			count++
		}
	}
	return count
}

// SetSize returns the number of distinct keys in keys. It is the baseline
// counterpart of DiffCount: percentages are computed over distinct reference
// records, not raw row counts.
func SetSize[K comparable](keys []K) int {
	return len(toSet(keys))
}

func toSet[K comparable](keys []K) map[K]struct{} {
	set := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
