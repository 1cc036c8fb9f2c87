package reconcile

import "fmt"

// MissingListError reports a list that exists in the reference store but has
// no counterpart in the migrated store. It is surfaced as a list-level
// failure in the report rather than aborting the remaining comparisons.
type MissingListError struct {
	// Name is the list identifier, e.g. "goog-malware-shavar".
	Name string
}

func (e *MissingListError) Error() string {
	return fmt.Sprintf("list %q missing from new store", e.Name)
}

// ListReport is the comparison outcome for a single list.
type ListReport struct {
	// Name is the list identifier.
	Name string `json:"name"`

	// Missing indicates the list was absent from the new store entirely.
	Missing bool `json:"missing"`

	// AddMismatches counts add-prefix records present on exactly one side.
	AddMismatches int `json:"add_mismatches"`

	// SubMismatches counts sub-prefix records present on exactly one side.
	SubMismatches int `json:"sub_mismatches"`

	// Total is the baseline record count, taken from the reference side.
	Total int `json:"total"`

	// Error holds the decode failure for this list, if any.
	Error string `json:"error,omitempty"`
}

// Consistent reports whether the list survived migration without loss:
// present on both sides, decodable, and with zero mismatched records.
func (r ListReport) Consistent() bool {
	return !r.Missing && r.Error == "" && r.AddMismatches+r.SubMismatches == 0
}

// MatchPercent returns the share of reference records that matched.
// An empty reference list trivially matched in full.
func (r ListReport) MatchPercent() float64 {
	if r.Total == 0 {
		return 100
	}
	failed := r.AddMismatches + r.SubMismatches
	return float64(r.Total-failed) * 100 / float64(r.Total)
}

// Summary provides aggregate statistics for an overall report.
type Summary struct {
	// TotalLists is the number of lists in the reference store.
	TotalLists int `json:"total_lists"`

	// ConsistentLists counts lists that migrated without loss.
	ConsistentLists int `json:"consistent_lists"`

	// MissingLists counts lists absent from the new store.
	MissingLists int `json:"missing_lists"`

	// FailedLists counts lists that could not be decoded.
	FailedLists int `json:"failed_lists"`

	// TotalRecords is the combined baseline record count.
	TotalRecords int `json:"total_records"`

	// TotalMismatches is the combined mismatch count across all lists.
	TotalMismatches int `json:"total_mismatches"`
}

// OverallReport is the aggregate result of comparing every list.
type OverallReport struct {
	// RunID uniquely identifies this verification run.
	RunID string `json:"run_id"`

	// Lists contains one report per reference list, sorted by name.
	Lists []ListReport `json:"lists"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Failed reports whether any list is inconsistent, missing, or undecodable.
func (o *OverallReport) Failed() bool {
	for _, l := range o.Lists {
		if !l.Consistent() {
			return true
		}
	}
	return false
}

// Aggregate builds an OverallReport from per-list reports.
func Aggregate(runID string, lists []ListReport) *OverallReport {
	report := &OverallReport{RunID: runID, Lists: lists}
	s := &report.Summary

	s.TotalLists = len(lists)
	for _, l := range lists {
		if l.Consistent() {
			s.ConsistentLists++
		}
		if l.Missing {
			s.MissingLists++
		} else if l.Error != "" {
			s.FailedLists++
		}
		s.TotalRecords += l.Total
		s.TotalMismatches += l.AddMismatches + l.SubMismatches
	}
	return report
}
