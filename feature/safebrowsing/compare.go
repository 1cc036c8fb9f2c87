package safebrowsing

import (
	"sort"

	"sb-verify/core/reconcile"
	"sb-verify/feature/safebrowsing/models"
)

// addKey identifies an add-prefix record for set comparison.
type addKey struct {
	Prefix   uint32
	AddChunk uint32
}

// subKey identifies a sub-prefix record for set comparison.
type subKey struct {
	Prefix   uint32
	SubChunk uint32
	AddChunk uint32
}

func addKeys(records []models.HashRecord) []addKey {
	keys := make([]addKey, len(records))
	for i, r := range records {
		keys[i] = addKey{Prefix: r.Prefix, AddChunk: r.AddChunk}
	}
	return keys
}

func subKeys(records []models.HashRecord) []subKey {
	keys := make([]subKey, len(records))
	for i, r := range records {
		keys[i] = subKey{Prefix: r.Prefix, SubChunk: r.SubChunk, AddChunk: r.AddChunk}
	}
	return keys
}

// CompareLists compares one list across the two sources. old is the
// reference side; its distinct record count is the report's baseline total.
// Mismatches are records present on exactly one side, so the count itself
// is symmetric in old/new.
func CompareLists(old, new *models.ListRecordSet) reconcile.ListReport {
	oldAdds := addKeys(old.AddPrefixes)
	oldSubs := subKeys(old.SubPrefixes)

	return reconcile.ListReport{
		Name:          old.Name,
		AddMismatches: reconcile.DiffCount(oldAdds, addKeys(new.AddPrefixes)),
		SubMismatches: reconcile.DiffCount(oldSubs, subKeys(new.SubPrefixes)),
		Total:         reconcile.SetSize(oldAdds) + reconcile.SetSize(oldSubs),
	}
}

// CompareAll compares every list of the reference store against the new
// store. newErrs carries per-list decode failures from loading the new
// side; those lists are reported as failed rather than compared. Lists
// absent from the new side entirely become missing-list entries. Reports
// come back sorted by list name for deterministic output.
func CompareAll(old, new map[string]*models.ListRecordSet, newErrs map[string]error) []reconcile.ListReport {
	names := make([]string, 0, len(old))
	for name := range old {
		names = append(names, name)
	}
	sort.Strings(names)

	reports := make([]reconcile.ListReport, 0, len(names))
	for _, name := range names {
		oldSet := old[name]
		baseline := reconcile.SetSize(addKeys(oldSet.AddPrefixes)) + reconcile.SetSize(subKeys(oldSet.SubPrefixes))

		if err, failed := newErrs[name]; failed {
			reports = append(reports, reconcile.ListReport{Name: name, Total: baseline, Error: err.Error()})
			continue
		}

		newSet, ok := new[name]
		if !ok {
			missing := &reconcile.MissingListError{Name: name}
			reports = append(reports, reconcile.ListReport{
				Name:    name,
				Missing: true,
				Total:   baseline,
				Error:   missing.Error(),
			})
			continue
		}

		reports = append(reports, CompareLists(oldSet, newSet))
	}
	return reports
}
