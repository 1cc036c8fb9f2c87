// Package reconcile provides the cross-store comparison engine and report
// model used to validate safebrowsing cache migrations.
//
// The engine is deliberately source-agnostic: feature packages decode their
// stores into keyed record sets and hand the keys here. One side is always
// the reference (the legacy store in a migration check); its record counts
// form the denominator of every match percentage.
//
// # Components
//
//  1. DiffCount: a generic symmetric-difference counter over comparable
//     keys. A record counts as mismatched when it is present on exactly one
//     side, so the measure is symmetric in old/new.
//
//  2. Report model: ListReport per list, aggregated into an OverallReport
//     with a Summary. Lists missing from the new store or failing to decode
//     are report entries, never a crash, so one bad list cannot hide the
//     results for the others.
//
//  3. Cache: a TTL-based report cache with stampede protection, used by the
//     HTTP serve mode so repeated report requests do not re-decode the
//     profile directories.
//
// # Usage
//
//	mismatches := reconcile.DiffCount(oldKeys, newKeys)
//	report := reconcile.Aggregate(runID, listReports)
//	if report.Failed() { ... }
package reconcile
