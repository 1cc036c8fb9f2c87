// Package safebrowsing validates that the migration from the legacy
// urlclassifier3 sqlite cache to the flat .sbstore/.pset representation
// preserved every reputation record.
//
// # Data flow
//
// New side: each list is a pair of files. The .sbstore carries chunk ids,
// sub-prefix records, complete hashes and a placeholder add-prefix record
// per entry; the paired .pset carries the actual add-prefix values in
// delta-encoded form. DecodeStore and DecodePrefixSet decode the two files,
// Assemble fills the placeholders and sorts canonically.
//
// Legacy side: LoadLegacyLists maps moz_tables/moz_classifier/moz_subs rows
// into the same models.ListRecordSet shape, no binary decoding involved.
//
// Both sides feed CompareAll, which produces one reconcile.ListReport per
// reference list. A list missing from the new store, or one whose files
// failed to decode, is reported as a failure without aborting the rest.
//
// # Strictness
//
// DecodeOptions controls two opt-in checks the format itself does not
// require: header magic/version validation and MD5 checksum verification of
// the store body.
package safebrowsing
