// Package models defines the canonical in-memory representation shared by
// every safebrowsing data source.
//
// Both the legacy sqlite rows and the new binary store files converge into
// the same two types: HashRecord, a single reputation entry tagged with a
// record kind, and ListRecordSet, one named list holding its records and the
// chunk ids they reference. The comparison engine therefore reasons about
// exactly one representation regardless of where the data came from.
//
// A ListRecordSet is built once per source, fully populated, canonically
// sorted via SortAll, and then treated as read-only.
package models
