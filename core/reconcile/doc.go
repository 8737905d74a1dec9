// Package reconcile diffs a scan of the archive against the stored inventory.
//
// A pass runs in three stages, each against the snapshot loaded at the start:
//
//  1. Add: scanned paths without a record are hashed and inserted in batches.
//  2. Remove: records whose path was not scanned are deleted. They are not classified.
//  3. Classify: every surviving record is re-hashed and sorted into one bucket.
//
// Classification compares the normalized modification time first. An unchanged
// mtime with a different digest is bit rot: the stored digest is kept so the
// corruption stays visible and the record is flagged KO. A changed mtime is a
// legitimate edit and the record is rewritten. Everything else is stamped with
// the run time in bulk.
//
// Any hashing or store failure aborts the pass; records already written by an
// earlier stage remain.
package reconcile
