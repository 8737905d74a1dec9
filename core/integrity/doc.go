// Package integrity guards the inventory file itself against silent corruption.
//
// The guard keeps a SHA-512 hex digest of .bitbackup.sqlite3 in .bitbackup.sqlite3.sha512.
// Verify runs before the inventory is opened and fails with ErrBackingStoreCorrupted on a
// mismatch; a missing store or digest is treated as a first run. Refresh runs after the
// inventory is closed and always rewrites the digest.
//
// # Usage
//
//	guard := integrity.NewGuard(layout.Store, layout.Digest, logger)
//	if _, err := guard.Verify(); err != nil {
//	    return err
//	}
//	// ... open, reconcile, close ...
//	_, err := guard.Refresh()
package integrity
