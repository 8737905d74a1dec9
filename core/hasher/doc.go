// Package hasher computes whole-file content digests.
//
// Inventory records use SHA-512; the filesystem index uses SHA-256. Digests are
// returned as lowercase hex. Any read failure is wrapped in ErrHashComputationFailed.
package hasher
