// Package inventory serves a read-only HTTP view of one scan root's inventory.
//
// Routes live under /inventory: the summary (cached for the configured TTL, with
// concurrent rebuilds collapsed through singleflight), the record listing with an
// optional OK/KO filter, single records by root-relative path and an on-demand
// verification of the store digest. The store is opened read-only and never written.
package inventory
