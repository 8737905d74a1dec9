// Package check wires one bit rot check of a scan root.
//
// A run verifies the inventory digest, opens and migrates the store, scans the tree,
// reconciles it against the inventory and then writes the optional index and report.
// The store is closed and its digest refreshed before metrics are recorded and the
// optional archive upload happens. Runs that find bit rot return ErrBitRotDetected
// alongside a complete Outcome.
package check
