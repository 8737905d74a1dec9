// Package fsindex writes a metadata snapshot of a scan: one tab-separated line per
// visited directory and tracked file with ownership, permissions, timestamps, size,
// a SHA-256 digest and the extended attributes.
//
// The index is informational. It is rewritten on every run that asks for it and is
// excluded from tracking by the built-in ignore patterns.
package fsindex
