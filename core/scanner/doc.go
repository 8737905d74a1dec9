// Package scanner enumerates the files under a scan root that bitbackup tracks.
//
// The walk is depth-first in lexical order. Regular files (and links to regular files)
// are collected by root-relative, slash-separated path unless the PathFilter excludes
// them or they are one of the inventory's own files. Directories are recursed into
// but never tracked; links to directories are not followed.
//
// Nested .bitbackupignore files register their rules while the walk is in progress,
// scoped to their own subtree. An unlistable directory fails the whole scan with
// ErrScanFailed rather than letting everything beneath it look deleted.
package scanner
