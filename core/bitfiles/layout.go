package bitfiles

import (
	"fmt"
	"path/filepath"
)

// Well-known file names kept at the top of every scanned directory.
const (
	StoreName      = ".bitbackup.sqlite3"
	DigestSuffix   = ".sha512"
	DigestName     = StoreName + DigestSuffix
	IgnoreName     = ".bitbackupignore"
	ReportName     = ".bitbackupreport.csv"
	IndexName      = ".bitbackupindex.csv"
	ProductName    = "bitbackup"
	VersionKey     = "bitbackup.version"
	DefaultVersion = "0.0.0-SNAPSHOT"
)

// Layout resolves the absolute locations of the bookkeeping files for one scan root.
type Layout struct {
	// Root is the absolute scan root.
	Root string
	// Store is the SQLite inventory file.
	Store string
	// Digest is the SHA-512 companion of Store.
	Digest string
	// Ignore is the root ignore file.
	Ignore string
	// Report is the bit rot report.
	Report string
	// Index is the filesystem metadata index.
	Index string
}

// NewLayout builds a Layout for dir, resolving it to an absolute path.
func NewLayout(dir string) (*Layout, error) {
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan root %q: %w", dir, err)
	}
	return &Layout{
		Root:   root,
		Store:  filepath.Join(root, StoreName),
		Digest: filepath.Join(root, DigestName),
		Ignore: filepath.Join(root, IgnoreName),
		Report: filepath.Join(root, ReportName),
		Index:  filepath.Join(root, IndexName),
	}, nil
}

// StoreCompanions returns the SQLite side files that live next to the store while it is open.
func (l *Layout) StoreCompanions() []string {
	return []string{
		l.Store + "-journal",
		l.Store + "-wal",
		l.Store + "-shm",
	}
}
