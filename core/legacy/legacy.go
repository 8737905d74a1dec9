// Package legacy renames bookkeeping files left by the tool's earlier product names
// (bit-inspector ".bir" and bit-backup ".bib") to their current names.
package legacy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bitbackup/core/bitfiles"

	"go.uber.org/zap"
)

// Prefixes are the legacy product names, newest first.
var Prefixes = []string{".bib", ".bir"}

// Rename is one file moved by a migration, as absolute paths.
type Rename struct {
	From string
	To   string
}

// Migrator renames legacy files under a scan root.
type Migrator struct {
	layout *bitfiles.Layout
	logger *zap.Logger
}

// NewMigrator creates a migrator for layout.
func NewMigrator(layout *bitfiles.Layout, logger *zap.Logger) *Migrator {
	return &Migrator{layout: layout, logger: logger}
}

// Run moves the legacy inventory, its digest and every legacy ignore file in the tree.
// A file is only moved when its current name does not exist yet.
func (m *Migrator) Run() ([]Rename, error) {
	var renames []Rename

	store, err := m.migrateStore()
	if err != nil {
		return nil, err
	}
	renames = append(renames, store...)

	ignores, err := m.migrateIgnoreFiles()
	if err != nil {
		return nil, err
	}
	renames = append(renames, ignores...)

	for _, r := range renames {
		m.logger.Info("Migrated legacy file", zap.String("from", r.From), zap.String("to", r.To))
	}
	return renames, nil
}

// migrateStore moves the first legacy store found when no current one exists. The
// digest is moved along with it only when it has no current counterpart either.
func (m *Migrator) migrateStore() ([]Rename, error) {
	if exists(m.layout.Store) {
		return nil, nil
	}

	for _, prefix := range Prefixes {
		legacyStore := filepath.Join(m.layout.Root, prefix+".sqlite3")
		if !exists(legacyStore) {
			continue
		}

		renames := []Rename{{From: legacyStore, To: m.layout.Store}}
		if err := os.Rename(legacyStore, m.layout.Store); err != nil {
			return nil, fmt.Errorf("failed to migrate %s: %w", legacyStore, err)
		}

		legacyDigest := legacyStore + bitfiles.DigestSuffix
		if exists(legacyDigest) && !exists(m.layout.Digest) {
			if err := os.Rename(legacyDigest, m.layout.Digest); err != nil {
				return nil, fmt.Errorf("failed to migrate %s: %w", legacyDigest, err)
			}
			renames = append(renames, Rename{From: legacyDigest, To: m.layout.Digest})
		}
		return renames, nil
	}
	return nil, nil
}

func (m *Migrator) migrateIgnoreFiles() ([]Rename, error) {
	legacyNames := make(map[string]struct{}, len(Prefixes))
	for _, prefix := range Prefixes {
		legacyNames[prefix+"ignore"] = struct{}{}
	}

	var renames []Rename
	err := filepath.WalkDir(m.layout.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := legacyNames[d.Name()]; !ok {
			return nil
		}
		target := filepath.Join(filepath.Dir(p), bitfiles.IgnoreName)
		if exists(target) {
			return nil
		}
		if err := os.Rename(p, target); err != nil {
			return err
		}
		renames = append(renames, Rename{From: p, To: target})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate ignore files: %w", err)
	}
	return renames, nil
}

func exists(p string) bool {
	_, err := os.Lstat(p)
	return !errors.Is(err, fs.ErrNotExist)
}
