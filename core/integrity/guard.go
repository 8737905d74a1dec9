package integrity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bitbackup/core/hasher"

	"go.uber.org/zap"
)

// ErrBackingStoreCorrupted is returned when the inventory file no longer matches its recorded digest.
var ErrBackingStoreCorrupted = errors.New("backing store corrupted")

// Status describes the outcome of Verify.
type Status string

const (
	// StatusVerified means both files exist and the digest matched.
	StatusVerified Status = "verified"
	// StatusFirstRun means the store or its digest is missing, so there is nothing to verify.
	StatusFirstRun Status = "first_run"
)

// Guard protects the inventory file with a SHA-512 digest kept next to it.
type Guard struct {
	store  string
	digest string
	hasher *hasher.Hasher
	logger *zap.Logger
}

// NewGuard creates a guard for the store file at store, with its digest at digest.
func NewGuard(store, digest string, logger *zap.Logger) *Guard {
	return &Guard{
		store:  store,
		digest: digest,
		hasher: hasher.New(),
		logger: logger,
	}
}

// Verify compares the store file against the recorded digest.
// It must run before the store is opened so a corrupted inventory is never read or written.
func (g *Guard) Verify() (Status, error) {
	storeExists, err := exists(g.store)
	if err != nil {
		return "", err
	}
	digestExists, err := exists(g.digest)
	if err != nil {
		return "", err
	}
	if !storeExists || !digestExists {
		g.logger.Info("No inventory digest to verify, treating as first run",
			zap.Bool("store_exists", storeExists),
			zap.Bool("digest_exists", digestExists),
		)
		return StatusFirstRun, nil
	}

	recorded, err := os.ReadFile(g.digest)
	if err != nil {
		return "", fmt.Errorf("failed to read digest %s: %w", g.digest, err)
	}
	actual, err := g.hasher.HashFile(g.store)
	if err != nil {
		return "", err
	}

	expected := strings.TrimSpace(string(recorded))
	if expected != actual {
		g.logger.Error("Inventory digest mismatch",
			zap.String("store", g.store),
			zap.String("expected", expected),
			zap.String("actual", actual),
		)
		return "", fmt.Errorf("%w: %s: expected %s, got %s", ErrBackingStoreCorrupted, g.store, expected, actual)
	}

	g.logger.Info("Inventory digest verified", zap.String("store", g.store))
	return StatusVerified, nil
}

// Refresh recomputes the store digest and overwrites the companion file.
// It must run after the store connection is closed.
func (g *Guard) Refresh() (string, error) {
	sum, err := g.hasher.HashFile(g.store)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(g.digest, []byte(sum)); err != nil {
		return "", fmt.Errorf("failed to write digest %s: %w", g.digest, err)
	}
	g.logger.Info("Inventory digest refreshed", zap.String("digest", g.digest))
	return sum, nil
}

// writeAtomic replaces path with data through a temporary file in the same directory,
// so an interrupted write never leaves a truncated digest behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(name, 0o644)
	}
	if err == nil {
		err = os.Rename(name, path)
	}
	if err != nil {
		_ = os.Remove(name)
	}
	return err
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}
