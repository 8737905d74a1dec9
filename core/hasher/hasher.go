package hasher

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
)

// ErrHashComputationFailed is returned when a file cannot be read to the end.
var ErrHashComputationFailed = errors.New("hash computation failed")

const (
	// SHA512 is the algorithm recorded alongside every inventory hash.
	SHA512 = "SHA-512"
	// SHA256 is used by the filesystem index.
	SHA256 = "SHA-256"
)

// Hasher computes whole-file content digests as lowercase hex.
type Hasher struct {
	algorithm string
	newHash   func() hash.Hash
}

// New returns a SHA-512 Hasher.
func New() *Hasher {
	return &Hasher{algorithm: SHA512, newHash: sha512.New}
}

// NewSHA256 returns a SHA-256 Hasher.
func NewSHA256() *Hasher {
	return &Hasher{algorithm: SHA256, newHash: sha256.New}
}

// Algorithm returns the name stored next to each digest.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// HashFile streams the file at path through the digest.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrHashComputationFailed, path, err)
	}
	defer f.Close()

	sum, err := h.HashReader(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrHashComputationFailed, path, err)
	}
	return sum, nil
}

// HashReader digests everything readable from r.
func (h *Hasher) HashReader(r io.Reader) (string, error) {
	d := h.newHash()
	if _, err := io.Copy(d, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

// HashBytes digests b.
func (h *Hasher) HashBytes(b []byte) string {
	d := h.newHash()
	d.Write(b)
	return hex.EncodeToString(d.Sum(nil))
}
