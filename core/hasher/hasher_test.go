package hasher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloSHA512 = "9b71d224bd62f3785d96d46ad3ea3d73319bfbc2890caadae2dff72519673ca72323c3d99ba5c11d7c7acc6e14b8c5da0c4663475c2e5c3adef46f73bcdec043"

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	h := New()
	sum, err := h.HashFile(path)
	require.NoError(t, err)

	assert.Equal(t, helloSHA512, sum)
	assert.Equal(t, "SHA-512", h.Algorithm())
	assert.Equal(t, strings.ToLower(sum), sum)
}

func TestHashFile_Missing(t *testing.T) {
	_, err := New().HashFile(filepath.Join(t.TempDir(), "absent"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHashComputationFailed))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestHashBytesMatchesReader(t *testing.T) {
	h := New()
	fromReader, err := h.HashReader(strings.NewReader("hello"))
	require.NoError(t, err)

	assert.Equal(t, helloSHA512, h.HashBytes([]byte("hello")))
	assert.Equal(t, fromReader, h.HashBytes([]byte("hello")))
}

func TestNewSHA256(t *testing.T) {
	h := NewSHA256()

	assert.Equal(t, "SHA-256", h.Algorithm())
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", h.HashBytes([]byte("hello")))
}
