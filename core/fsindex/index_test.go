package fsindex

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"bitbackup/core/hasher"
	"bitbackup/core/scanner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPermissionString(t *testing.T) {
	cases := []struct {
		mode fs.FileMode
		want string
	}{
		{0o750, "rwxr-x---"},
		{0o644, "rw-r--r--"},
		{0o000, "---------"},
		{0o755 | fs.ModeSetuid, "rwsr-xr-x"},
		{0o644 | fs.ModeSetuid, "rwSr--r--"},
		{0o775 | fs.ModeSetgid, "rwxrwsr-x"},
		{0o777 | fs.ModeSticky, "rwxrwxrwt"},
		{0o776 | fs.ModeSticky, "rwxrwxrwT"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, PermissionString(tc.mode))
		})
	}
}

func TestEncodeAttrs(t *testing.T) {
	assert.Empty(t, EncodeAttrs(nil))

	encoded := EncodeAttrs(map[string]string{"user.b": "2", "user.a": "1"})
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "user.a=1\nuser.b=2\n", string(raw))
}

func TestRecord_Line(t *testing.T) {
	r := Record{
		Parent:        "/data",
		Name:          "a.txt",
		Type:          TypeRegular,
		UID:           1000,
		GID:           100,
		Owner:         "alice",
		Group:         "users",
		Permissions:   "rw-r--r--",
		ModTimeMillis: 1700000000123,
		Size:          5,
		HashAlgorithm: "SHA-256",
		HashValue:     "abc",
	}

	want := "/data\ta.txt\t-\t\t1000\t100\talice\tusers\trw-r--r--\t1700000000123\t5\tSHA-256\tabc\t"
	assert.Equal(t, want, r.Line())
}

func TestIndexer_Build(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	file := filepath.Join(root, "sub", "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o640))
	mtime := time.UnixMilli(1700000000123)
	require.NoError(t, os.Chtimes(file, mtime, mtime))

	records, err := New(root, zap.NewNop()).Build([]scanner.Entry{
		{Path: "sub", IsDir: true},
		{Path: "sub/a.txt"},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	dir := records[0]
	assert.Equal(t, root, dir.Parent)
	assert.Equal(t, "sub", dir.Name)
	assert.Equal(t, TypeDir, dir.Type)
	assert.Empty(t, dir.HashValue)
	assert.Equal(t, "SHA-256", dir.HashAlgorithm)

	f := records[1]
	assert.Equal(t, filepath.Join(root, "sub"), f.Parent)
	assert.Equal(t, "a.txt", f.Name)
	assert.Equal(t, TypeRegular, f.Type)
	assert.Equal(t, int64(5), f.Size)
	assert.Equal(t, int64(1700000000123), f.ModTimeMillis)
	assert.Equal(t, hasher.NewSHA256().HashBytes([]byte("hello")), f.HashValue)
	if runtime.GOOS != "windows" {
		assert.Equal(t, "rw-r-----", f.Permissions)
		assert.Equal(t, os.Getuid(), f.UID)
		assert.NotEmpty(t, f.Owner)
	}
}

func TestIndexer_Symlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "target.txt"), []byte("t"), 0o644))
	require.NoError(t, os.Symlink("target.txt", filepath.Join(root, "link.txt")))

	records, err := New(root, zap.NewNop()).Build([]scanner.Entry{{Path: "link.txt"}})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, TypeLink, records[0].Type)
	assert.Equal(t, "target.txt", records[0].LinkTarget)
	assert.Equal(t, hasher.NewSHA256().HashBytes([]byte("t")), records[0].HashValue)
}

func TestIndexer_MissingEntry(t *testing.T) {
	_, err := New(t.TempDir(), zap.NewNop()).Build([]scanner.Entry{{Path: "gone.txt"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexFailed))
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bitbackupindex.csv")
	records := []Record{
		{Parent: "/r", Name: "d", Type: TypeDir, Permissions: "rwxr-xr-x", HashAlgorithm: "SHA-256"},
		{Parent: "/r/d", Name: "f", Type: TypeRegular, Permissions: "rw-r--r--", HashAlgorithm: "SHA-256", HashValue: "00"},
	}
	require.NoError(t, Write(path, records))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, strings.Split(lines[0], "\t"), 14)
	assert.Equal(t, records[1].Line(), lines[1])
}
