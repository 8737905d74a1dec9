package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"bitbackup/core/pathfilter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func scan(t *testing.T, root string, skip ...string) *Result {
	t.Helper()
	s := New(root, ".bitbackupignore", pathfilter.New(), skip, zap.NewNop())
	res, err := s.Scan()
	require.NoError(t, err)
	return res
}

func TestScan_CollectsRelativePaths(t *testing.T) {
	root := t.TempDir()
	write(t, root, "b.txt", "b")
	write(t, root, "a/x.txt", "x")
	write(t, root, "a/deep/y.txt", "y")

	res := scan(t, root)

	assert.Equal(t, []string{"a/deep/y.txt", "a/x.txt", "b.txt"}, res.Paths)
	assert.True(t, res.Contains("a/x.txt"))
	assert.False(t, res.Contains("a"))
	assert.Equal(t, 3, res.Len())
	assert.Equal(t, 3, res.FilesVisited)
	assert.Equal(t, 2, res.DirsVisited)

	require.Len(t, res.Entries, 5)
	assert.Equal(t, Entry{Path: "a", IsDir: true}, res.Entries[0])
	assert.Equal(t, Entry{Path: "a/deep", IsDir: true}, res.Entries[1])
}

func TestScan_SkipsBookkeepingFiles(t *testing.T) {
	root := t.TempDir()
	store := filepath.Join(root, ".bitbackup.sqlite3")
	write(t, root, ".bitbackup.sqlite3", "db")
	write(t, root, ".bitbackup.sqlite3.sha512", "sum")
	write(t, root, ".bitbackupreport.csv", "file;expected;calculated\n")
	write(t, root, "1700000000000..bitbackupreport.csv", "old")
	write(t, root, ".bitbackupindex.csv", "idx")
	write(t, root, "keep.txt", "k")

	res := scan(t, root, store, store+".sha512")

	assert.Equal(t, []string{"keep.txt"}, res.Paths)
	assert.Equal(t, 6, res.FilesVisited)
}

func TestScan_RootIgnoreFileIsTrackedButNotLoaded(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".bitbackupignore", "*.tmp\n")
	write(t, root, "a.tmp", "t")

	res := scan(t, root)

	// The caller loads the root ignore file before scanning; the scanner does not.
	assert.Equal(t, []string{".bitbackupignore", "a.tmp"}, res.Paths)
}

func TestScan_NestedIgnoreScopedToSubtree(t *testing.T) {
	root := t.TempDir()
	write(t, root, "sub/.bitbackupignore", "*.tmp\n")
	write(t, root, "sub/x.tmp", "x")
	write(t, root, "sub/inner/y.tmp", "y")
	write(t, root, "sub/keep.txt", "k")
	write(t, root, "top.tmp", "t")
	write(t, root, "z/other.tmp", "o")

	res := scan(t, root)

	assert.Equal(t, []string{"sub/.bitbackupignore", "sub/keep.txt", "top.tmp", "z/other.tmp"}, res.Paths)
}

func TestScan_NestedIgnoreInWildcardNamedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("'?' and '*' are not valid in windows file names")
	}
	root := t.TempDir()
	write(t, root, "x?/.bitbackupignore", "*.log\n")
	write(t, root, "x?/a.log", "a")
	write(t, root, "xy/b.log", "b")
	write(t, root, "s*/.bitbackupignore", "*.tmp\n")
	write(t, root, "sz/c.tmp", "c")

	res := scan(t, root)

	assert.Equal(t, []string{"s*/.bitbackupignore", "sz/c.tmp", "x?/.bitbackupignore", "xy/b.log"}, res.Paths)
}

func TestScan_NestedIgnoreIsOrderDependent(t *testing.T) {
	root := t.TempDir()
	// "#early.tmp" sorts before ".bitbackupignore", so it is visited before the rule exists.
	write(t, root, "sub/#early.tmp", "e")
	write(t, root, "sub/.bitbackupignore", "*.tmp\n")
	write(t, root, "sub/late.tmp", "l")

	res := scan(t, root)

	assert.Contains(t, res.Paths, "sub/#early.tmp")
	assert.NotContains(t, res.Paths, "sub/late.tmp")
}

func TestScan_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	write(t, root, "real/file.txt", "r")
	require.NoError(t, os.Symlink(filepath.Join(root, "real", "file.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken")))

	res := scan(t, root)

	assert.Equal(t, []string{"link.txt", "real/file.txt"}, res.Paths)
}

func TestScan_UnreadableRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), ".bitbackupignore", pathfilter.New(), nil, zap.NewNop()).Scan()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScanFailed))
}
