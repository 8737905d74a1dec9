package pathfilter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name  string
		glob  string
		path  string
		match bool
	}{
		{"StarAnySuffix", "*.tmp", "a.tmp", true},
		{"StarCrossesDirs", "*.tmp", "dir/sub/a.tmp", true},
		{"StarNoMatch", "*.tmp", "a.tmpx", false},
		{"QuestionSingleChar", "file?.txt", "file1.txt", true},
		{"QuestionNotEmpty", "file?.txt", "file.txt", false},
		{"DotIsLiteral", "a.b", "axb", false},
		{"ParensAreLiteral", "(draft)*", "(draft) notes", true},
		{"PlusIsLiteral", "c++", "c++", true},
		{"Anchored", "log", "catalog", false},
		{"DirPrefix", "cache/*", "cache/x/y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, Compile(tt.glob).MatchString(tt.path))
		})
	}
}

func TestFilter_Builtins(t *testing.T) {
	f := New()

	assert.True(t, f.Matches(".bitbackupreport.csv"))
	assert.True(t, f.Matches("1700000000000..bitbackupreport.csv"))
	assert.True(t, f.Matches("old/.birreport.csv"))
	assert.True(t, f.Matches(".bibreport.csv"))
	assert.True(t, f.Matches(".bitbackupindex.csv"))
	assert.True(t, f.Matches(".bitbackup.sqlite3.sha512.1234567.tmp"))
	assert.False(t, f.Matches("report.csv"))
}

func TestFilter_AddSkipsBlankAndComments(t *testing.T) {
	f := New()
	before := f.Len()

	f.Add("")
	f.Add("   ")
	f.Add("# comment")
	f.Add("\r")

	assert.Equal(t, before, f.Len())
}

func TestFilter_LoadFile(t *testing.T) {
	dir := t.TempDir()
	ignore := filepath.Join(dir, ".bitbackupignore")
	content := "# scratch files\n*.tmp\r\n\nbuild/*\n"
	require.NoError(t, os.WriteFile(ignore, []byte(content), 0o644))

	t.Run("RootPrefix", func(t *testing.T) {
		f := New()
		require.NoError(t, f.LoadFile(ignore, ""))

		assert.True(t, f.Matches("x.tmp"))
		assert.True(t, f.Matches("build/out.bin"))
		assert.False(t, f.Matches("src/build/out.bin"))
		assert.Contains(t, f.Patterns(), "*.tmp")
	})

	t.Run("NestedPrefix", func(t *testing.T) {
		f := New()
		require.NoError(t, f.LoadFile(ignore, "sub/"))

		assert.True(t, f.Matches("sub/x.tmp"))
		assert.True(t, f.Matches("sub/build/a"))
		assert.False(t, f.Matches("x.tmp"))
		assert.False(t, f.Matches("other/x.tmp"))
		assert.False(t, f.Matches("subx.tmp"))
	})

	t.Run("PrefixWithWildcardCharacters", func(t *testing.T) {
		f := New()
		require.NoError(t, f.LoadFile(ignore, "x?/"))
		require.NoError(t, f.LoadFile(ignore, "s*/"))

		assert.True(t, f.Matches("x?/a.tmp"))
		assert.True(t, f.Matches("s*/deep/a.tmp"))
		assert.False(t, f.Matches("xy/a.tmp"))
		assert.False(t, f.Matches("sz/a.tmp"))
		assert.Contains(t, f.Patterns(), "x?/*.tmp")
	})

	t.Run("MissingFile", func(t *testing.T) {
		f := New()
		err := f.LoadFile(filepath.Join(dir, "absent"), "")
		assert.Error(t, err)
	})
}

func TestFilter_PatternsIsCopy(t *testing.T) {
	f := New()
	p := f.Patterns()
	p[0] = "mutated"

	assert.NotEqual(t, "mutated", f.Patterns()[0])
}
