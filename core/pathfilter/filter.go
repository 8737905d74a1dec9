package pathfilter

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// BuiltinPatterns are always excluded: current and legacy report files, their rotated
// copies, the filesystem index and digest temp files left by an interrupted refresh.
var BuiltinPatterns = []string{
	"*.bitbackupreport.csv",
	"*.bibreport.csv",
	"*.birreport.csv",
	"*.bitbackupindex.csv",
	"*.bitbackup.sqlite3.sha512.*.tmp",
}

// Filter is an ordered set of wildcard ignore patterns.
// A path is excluded when any pattern matches it; there is no negation.
type Filter struct {
	patterns []string
	compiled []*regexp.Regexp
}

// New creates a Filter seeded with BuiltinPatterns.
func New() *Filter {
	f := &Filter{}
	for _, p := range BuiltinPatterns {
		f.Add(p)
	}
	return f
}

// Add appends a glob pattern. Blank patterns and comments are ignored.
func (f *Filter) Add(pattern string) {
	f.addScoped("", pattern)
}

// addScoped appends pattern below the literal directory prefix. Wildcard characters
// in prefix match only themselves.
func (f *Filter) addScoped(prefix, pattern string) {
	pattern = strings.TrimRight(pattern, "\r")
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}
	f.patterns = append(f.patterns, prefix+pattern)
	f.compiled = append(f.compiled, regexp.MustCompile("^"+regexp.QuoteMeta(prefix)+globToRegex(pattern)+"$"))
}

// LoadFile reads one glob per line from path and adds each below prefix, which is
// matched literally.
// The root ignore file uses an empty prefix; a nested one found in directory "a/b"
// uses "a/b/" so its rules only reach that subtree.
func (f *Filter) LoadFile(path, prefix string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open ignore file %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		f.addScoped(prefix, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}
	return nil
}

// Matches reports whether the root-relative, slash-separated path is excluded.
func (f *Filter) Matches(path string) bool {
	for _, re := range f.compiled {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Patterns returns the registered patterns in insertion order.
func (f *Filter) Patterns() []string {
	out := make([]string, len(f.patterns))
	copy(out, f.patterns)
	return out
}

// Len returns the number of registered patterns.
func (f *Filter) Len() int {
	return len(f.patterns)
}

// Compile turns a glob into an anchored regular expression.
// '*' matches any run of characters (including '/'), '?' exactly one, and every
// other character is literal.
func Compile(glob string) *regexp.Regexp {
	return regexp.MustCompile("^" + globToRegex(glob) + "$")
}

func globToRegex(glob string) string {
	quoted := regexp.QuoteMeta(glob)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")
	return strings.ReplaceAll(quoted, `\?`, ".")
}
