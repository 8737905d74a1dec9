package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"bitbackup/core/pathfilter"

	"go.uber.org/zap"
)

// ErrScanFailed is returned when a directory under the root cannot be listed.
var ErrScanFailed = errors.New("scan failed")

// Entry is one visited directory or tracked file, in visit order.
type Entry struct {
	// Path is root-relative and slash-separated.
	Path string
	// IsDir marks directories.
	IsDir bool
}

// Result is the candidate set produced by one walk. It is never persisted.
type Result struct {
	// Paths holds the tracked file paths in visit order, without duplicates.
	Paths []string
	// Entries holds every visited directory and tracked file in visit order.
	Entries []Entry
	// FilesVisited counts non-directory entries seen, including skipped ones.
	FilesVisited int
	// DirsVisited counts directories seen below the root.
	DirsVisited int

	set map[string]struct{}
}

func newResult() *Result {
	return &Result{set: make(map[string]struct{})}
}

func (r *Result) add(p string) {
	if _, ok := r.set[p]; ok {
		return
	}
	r.set[p] = struct{}{}
	r.Paths = append(r.Paths, p)
	r.Entries = append(r.Entries, Entry{Path: p})
}

// Contains reports whether p was found.
func (r *Result) Contains(p string) bool {
	_, ok := r.set[p]
	return ok
}

// Len returns the number of tracked paths.
func (r *Result) Len() int {
	return len(r.Paths)
}

// Scanner walks a scan root and collects the files to track.
type Scanner struct {
	root       string
	ignoreName string
	filter     *pathfilter.Filter
	skip       map[string]struct{}
	logger     *zap.Logger
}

// New creates a scanner for root. Nested files named ignoreName add their rules to
// filter as they are encountered. Paths in skip are absolute and never tracked.
func New(root, ignoreName string, filter *pathfilter.Filter, skip []string, logger *zap.Logger) *Scanner {
	s := &Scanner{
		root:       filepath.Clean(root),
		ignoreName: ignoreName,
		filter:     filter,
		skip:       make(map[string]struct{}, len(skip)),
		logger:     logger,
	}
	for _, p := range skip {
		s.skip[filepath.Clean(p)] = struct{}{}
	}
	return s
}

// Scan walks the root depth-first. Entries of each directory are visited in lexical
// order, so a nested ignore file only affects entries sorted after it and the
// subdirectories below it.
func (s *Scanner) Scan() (*Result, error) {
	res := newResult()
	if err := s.walk(s.root, "", res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Scanner) walk(dir, rel string, res *Result) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: read directory %s: %w", ErrScanFailed, dir, err)
	}

	for _, entry := range entries {
		abs := filepath.Join(dir, entry.Name())
		relPath := entry.Name()
		if rel != "" {
			relPath = path.Join(rel, entry.Name())
		}

		if rel != "" && entry.Name() == s.ignoreName && !entry.IsDir() {
			if err := s.filter.LoadFile(abs, rel+"/"); err != nil {
				return fmt.Errorf("%w: %w", ErrScanFailed, err)
			}
			s.logger.Debug("Registered nested ignore file", zap.String("path", relPath))
		}

		mode, err := s.resolveMode(abs, entry)
		if err != nil {
			s.logger.Warn("Skipping unreadable entry", zap.String("path", relPath), zap.Error(err))
			res.FilesVisited++
			continue
		}

		if mode.IsDir() {
			res.DirsVisited++
			res.Entries = append(res.Entries, Entry{Path: relPath, IsDir: true})
			if err := s.walk(abs, relPath, res); err != nil {
				return err
			}
			continue
		}

		res.FilesVisited++
		if _, ok := s.skip[abs]; ok {
			continue
		}
		if !mode.IsRegular() {
			s.logger.Debug("Skipping non-regular file", zap.String("path", relPath), zap.String("mode", mode.String()))
			continue
		}
		if s.filter.Matches(relPath) {
			continue
		}
		res.add(relPath)
	}
	return nil
}

// resolveMode returns the type of entry. Links to regular files resolve to the
// target; links to directories are reported as links so the walk never follows them.
func (s *Scanner) resolveMode(abs string, entry fs.DirEntry) (fs.FileMode, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type(), nil
	}
	info, err := os.Stat(abs)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return fs.ModeSymlink, nil
	}
	return info.Mode(), nil
}
