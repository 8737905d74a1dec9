package fsindex

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"bitbackup/core/hasher"
	"bitbackup/core/scanner"

	"go.uber.org/zap"
)

// ErrIndexFailed is returned when an entry cannot be inspected or the index cannot be written.
var ErrIndexFailed = errors.New("filesystem index failed")

// Type is the single-character entry kind written to the index.
type Type string

const (
	TypeDir     Type = "d"
	TypeRegular Type = "-"
	TypeLink    Type = "l"
	TypeOther   Type = "z"
)

// Record is one line of the index.
type Record struct {
	Parent        string
	Name          string
	Type          Type
	LinkTarget    string
	UID           int
	GID           int
	Owner         string
	Group         string
	Permissions   string
	ModTimeMillis int64
	Size          int64
	HashAlgorithm string
	HashValue     string
	// Attrs holds extended attributes by name; nil when there are none.
	Attrs map[string]string
}

// Line renders r as a tab-separated index line without the trailing newline.
func (r Record) Line() string {
	fields := []string{
		r.Parent,
		r.Name,
		string(r.Type),
		r.LinkTarget,
		strconv.Itoa(r.UID),
		strconv.Itoa(r.GID),
		r.Owner,
		r.Group,
		r.Permissions,
		strconv.FormatInt(r.ModTimeMillis, 10),
		strconv.FormatInt(r.Size, 10),
		r.HashAlgorithm,
		r.HashValue,
		EncodeAttrs(r.Attrs),
	}
	return strings.Join(fields, "\t")
}

// EncodeAttrs renders attrs as sorted key=value lines, base64 encoded. Empty input yields "".
func EncodeAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(attrs[k])
		sb.WriteByte('\n')
	}
	return base64.StdEncoding.EncodeToString([]byte(sb.String()))
}

// PermissionString renders the permission bits of mode as nine rwx characters,
// with s/S and t/T marking setuid, setgid and sticky.
func PermissionString(mode fs.FileMode) string {
	perm := []byte("---------")
	const rwx = "rwx"
	for i := 0; i < 9; i++ {
		if mode&(1<<uint(8-i)) != 0 {
			perm[i] = rwx[i%3]
		}
	}
	special := func(set bool, idx int, lower, upper byte) {
		if !set {
			return
		}
		if perm[idx] == 'x' {
			perm[idx] = lower
		} else {
			perm[idx] = upper
		}
	}
	special(mode&fs.ModeSetuid != 0, 2, 's', 'S')
	special(mode&fs.ModeSetgid != 0, 5, 's', 'S')
	special(mode&fs.ModeSticky != 0, 8, 't', 'T')
	return string(perm)
}

// Indexer inspects scan entries under one root.
type Indexer struct {
	root   string
	hasher *hasher.Hasher
	owners *ownerCache
	logger *zap.Logger
}

// New creates an indexer for root.
func New(root string, logger *zap.Logger) *Indexer {
	return &Indexer{
		root:   root,
		hasher: hasher.NewSHA256(),
		owners: newOwnerCache(),
		logger: logger,
	}
}

// Build inspects every entry in order.
func (ix *Indexer) Build(entries []scanner.Entry) ([]Record, error) {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		rec, err := ix.inspect(e)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (ix *Indexer) inspect(e scanner.Entry) (Record, error) {
	abs := filepath.Join(ix.root, filepath.FromSlash(e.Path))
	info, err := os.Lstat(abs)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrIndexFailed, abs, err)
	}

	rec := Record{
		Parent:        filepath.Dir(abs),
		Name:          strings.ReplaceAll(info.Name(), "\t", " "),
		Type:          typeOf(info.Mode()),
		Permissions:   PermissionString(info.Mode()),
		ModTimeMillis: info.ModTime().UnixMilli(),
		Size:          info.Size(),
		HashAlgorithm: hasher.SHA256,
	}

	own, err := lookupOwnership(abs)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrIndexFailed, abs, err)
	}
	rec.UID, rec.GID = own.uid, own.gid
	rec.Owner, rec.Group = ix.owners.user(own.uid), ix.owners.group(own.gid)

	if rec.Type == TypeLink {
		if rec.LinkTarget, err = os.Readlink(abs); err != nil {
			return Record{}, fmt.Errorf("%w: %s: %w", ErrIndexFailed, abs, err)
		}
	}

	if !e.IsDir {
		if rec.HashValue, err = ix.hasher.HashFile(abs); err != nil {
			return Record{}, fmt.Errorf("%w: %w", ErrIndexFailed, err)
		}
	}

	attrs, err := readAttrs(abs)
	if err != nil {
		ix.logger.Debug("Extended attributes unavailable", zap.String("path", abs), zap.Error(err))
	}
	rec.Attrs = attrs
	return rec, nil
}

func typeOf(mode fs.FileMode) Type {
	switch {
	case mode.IsDir():
		return TypeDir
	case mode.IsRegular():
		return TypeRegular
	case mode&fs.ModeSymlink != 0:
		return TypeLink
	default:
		return TypeOther
	}
}

// Write replaces the index file at path with records.
func Write(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIndexFailed, path, err)
	}

	bw := bufio.NewWriter(f)
	for _, r := range records {
		bw.WriteString(r.Line())
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrIndexFailed, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIndexFailed, path, err)
	}
	return nil
}
