package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bitbackup/core/reconcile"

	"go.uber.org/zap"
)

// ErrReportFailed is returned when the report cannot be rotated or written.
var ErrReportFailed = errors.New("report failed")

// Delimiter separates the report columns.
const Delimiter = ';'

// Header is the first line of every report.
var Header = []string{"file", "expected", "calculated"}

// Row is one corrupted file.
type Row struct {
	File       string
	Expected   string
	Calculated string
}

// RowsFromBitRot converts reconciler findings into report rows with absolute paths under root.
func RowsFromBitRot(root string, items []reconcile.BitRot) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, Row{
			File:       filepath.Join(root, filepath.FromSlash(item.File.Path)),
			Expected:   item.File.HashValue,
			Calculated: item.Calculated,
		})
	}
	return rows
}

// Writer emits the report file at a fixed path.
type Writer struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// NewWriter creates a writer for the report at path.
func NewWriter(path string, logger *zap.Logger) *Writer {
	return &Writer{path: path, logger: logger, now: time.Now}
}

// WithClock replaces time.Now as the source of the rotation stamp.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Path returns the report location.
func (w *Writer) Path() string {
	return w.path
}

// Rotate renames an existing report to <unix-millis>.<name> in the same directory.
// It returns the new name, or an empty string when there was nothing to rotate.
func (w *Writer) Rotate() (string, error) {
	if _, err := os.Stat(w.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: stat %s: %w", ErrReportFailed, w.path, err)
	}

	stamp := strconv.FormatInt(w.now().UnixMilli(), 10)
	target := filepath.Join(filepath.Dir(w.path), stamp+"."+filepath.Base(w.path))
	if err := os.Rename(w.path, target); err != nil {
		return "", fmt.Errorf("%w: rotate %s: %w", ErrReportFailed, w.path, err)
	}
	w.logger.Info("Rotated previous report", zap.String("to", target))
	return target, nil
}

// Write rotates any previous report and writes rows. The header is always written.
func (w *Writer) Write(rows []Row) error {
	if _, err := w.Rotate(); err != nil {
		return err
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrReportFailed, w.path, err)
	}

	if err := Encode(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrReportFailed, w.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrReportFailed, w.path, err)
	}

	w.logger.Info("Wrote report", zap.String("path", w.path), zap.Int("rows", len(rows)))
	return nil
}

// Encode writes the header and rows to out.
func Encode(out io.Writer, rows []Row) error {
	cw := csv.NewWriter(out)
	cw.Comma = Delimiter
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.File, r.Expected, r.Calculated}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses a report file back into rows.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrReportFailed, path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = len(Header)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrReportFailed, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header", ErrReportFailed, path)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row{File: rec[0], Expected: rec[1], Calculated: rec[2]})
	}
	return rows, nil
}
