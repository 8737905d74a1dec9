package reconcile

import (
	"context"
	"time"

	"bitbackup/core/inventory"
)

// TimeLayout is the normalized timestamp form stored in the inventory.
// Modification times are compared as strings in this form.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout, in UTC with millisecond precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Repository is the inventory storage the reconciler reads from and writes through.
type Repository interface {
	// Create inserts new records.
	Create(ctx context.Context, files []inventory.TrackedFile) error
	// List returns the full inventory snapshot.
	List(ctx context.Context) ([]inventory.TrackedFile, error)
	// Update rewrites a single record.
	Update(ctx context.Context, file inventory.TrackedFile) error
	// UpdateLastCheckDate stamps date on files and marks them OK.
	UpdateLastCheckDate(ctx context.Context, date string, files []inventory.TrackedFile) error
	// Remove deletes records.
	Remove(ctx context.Context, files []inventory.TrackedFile) error
}

// Hasher computes content digests.
type Hasher interface {
	HashFile(path string) (string, error)
	Algorithm() string
}

// PathSet answers membership for the paths found on disk.
type PathSet interface {
	Contains(path string) bool
}

// BitRot is a file whose content changed while its modification time did not.
type BitRot struct {
	// File is the record as persisted, still carrying the stored hash.
	File inventory.TrackedFile `json:"file"`

	// Calculated is the digest computed during this run.
	Calculated string `json:"calculated"`
}

// Classification is the outcome of the classify stage.
type Classification struct {
	// BitRot contains corrupted files. It is the primary result of a run.
	BitRot []BitRot `json:"bit_rot"`

	// Modified contains files whose mtime changed; their records were rewritten.
	Modified []inventory.TrackedFile `json:"modified"`

	// Unchanged contains files stamped through the bulk check-date update.
	Unchanged []inventory.TrackedFile `json:"unchanged"`

	// Backfilled contains unchanged files whose missing size was filled in.
	Backfilled []inventory.TrackedFile `json:"backfilled"`
}

// Result is the structured outcome of a full reconciliation pass.
type Result struct {
	// RunTime is the normalized time captured once at the start of the pass.
	RunTime string `json:"run_time"`

	// Added contains records created for new files.
	Added []inventory.TrackedFile `json:"added"`

	// Removed contains records deleted because their file is gone.
	Removed []inventory.TrackedFile `json:"removed"`

	Classification
}

// HasBitRot reports whether any corrupted file was found.
func (r *Result) HasBitRot() bool {
	return len(r.BitRot) > 0
}

// Summary provides aggregate counts for a Result.
type Summary struct {
	Added      int `json:"added"`
	Removed    int `json:"removed"`
	BitRot     int `json:"bit_rot"`
	Modified   int `json:"modified"`
	Unchanged  int `json:"unchanged"`
	Backfilled int `json:"backfilled"`
	// Checked is the number of surviving records that were classified.
	Checked int `json:"checked"`
}

// Summary returns the aggregate counts of r.
func (r *Result) Summary() Summary {
	s := Summary{
		Added:      len(r.Added),
		Removed:    len(r.Removed),
		BitRot:     len(r.BitRot),
		Modified:   len(r.Modified),
		Unchanged:  len(r.Unchanged),
		Backfilled: len(r.Backfilled),
	}
	s.Checked = s.BitRot + s.Modified + s.Unchanged + s.Backfilled
	return s
}
