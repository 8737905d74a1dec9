package reconcile

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"bitbackup/core/hasher"
	"bitbackup/core/inventory"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressInterval is how many records a stage processes between progress log lines.
const ProgressInterval = 100

// Reconciler diffs one scan against the inventory and writes the differences back.
type Reconciler struct {
	root   string
	repo   Repository
	hasher Hasher
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock replaces time.Now as the source of the run time.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(newID func() string) Option {
	return func(r *Reconciler) { r.newID = newID }
}

// New creates a reconciler for the scan root.
func New(root string, repo Repository, h Hasher, logger *zap.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		root:   root,
		repo:   repo,
		hasher: h,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs a full pass: add new files, remove deleted ones, classify the rest.
// paths are the scanned files in visit order and found answers membership for them.
func (r *Reconciler) Run(ctx context.Context, paths []string, found PathSet) (*Result, error) {
	runTime := FormatTime(r.now())

	existing, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	r.logger.Info("Loaded inventory", zap.Int("records", len(existing)), zap.Int("scanned", len(paths)))

	added, err := r.AddNew(ctx, paths, existing, runTime)
	if err != nil {
		return nil, err
	}

	removed, remaining, err := r.RemoveDeleted(ctx, found, existing)
	if err != nil {
		return nil, err
	}

	classification, err := r.Classify(ctx, remaining, runTime)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunTime:        runTime,
		Added:          added,
		Removed:        removed,
		Classification: *classification,
	}, nil
}

// AddNew creates records for scanned paths that have none and inserts them in batches.
func (r *Reconciler) AddNew(ctx context.Context, paths []string, existing []inventory.TrackedFile, runTime string) ([]inventory.TrackedFile, error) {
	known := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		known[f.Path] = struct{}{}
	}

	var missing []string
	for _, p := range paths {
		if _, ok := known[p]; !ok {
			missing = append(missing, p)
		}
	}

	added := make([]inventory.TrackedFile, 0, len(missing))
	for i, p := range missing {
		obs, err := r.observe(p)
		if err != nil {
			return nil, err
		}
		added = append(added, inventory.TrackedFile{
			ID:                   r.newID(),
			Name:                 path.Base(p),
			Path:                 p,
			LastModificationDate: obs.mtime,
			LastCheckDate:        runTime,
			HashValue:            obs.hash,
			HashAlgorithm:        r.hasher.Algorithm(),
			Size:                 obs.size,
			LastCheckResult:      inventory.ResultOK,
		})
		r.progress("add", i+1, len(missing))
	}

	if len(added) > 0 {
		if err := r.repo.Create(ctx, added); err != nil {
			return nil, err
		}
	}
	r.logger.Info("Added new files", zap.Int("count", len(added)))
	return added, nil
}

// RemoveDeleted deletes records whose path was not found and returns them together
// with the records that survive.
func (r *Reconciler) RemoveDeleted(ctx context.Context, found PathSet, existing []inventory.TrackedFile) (removed, remaining []inventory.TrackedFile, err error) {
	for _, f := range existing {
		if found.Contains(f.Path) {
			remaining = append(remaining, f)
		} else {
			removed = append(removed, f)
		}
	}

	if len(removed) > 0 {
		if err := r.repo.Remove(ctx, removed); err != nil {
			return nil, nil, err
		}
	}
	r.logger.Info("Removed deleted files", zap.Int("count", len(removed)))
	return removed, remaining, nil
}

// Classify re-hashes every record and sorts it into bit rot, legitimate
// modification or unchanged, persisting each outcome.
func (r *Reconciler) Classify(ctx context.Context, files []inventory.TrackedFile, runTime string) (*Classification, error) {
	c := &Classification{}

	for i, f := range files {
		obs, err := r.observe(f.Path)
		if err != nil {
			return nil, err
		}

		switch {
		case obs.mtime == f.LastModificationDate && obs.hash != f.HashValue:
			f.LastCheckDate = runTime
			f.LastCheckResult = inventory.ResultKO
			if err := r.repo.Update(ctx, f); err != nil {
				return nil, err
			}
			c.BitRot = append(c.BitRot, BitRot{File: f, Calculated: obs.hash})
			r.logger.Warn("Bit rot detected",
				zap.String("path", f.Path),
				zap.String("expected", f.HashValue),
				zap.String("calculated", obs.hash),
			)

		case obs.mtime != f.LastModificationDate:
			f.LastModificationDate = obs.mtime
			f.HashValue = obs.hash
			f.HashAlgorithm = r.hasher.Algorithm()
			f.Size = obs.size
			f.LastCheckDate = runTime
			f.LastCheckResult = inventory.ResultOK
			if err := r.repo.Update(ctx, f); err != nil {
				return nil, err
			}
			c.Modified = append(c.Modified, f)

		case f.Size == 0:
			f.Size = obs.size
			f.LastCheckDate = runTime
			f.LastCheckResult = inventory.ResultOK
			if err := r.repo.Update(ctx, f); err != nil {
				return nil, err
			}
			c.Backfilled = append(c.Backfilled, f)

		default:
			f.LastCheckDate = runTime
			f.LastCheckResult = inventory.ResultOK
			c.Unchanged = append(c.Unchanged, f)
		}

		r.progress("check", i+1, len(files))
	}

	if len(c.Unchanged) > 0 {
		if err := r.repo.UpdateLastCheckDate(ctx, runTime, c.Unchanged); err != nil {
			return nil, err
		}
	}

	r.logger.Info("Checked files",
		zap.Int("bit_rot", len(c.BitRot)),
		zap.Int("modified", len(c.Modified)),
		zap.Int("unchanged", len(c.Unchanged)),
		zap.Int("backfilled", len(c.Backfilled)),
	)
	return c, nil
}

type observation struct {
	mtime string
	hash  string
	size  int64
}

// observe reads the current state of the file at the root-relative path p.
func (r *Reconciler) observe(p string) (observation, error) {
	abs := filepath.Join(r.root, filepath.FromSlash(p))
	info, err := os.Stat(abs)
	if err != nil {
		return observation{}, fmt.Errorf("%w: %s: %w", hasher.ErrHashComputationFailed, abs, err)
	}
	sum, err := r.hasher.HashFile(abs)
	if err != nil {
		return observation{}, err
	}
	return observation{
		mtime: FormatTime(info.ModTime()),
		hash:  sum,
		size:  info.Size(),
	}, nil
}

func (r *Reconciler) progress(stage string, done, total int) {
	if done%ProgressInterval != 0 {
		return
	}
	r.logger.Info("Progress",
		zap.String("stage", stage),
		zap.Int("done", done),
		zap.Int("total", total),
		zap.Float64("percent", float64(done)/float64(total)*100),
	)
}
