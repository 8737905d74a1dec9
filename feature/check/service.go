package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"bitbackup/core/bitfiles"
	"bitbackup/core/database"
	"bitbackup/core/fsindex"
	"bitbackup/core/hasher"
	"bitbackup/core/integrity"
	"bitbackup/core/inventory"
	"bitbackup/core/legacy"
	"bitbackup/core/metrics"
	"bitbackup/core/pathfilter"
	"bitbackup/core/reconcile"
	"bitbackup/core/report"
	"bitbackup/core/scanner"
	"bitbackup/core/storage"

	"go.uber.org/zap"
)

// ErrBitRotDetected is returned by Run when at least one corrupted file was found.
// The returned Outcome is complete in that case.
var ErrBitRotDetected = errors.New("bit rot detected")

// Outcome describes one finished check run.
type Outcome struct {
	Layout    *bitfiles.Layout
	Integrity integrity.Status
	Version   string
	// FilesVisited and DirsVisited are the scan counters.
	FilesVisited int
	DirsVisited  int
	Result       *reconcile.Result
	// ReportPath is set when a report was written.
	ReportPath string
	// IndexPath is set when the filesystem index was written.
	IndexPath string
	// Archived lists the uploaded object names.
	Archived []string
	Duration time.Duration
}

// Summary returns the reconciliation counts, or zero counts when the run did not reconcile.
func (o *Outcome) Summary() reconcile.Summary {
	if o.Result == nil {
		return reconcile.Summary{}
	}
	return o.Result.Summary()
}

// Service runs the check pipeline against one scan root at a time.
type Service struct {
	database database.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	pushURL  string
	archiver *storage.Archiver
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records every run on m and pushes to pushURL when it is set.
func WithMetrics(m *metrics.Metrics, pushURL string) Option {
	return func(s *Service) {
		s.metrics = m
		s.pushURL = pushURL
	}
}

// WithArchiver enables uploads for runs with Archive set.
func WithArchiver(a *storage.Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithClock replaces time.Now as the source of the run time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a check service. db supplies connection tuning; its Path is
// replaced by the store of each scan root.
func NewService(db database.Config, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		database: db,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one check of cfg.Dir.
//
// The inventory digest is verified before the store is opened. Once the store has
// been opened, the digest is refreshed after it is closed even if a later stage
// fails, so the next run does not mistake committed writes for corruption.
func (s *Service) Run(ctx context.Context, cfg Config) (*Outcome, error) {
	start := s.now()

	layout, err := bitfiles.NewLayout(cfg.Dir)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("root", layout.Root))
	log.Info("Check started",
		zap.Bool("report", cfg.Report),
		zap.Bool("index", cfg.WriteIndex),
		zap.Bool("archive", cfg.Archive),
	)

	if cfg.Archive && s.archiver == nil {
		return nil, errors.New("archive requested but no object storage is configured")
	}

	if cfg.MigrateLegacy {
		if _, err := legacy.NewMigrator(layout, log).Run(); err != nil {
			return nil, err
		}
	}

	guard := integrity.NewGuard(layout.Store, layout.Digest, log)
	status, err := guard.Verify()
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Layout: layout, Integrity: status}

	runErr := s.withStore(layout, cfg.EffectiveBatchSize(), log, func(db *dbHandle) error {
		return s.execute(ctx, cfg, layout, db, outcome, log)
	})
	if _, err := guard.Refresh(); err != nil {
		if runErr == nil {
			return outcome, err
		}
		log.Error("Failed to refresh inventory digest", zap.Error(err))
	}
	if runErr != nil {
		return outcome, runErr
	}

	if cfg.Archive {
		files := []string{layout.Store, layout.Digest}
		if outcome.ReportPath != "" {
			files = append(files, outcome.ReportPath)
		}
		names, err := s.archiver.Upload(ctx, files...)
		if err != nil {
			return outcome, err
		}
		outcome.Archived = names
	}

	end := s.now()
	outcome.Duration = end.Sub(start)
	s.record(ctx, outcome, end, log)

	summary := outcome.Summary()
	log.Info("Check finished",
		zap.Int("added", summary.Added),
		zap.Int("removed", summary.Removed),
		zap.Int("bit_rot", summary.BitRot),
		zap.Int("modified", summary.Modified),
		zap.Int("unchanged", summary.Unchanged),
		zap.Duration("duration", outcome.Duration),
	)

	if outcome.Result.HasBitRot() {
		return outcome, fmt.Errorf("%w: %d file(s) under %s", ErrBitRotDetected, summary.BitRot, layout.Root)
	}
	return outcome, nil
}

// dbHandle bundles the repositories of one open store.
type dbHandle struct {
	files  *inventory.FileRepository
	items  *inventory.SystemItemRepository
	schema *inventory.Migrator
}

// withStore opens the store of layout, runs fn and always closes the connection.
func (s *Service) withStore(layout *bitfiles.Layout, batchSize int, log *zap.Logger, fn func(*dbHandle) error) error {
	cfg := s.database
	cfg.Path = layout.Store
	cfg.ReadOnly = false

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to open inventory: %w", err)
	}

	handle := &dbHandle{
		files:  inventory.NewFileRepository(db, batchSize),
		items:  inventory.NewSystemItemRepository(db),
		schema: inventory.NewMigrator(db, log, bitfiles.ProductName),
	}
	runErr := fn(handle)

	if err := database.Close(db); err != nil {
		if runErr == nil {
			return fmt.Errorf("failed to close inventory: %w", err)
		}
		log.Error("Failed to close inventory", zap.Error(err))
	}
	return runErr
}

func (s *Service) execute(ctx context.Context, cfg Config, layout *bitfiles.Layout, db *dbHandle, outcome *Outcome, log *zap.Logger) error {
	if err := db.schema.Migrate(ctx); err != nil {
		return err
	}

	version, err := db.items.Ensure(ctx, bitfiles.VersionKey, bitfiles.DefaultVersion)
	if err != nil {
		return err
	}
	outcome.Version = version
	log.Info("Inventory version", zap.String("version", version))

	filter := pathfilter.New()
	if _, err := os.Stat(layout.Ignore); err == nil {
		if err := filter.LoadFile(layout.Ignore, ""); err != nil {
			return err
		}
	}

	skip := append([]string{layout.Store, layout.Digest}, layout.StoreCompanions()...)
	scan, err := scanner.New(layout.Root, bitfiles.IgnoreName, filter, skip, log).Scan()
	if err != nil {
		return err
	}
	outcome.FilesVisited = scan.FilesVisited
	outcome.DirsVisited = scan.DirsVisited
	log.Info("Scanned files",
		zap.Int("tracked", scan.Len()),
		zap.Int("files_visited", scan.FilesVisited),
		zap.Int("dirs_visited", scan.DirsVisited),
	)

	rec := reconcile.New(layout.Root, db.files, hasher.New(), log, reconcile.WithClock(s.now))
	result, err := rec.Run(ctx, scan.Paths, scan)
	if err != nil {
		return err
	}
	outcome.Result = result

	if cfg.WriteIndex {
		records, err := fsindex.New(layout.Root, log).Build(scan.Entries)
		if err != nil {
			return err
		}
		if err := fsindex.Write(layout.Index, records); err != nil {
			return err
		}
		outcome.IndexPath = layout.Index
		log.Info("Wrote filesystem index", zap.String("path", layout.Index), zap.Int("entries", len(records)))
	}

	if cfg.Report {
		w := report.NewWriter(layout.Report, log).WithClock(s.now)
		if err := w.Write(report.RowsFromBitRot(layout.Root, result.BitRot)); err != nil {
			return err
		}
		outcome.ReportPath = layout.Report
	}
	return nil
}

func (s *Service) record(ctx context.Context, outcome *Outcome, end time.Time, log *zap.Logger) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveRun(outcome.Summary(), outcome.Duration, end)
	if s.pushURL == "" {
		return
	}
	if err := s.metrics.Push(ctx, s.pushURL, outcome.Layout.Root); err != nil {
		log.Warn("Failed to push metrics", zap.String("url", s.pushURL), zap.Error(err))
	}
}
