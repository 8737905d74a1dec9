package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbackup/core/bitfiles"
	"bitbackup/core/integrity"
	inv "bitbackup/core/inventory"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidResult is returned when a result filter is neither OK nor KO.
var ErrInvalidResult = errors.New("invalid check result")

// Summary is the aggregate view of one inventory.
type Summary struct {
	Root          string `json:"root"`
	Version       string `json:"version"`
	Total         int64  `json:"total"`
	OK            int64  `json:"ok"`
	KO            int64  `json:"ko"`
	LastCheckDate string `json:"last_check_date"`
}

// Statuses reported when verification fails.
const (
	StatusCorrupted integrity.Status = "corrupted"
	StatusError     integrity.Status = "error"
)

// IntegrityReport is the outcome of verifying the store digest.
type IntegrityReport struct {
	Status integrity.Status `json:"status"`
	Error  string           `json:"error,omitempty"`
}

// Service answers read-only queries over an inventory.
type Service struct {
	layout *bitfiles.Layout
	files  *inv.FileRepository
	items  *inv.SystemItemRepository
	guard  *integrity.Guard
	cache  *summaryCache
	logger *zap.Logger
}

// NewService creates an inventory service over db, which should be opened read-only.
func NewService(layout *bitfiles.Layout, db *gorm.DB, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		layout: layout,
		files:  inv.NewFileRepository(db, inv.DefaultBatchSize),
		items:  inv.NewSystemItemRepository(db),
		guard:  integrity.NewGuard(layout.Store, layout.Digest, logger),
		cache:  newSummaryCache(cacheTTL),
		logger: logger,
	}
}

// Summary returns the cached aggregate view, rebuilding it when stale.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.cache.get(ctx, s.buildSummary)
}

func (s *Service) buildSummary(ctx context.Context) (*Summary, error) {
	counts, err := s.files.CountByResult(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.files.LatestCheckDate(ctx)
	if err != nil {
		return nil, err
	}

	version := ""
	item, err := s.items.Read(ctx, bitfiles.VersionKey)
	switch {
	case err == nil:
		version = item.Value
	case !errors.Is(err, inv.ErrNotFound):
		return nil, err
	}

	sum := &Summary{
		Root:          s.layout.Root,
		Version:       version,
		OK:            counts[inv.ResultOK],
		KO:            counts[inv.ResultKO],
		LastCheckDate: latest,
	}
	for _, n := range counts {
		sum.Total += n
	}
	s.logger.Debug("Built inventory summary", zap.Int64("total", sum.Total))
	return sum, nil
}

// Files lists records, optionally only those with the given last check result.
func (s *Service) Files(ctx context.Context, result string) ([]inv.TrackedFile, error) {
	if result == "" {
		return s.files.List(ctx)
	}
	r := inv.CheckResult(result)
	if r != inv.ResultOK && r != inv.ResultKO {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResult, result)
	}
	return s.files.ListByResult(ctx, r)
}

// File returns the record of one root-relative path.
func (s *Service) File(ctx context.Context, path string) (*inv.TrackedFile, error) {
	return s.files.FindByPath(ctx, path)
}

// Integrity verifies the store against its digest companion.
func (s *Service) Integrity() *IntegrityReport {
	status, err := s.guard.Verify()
	if errors.Is(err, integrity.ErrBackingStoreCorrupted) {
		return &IntegrityReport{Status: StatusCorrupted, Error: err.Error()}
	}
	if err != nil {
		return &IntegrityReport{Status: StatusError, Error: err.Error()}
	}
	return &IntegrityReport{Status: status}
}
