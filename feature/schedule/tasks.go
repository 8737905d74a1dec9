package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"bitbackup/core/integrity"
	"bitbackup/feature/check"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeCheckRun is the task type of one queued check.
const TypeCheckRun = "check:run"

// Payload identifies the scan root of a queued check.
type Payload struct {
	Dir string `json:"dir"`
}

// NewCheckTask builds the task for dir, resolved to an absolute path so that two
// spellings of one directory share a uniqueness key.
func NewCheckTask(dir string, cfg Config) (*asynq.Task, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
	}
	payload, err := json.Marshal(Payload{Dir: abs})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCheckRun, payload, TaskOptions(cfg)...), nil
}

// TaskOptions returns the queue options shared by scheduled and ad-hoc checks.
func TaskOptions(cfg Config) []asynq.Option {
	return []asynq.Option{
		asynq.Queue(cfg.Queue),
		asynq.MaxRetry(cfg.MaxRetry),
		asynq.Unique(cfg.UniqueTTL()),
		asynq.Timeout(cfg.Timeout()),
	}
}

// Checker runs one check.
type Checker interface {
	Run(ctx context.Context, cfg check.Config) (*check.Outcome, error)
}

// Handler processes check tasks.
type Handler struct {
	checker Checker
	base    check.Config
	logger  *zap.Logger
}

// NewHandler creates a task handler. Every task runs with base, with Dir replaced
// by the task payload.
func NewHandler(checker Checker, base check.Config, logger *zap.Logger) *Handler {
	return &Handler{checker: checker, base: base, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.Dir == "" {
		return fmt.Errorf("payload without directory: %w", asynq.SkipRetry)
	}

	cfg := h.base
	cfg.Dir = p.Dir
	log := h.logger.With(zap.String("dir", p.Dir))
	log.Info("Running scheduled check")

	// A started check is never cancelled; the queue timeout only marks the task failed.
	outcome, err := h.checker.Run(context.WithoutCancel(ctx), cfg)
	if err != nil {
		// Neither outcome changes by running the check again.
		if errors.Is(err, check.ErrBitRotDetected) || errors.Is(err, integrity.ErrBackingStoreCorrupted) {
			log.Error("Scheduled check found corruption", zap.Error(err))
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		log.Error("Scheduled check failed", zap.Error(err))
		return err
	}

	s := outcome.Summary()
	log.Info("Scheduled check finished",
		zap.Int("added", s.Added),
		zap.Int("removed", s.Removed),
		zap.Int("modified", s.Modified),
		zap.Int("unchanged", s.Unchanged),
	)
	return nil
}
