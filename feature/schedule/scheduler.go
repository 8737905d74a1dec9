package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Registrar accepts periodic tasks. *asynq.Scheduler implements it.
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// Enqueuer accepts one-off tasks. *asynq.Client implements it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RegisterChecks registers one periodic check per configured directory and returns
// the scheduler entry ids.
func RegisterChecks(r Registrar, cfg Config, logger *zap.Logger) ([]string, error) {
	dirs := cfg.DirList()
	if len(dirs) == 0 {
		return nil, errors.New("no directories configured for scheduled checks")
	}

	ids := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		task, err := NewCheckTask(dir, cfg)
		if err != nil {
			return nil, err
		}
		id, err := r.Register(cfg.Cron, task)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", dir, err)
		}
		ids = append(ids, id)
		logger.Info("Scheduled check", zap.String("dir", dir), zap.String("cron", cfg.Cron), zap.String("entry", id))
	}
	return ids, nil
}

// EnqueueCheck queues an immediate check of dir. A check already pending for the
// same directory makes this a no-op.
func EnqueueCheck(ctx context.Context, e Enqueuer, cfg Config, dir string, logger *zap.Logger) error {
	task, err := NewCheckTask(dir, cfg)
	if err != nil {
		return err
	}
	info, err := e.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Info("Check already pending", zap.String("dir", dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue check of %s: %w", dir, err)
	}
	logger.Info("Enqueued check", zap.String("dir", dir), zap.String("task", info.ID), zap.String("queue", info.Queue))
	return nil
}

// NewScheduler creates an asynq scheduler bound to the configured Redis.
func NewScheduler(cfg Config, logger *zap.Logger) *asynq.Scheduler {
	return asynq.NewScheduler(cfg.RedisOpt(), &asynq.SchedulerOpts{
		Logger: logger.Sugar(),
	})
}

// NewClient creates an asynq client bound to the configured Redis.
func NewClient(cfg Config) *asynq.Client {
	return asynq.NewClient(cfg.RedisOpt())
}

// NewWorker creates a server consuming check tasks one at a time, together with
// the mux routing them to h.
func NewWorker(cfg Config, h *Handler, logger *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(cfg.RedisOpt(), asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{cfg.Queue: 1},
		Logger:      logger.Sugar(),
	})
	mux := asynq.NewServeMux()
	mux.Handle(TypeCheckRun, h)
	return srv, mux
}
