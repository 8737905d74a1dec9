package cmd

import (
	"fmt"

	"bitbackup/feature/schedule"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// workerCmd consumes queued checks.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run queued checks",
	Long: `Consumes check tasks from Redis one at a time. Each task runs the same check as the
check command, using the check configuration with the directory taken from the task.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		svc, err := newCheckService(cmd.Context(), cfg, logg)
		if err != nil {
			return err
		}

		handler := schedule.NewHandler(svc, cfg.Check, logg)
		srv, mux := schedule.NewWorker(cfg.Schedule, handler, logg)

		logg.Info("Worker started",
			zap.String("redis", cfg.Schedule.RedisAddr),
			zap.String("queue", cfg.Schedule.Queue),
		)
		// Run blocks until SIGTERM or SIGINT
		if err := srv.Run(mux); err != nil {
			return fmt.Errorf("worker stopped: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(workerCmd)
}
