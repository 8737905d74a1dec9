package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bitbackup/feature/schedule"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var enqueueNowFlag bool

// scheduleCmd registers periodic checks and runs the scheduler.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the check scheduler",
	Long: `Registers one periodic check per directory in SCHEDULE_DIRS on the SCHEDULE_CRON
schedule and enqueues them on Redis until interrupted. Checks are executed by the worker
command.

With --now every configured directory is enqueued once and the command exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		if enqueueNowFlag {
			client := schedule.NewClient(cfg.Schedule)
			defer client.Close()

			dirs := cfg.Schedule.DirList()
			if len(dirs) == 0 {
				return fmt.Errorf("no directories configured for scheduled checks")
			}
			for _, dir := range dirs {
				if err := schedule.EnqueueCheck(cmd.Context(), client, cfg.Schedule, dir, logg); err != nil {
					return err
				}
			}
			return nil
		}

		scheduler := schedule.NewScheduler(cfg.Schedule, logg)
		if _, err := schedule.RegisterChecks(scheduler, cfg.Schedule, logg); err != nil {
			return err
		}
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		logg.Info("Scheduler started", zap.String("redis", cfg.Schedule.RedisAddr))

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down scheduler...")
		scheduler.Shutdown()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(&enqueueNowFlag, "now", false, "Enqueue one check per configured directory and exit")
	RootCmd.AddCommand(scheduleCmd)
}
