package cmd

import (
	"fmt"
	"os"

	"bitbackup/core/config"
	"bitbackup/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands.
// It runs a check, like the check command.
var RootCmd = &cobra.Command{
	Use:   "bitbackup",
	Short: "Bit rot detector",
	Long: `bitbackup keeps an inventory of content hashes for every file under a directory
and reports files whose content changed while their modification time did not.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console debug config for ISO8601 timestamps on a terminal
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// bootstrap loads configuration from the working directory and builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)
	return cfg, logg, nil
}

func init() {
	bindCheckFlags(RootCmd)
}
