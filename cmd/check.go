package cmd

import (
	"context"
	"os"

	"bitbackup/core/config"
	"bitbackup/core/metrics"
	"bitbackup/core/storage"
	"bitbackup/feature/check"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags shared by the root and check commands
	dirFlag           string
	reportFlag        bool
	indexFlag         bool
	migrateLegacyFlag bool
	archiveFlag       bool
)

// checkCmd runs one reconciliation of a directory.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a directory for bit rot",
	Long: `Reconciles the directory against its inventory: new files are added, deleted files
are removed, modified files are re-hashed and every other file is verified.

Exits with a non-zero status when bit rot was found.

Examples:
  # Check the working directory
  bitbackup check

  # Check a backup disk and write the report
  bitbackup check --dir /mnt/backup --report`,
	RunE: runCheck,
}

func bindCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to check (default from CHECK_DIR or .)")
	cmd.Flags().BoolVarP(&reportFlag, "report", "r", false, "Write the bit rot report")
	cmd.Flags().BoolVar(&indexFlag, "index", false, "Write the filesystem metadata index")
	cmd.Flags().BoolVar(&migrateLegacyFlag, "migrate-legacy", false, "Rename files left by earlier product names")
	cmd.Flags().BoolVar(&archiveFlag, "archive", false, "Upload the inventory and report to object storage")
}

// applyCheckFlags overrides cfg with the flags set on cmd.
func applyCheckFlags(cmd *cobra.Command, cfg *check.Config) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = dirFlag
	}
	if flags.Changed("report") {
		cfg.Report = reportFlag
	}
	if flags.Changed("index") {
		cfg.WriteIndex = indexFlag
	}
	if flags.Changed("migrate-legacy") {
		cfg.MigrateLegacy = migrateLegacyFlag
	}
	if flags.Changed("archive") {
		cfg.Archive = archiveFlag
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logg.Sync()

	applyCheckFlags(cmd, &cfg.Check)

	svc, err := newCheckService(cmd.Context(), cfg, logg)
	if err != nil {
		return err
	}

	outcome, err := svc.Run(cmd.Context(), cfg.Check)
	if outcome != nil && outcome.Result != nil {
		check.PrintSummary(os.Stdout, outcome)
	}
	return err
}

// newCheckService wires the check service with metrics and, when archiving is
// enabled, the object storage archiver.
func newCheckService(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*check.Service, error) {
	opts := []check.Option{
		check.WithMetrics(metrics.New(), cfg.Metrics.PushgatewayURL),
	}

	if cfg.Check.Archive {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		archiver := storage.NewArchiver(client, cfg.Storage, logg)
		if err := archiver.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		opts = append(opts, check.WithArchiver(archiver))
	}

	return check.NewService(cfg.Database, logg, opts...), nil
}

func init() {
	bindCheckFlags(checkCmd)
	RootCmd.AddCommand(checkCmd)
}
