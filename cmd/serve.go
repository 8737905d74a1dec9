package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bitbackup/core/bitfiles"
	"bitbackup/core/database"
	"bitbackup/core/loader"
	"bitbackup/core/logger"
	"bitbackup/core/metrics"
	"bitbackup/core/middleware/auth"
	"bitbackup/core/middleware/rayid"
	"bitbackup/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveDirFlag string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only API over an inventory",
	Long: `Opens the inventory of a checked directory read-only and serves its summary,
records and integrity status over HTTP. Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration and Logger
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		dir := cfg.Check.Dir
		if cmd.Flags().Changed("dir") {
			dir = serveDirFlag
		}
		layout, err := bitfiles.NewLayout(dir)
		if err != nil {
			return err
		}
		logg = logg.With(zap.String("root", layout.Root))

		// 2. Open the inventory read-only
		dbCfg := cfg.Database
		dbCfg.Path = layout.Store
		dbCfg.ReadOnly = true
		db, err := database.Connect(dbCfg)
		if err != nil {
			return fmt.Errorf("no readable inventory under %s: %w", layout.Root, err)
		}
		defer database.Close(db)
		logg.Info("Opened inventory", zap.String("store", layout.Store))

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})
		m := metrics.New()

		mgr := loader.NewManager()
		mgr.Register(inventory.NewFeature(layout, db, cfg.Server.CacheTTL(), logg))

		// RayID first so every later log line carries it
		app.Use(rayid.New())
		app.Use(m.Middleware())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public, scraped without a key
		app.Get("/metrics", m.FiberHandler())

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		// 4. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 5. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveDirFlag, "dir", "d", "", "Directory whose inventory is served (default from CHECK_DIR or .)")
	RootCmd.AddCommand(serveCmd)
}
