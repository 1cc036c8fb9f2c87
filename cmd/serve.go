package cmd

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"sb-verify/core/config"
	"sb-verify/core/database"
	"sb-verify/core/loader"
	"sb-verify/core/logger"
	"sb-verify/core/middleware/auth"
	"sb-verify/core/middleware/rayid"
	"sb-verify/feature/safebrowsing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCacheTTL time.Duration

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [old-profile-dir] [new-profile-dir]",
	Short: "Serve verification reports over HTTP",
	Long: `Starts the HTTP server and exposes the verification report for the
given profile pair. Reports are cached and rebuilt after the TTL expires.

Arguments and flags fall back to the verify section of the configuration,
like the verify command.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		oldDir, newDir := cfg.Verify.OldProfile, cfg.Verify.NewProfile
		if len(args) > 0 {
			oldDir = args[0]
		}
		if len(args) > 1 {
			newDir = args[1]
		}
		if oldDir == "" || newDir == "" {
			log.Fatal("No profile pair: pass the two directories or set verify.old_profile and verify.new_profile")
		}

		if cmd.Flags().Changed("strict-header") {
			cfg.Verify.StrictHeader = strictHeader
		}
		if cmd.Flags().Changed("verify-checksum") {
			cfg.Verify.VerifyChecksum = verifyChecksum
		}
		if cmd.Flags().Changed("cache-ttl") {
			cfg.Verify.CacheTTL = serveCacheTTL
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the legacy store
		schema := safebrowsing.DefaultLegacySchema()
		dbCfg := cfg.Database
		if dbCfg.Driver != "mysql" {
			dbCfg.Driver = "sqlite"
			dbCfg.Name = filepath.Join(oldDir, schema.DatabaseFile)
		}
		db, err := database.Connect(dbCfg)
		if err != nil {
			logg.Fatal("Failed to open legacy store", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()

		mgr.Register(safebrowsing.NewFeature(logg, db, newDir, cfg.Verify.Options(), cfg.Verify.CacheTTL))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().DurationVar(&serveCacheTTL, "cache-ttl", 5*time.Minute, "How long a verification report stays cached")
	serveCmd.Flags().BoolVar(&verifyChecksum, "verify-checksum", false, "Verify the stored MD5 checksum of each store file")
	serveCmd.Flags().BoolVar(&strictHeader, "strict-header", false, "Reject store files with unknown magic or version")
}
