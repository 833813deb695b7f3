package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"migration-reconciler/core/database"
	"migration-reconciler/core/loader"
	"migration-reconciler/core/logger"
	"migration-reconciler/core/middleware/auth"
	"migration-reconciler/core/middleware/rayid"
	"migration-reconciler/core/storage"
	"migration-reconciler/feature/clients"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "migration-reconciler/docs/swagger"
)

// @title Migration Reconciler API
// @version 1.0
// @description API for reconciling client snapshots before and after a migration.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration and Logger
		a, err := bootstrap()
		if err != nil {
			return err
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Initialize Storage
		store, err := storage.NewClient(a.cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		deps := clients.Dependencies{
			Storage: store,
			Bucket:  a.cfg.Storage.Bucket,
			Region:  a.cfg.Storage.Region,
			Metrics: a.metrics,
			Logger:  logg,
		}

		// 3. Connect to Database (Optional, only db:// locations need it)
		if conn, err := database.Connect(a.cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			deps.DB = conn
			defer closeDB(conn)
			logg.Info("Connected to database", zap.String("driver", a.cfg.Database.Driver))
		}

		svc, err := clients.NewServiceFromConfig(a.cfg.Reconcile, deps)
		if err != nil {
			return err
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             a.cfg.Server.BodyLimit(),
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(clients.NewFeature(svc))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
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

		// 3. Public endpoints
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Get("/swagger/*", swagger.HandlerDefault)
		if a.metrics.Enabled() {
			app.Get("/metrics", a.metrics.Handler())
		}

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(a.cfg.Server.ShutdownTimeout)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
