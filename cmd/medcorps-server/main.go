package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/config"
	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/domain/diagnostic"
	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/domain/emergency"
	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/domain/patient"
	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/domain/prescription"
	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/domain/telemetry"
	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/platform/db"
	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/platform/middleware"
	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/platform/ws"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "medcorps-server",
		Short: "Konoha Medical Corps operations API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	// Realtime hub
	hub := ws.NewHub(logger)
	wsHandler := ws.NewHandler(hub)
	wsHandler.RegisterRoutes(e)

	// Domain wiring. The patient service doubles as the directory the
	// other domains resolve subject ids against.
	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	patientHandler := patient.NewHandler(patientSvc)

	gen := telemetry.NewGenerator()
	telemetryRepo := telemetry.NewRepoPG(pool)
	telemetrySvc := telemetry.NewService(telemetryRepo, patientSvc, gen, hub)
	telemetryHandler := telemetry.NewHandler(telemetrySvc)

	diagnosticSvc := diagnostic.NewService(diagnostic.NewRepoPG(pool), patientSvc)
	diagnosticHandler := diagnostic.NewHandler(diagnosticSvc)

	emergencySvc := emergency.NewService(emergency.NewRepoPG(pool), patientSvc, hub)
	emergencyHandler := emergency.NewHandler(emergencySvc)

	prescriptionSvc := prescription.NewService(prescription.NewRepoPG(pool), patientSvc)
	prescriptionHandler := prescription.NewHandler(prescriptionSvc)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	apiV1 := e.Group("/api/v1")
	patientHandler.RegisterRoutes(apiV1)
	telemetryHandler.RegisterRoutes(apiV1)
	diagnosticHandler.RegisterRoutes(apiV1)
	emergencyHandler.RegisterRoutes(apiV1)
	prescriptionHandler.RegisterRoutes(apiV1)

	// Background resimulation keeps tracked vitals moving between
	// manual ingests.
	var resim *telemetry.Resimulator
	if cfg.ResimEnabled {
		resim = telemetry.NewResimulator(telemetryRepo, gen, hub, cfg.ResimInterval(), logger)
		resim.Start(ctx)
		logger.Info().Dur("interval", cfg.ResimInterval()).Msg("resimulation started")
	}

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server stopped")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	if resim != nil {
		resim.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
