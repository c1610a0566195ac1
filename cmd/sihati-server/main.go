package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sihatech/sihati/internal/config"
	"github.com/sihatech/sihati/internal/domain/account"
	"github.com/sihatech/sihati/internal/domain/analytics"
	"github.com/sihatech/sihati/internal/domain/appointment"
	"github.com/sihatech/sihati/internal/domain/billing"
	"github.com/sihatech/sihati/internal/domain/consultation"
	"github.com/sihatech/sihati/internal/domain/medication"
	"github.com/sihatech/sihati/internal/domain/patient"
	"github.com/sihatech/sihati/internal/domain/practitioner"
	"github.com/sihatech/sihati/internal/platform/auth"
	"github.com/sihatech/sihati/internal/platform/cache"
	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/export"
	"github.com/sihatech/sihati/internal/platform/middleware"
	"github.com/sihatech/sihati/internal/workflow"
)

var envFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "sihati-server",
		Short: "Clinic management API server",
	}
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "environment profile (dev, staging, prod)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(smokeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, cfg)
}

// services is the wired object graph shared by serve and smoke.
type services struct {
	patients      *patient.Service
	practitioners *practitioner.Service
	appointments  *appointment.Service
	medications   *medication.Service
	consultations *consultation.Service
	invoices      *billing.Service
	accounts      *account.Service
	analytics     *analytics.Service
	workflows     *workflow.Service
}

func buildServices(pool *pgxpool.Pool, redisClient *redis.Client) *services {
	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	practitionerSvc := practitioner.NewService(practitioner.NewRepoPG(pool), practitioner.NewDepartmentRepoPG(pool))
	appointmentSvc := appointment.NewService(appointment.NewRepoPG(pool), patientSvc, practitionerSvc)
	medicationSvc := medication.NewService(medication.NewRepoPG(pool))
	consultationSvc := consultation.NewService(consultation.NewRepoPG(pool), appointmentSvc, medicationSvc)
	billingSvc := billing.NewService(billing.NewRepoPG(pool))
	accountSvc := account.NewService(account.NewRepoPG(pool))
	analyticsSvc := analytics.NewService(patientSvc, practitionerSvc, appointmentSvc, consultationSvc, billingSvc, redisClient)
	workflowSvc := workflow.NewService(db.NewPoolRunner(pool), appointmentSvc, consultationSvc,
		billingSvc, patientSvc, practitionerSvc, redisClient)

	return &services{
		patients:      patientSvc,
		practitioners: practitionerSvc,
		appointments:  appointmentSvc,
		medications:   medicationSvc,
		consultations: consultationSvc,
		invoices:      billingSvc,
		accounts:      accountSvc,
		analytics:     analyticsSvc,
		workflows:     workflowSvc,
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

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	ctx := context.Background()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Str("env", cfg.Env).Msg("connected to database")

	redisClient := cache.NewClient(ctx, cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// Dev only; Validate rejects an empty secret elsewhere.
		buf := make([]byte, 32)
		if _, err := crypto_rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate dev JWT secret")
		}
		secret = hex.EncodeToString(buf)
		logger.Warn().Msg("JWT_SECRET not set; generated a throwaway dev secret")
	}
	issuer := auth.NewTokenIssuer([]byte(secret), "sihati", time.Duration(cfg.JWTTTLHours)*time.Hour)

	svcs := buildServices(pool, redisClient)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.BodyLimit(1 << 20))
	e.Use(middleware.RequestTimeout(20 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", db.HealthHandler(pool))

	accountHandler := account.NewHandler(svcs.accounts, issuer)

	public := e.Group("/api/v1")
	public.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	accountHandler.RegisterPublicRoutes(public)

	api := e.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("dev profile without JWT_SECRET; all requests run as admin")
		api.Use(auth.DevMiddleware())
	} else {
		api.Use(auth.Middleware(issuer))
	}

	patient.NewHandler(svcs.patients).RegisterRoutes(api)
	practitioner.NewHandler(svcs.practitioners).RegisterRoutes(api)
	appointment.NewHandler(svcs.appointments).RegisterRoutes(api)
	medication.NewHandler(svcs.medications).RegisterRoutes(api)
	consultation.NewHandler(svcs.consultations).RegisterRoutes(api)
	billing.NewHandler(svcs.invoices).RegisterRoutes(api)
	accountHandler.RegisterRoutes(api)
	analytics.NewHandler(svcs.analytics).RegisterRoutes(api)
	workflow.NewHandler(svcs.workflows).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.StartServer(srv); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
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
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, cfg.MigrateDir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, cfg.MigrateDir).Status(ctx)
			if err != nil {
				return fmt.Errorf("migration status failed: %w", err)
			}
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
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
	cmd.AddCommand(statusCmd)

	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write a timestamped SQL dump of all clinic data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			path, err := export.NewExporter(pool, cfg.ExportDir).Dump(ctx)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Printf("Export written to %s\n", path)
			return nil
		},
	}
}
