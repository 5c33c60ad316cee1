package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/formulation/internal/config"
	"github.com/ehr/formulation/internal/domain/criteria"
	"github.com/ehr/formulation/internal/domain/dsm"
	"github.com/ehr/formulation/internal/domain/narrative"
	"github.com/ehr/formulation/internal/platform/auth"
	"github.com/ehr/formulation/internal/platform/db"
	"github.com/ehr/formulation/internal/platform/middleware"
	"github.com/ehr/formulation/internal/platform/openapi"
	"github.com/ehr/formulation/internal/platform/telemetry"
)

const version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "formulation-server",
		Short:        "DSM-5-TR diagnostic formulation service",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(disordersCmd())
	rootCmd.AddCommand(sectionsCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(migrateCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the formulation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	w := out
	if cfg.IsDev() {
		w = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(w).Level(cfg.ZerologLevel()).With().Timestamp().Logger()
}

// openPool connects only when a database is configured; a nil pool is valid.
func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

// loadCatalog layers the built-in entries, the CATALOG_FILE overlay and, when
// CATALOG_FROM_DB is set, the Postgres catalog. Later sources replace earlier
// entries with the same key.
func loadCatalog(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (*criteria.Catalog, error) {
	sources := []criteria.Source{dsm.Source()}
	if cfg.CatalogFile != "" {
		sources = append(sources, criteria.NewYAMLFileSource(cfg.CatalogFile))
	}
	if cfg.CatalogFromDB {
		if pool == nil {
			return nil, fmt.Errorf("CATALOG_FROM_DB requires DATABASE_URL")
		}
		sources = append(sources, criteria.NewCatalogRepoPG(pool))
	}

	b := criteria.NewBuilder()
	for _, src := range sources {
		n, err := b.Load(ctx, src)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("source", src.Name()).Int("entries", n).Msg("catalog source loaded")
	}
	catalog := b.Build()
	logger.Info().Int("disorders", catalog.Len()).Msg("catalog ready")
	return catalog, nil
}

func newService(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (*narrative.Service, error) {
	catalog, err := loadCatalog(ctx, cfg, pool, logger)
	if err != nil {
		return nil, err
	}
	rules, err := dsm.RuleBook()
	if err != nil {
		return nil, fmt.Errorf("compile rule book: %w", err)
	}
	svc, err := narrative.NewService(catalog, rules, logger)
	if err != nil {
		return nil, err
	}
	svc.SetBatchConcurrency(cfg.BatchConcurrency)
	return svc, nil
}

func authMiddleware(cfg *config.Config) (echo.MiddlewareFunc, error) {
	if cfg.ResolvedAuthMode() == config.AuthModeDevelopment {
		return auth.DevAuthMiddleware(), nil
	}
	key, err := cfg.SigningKey()
	if err != nil {
		return nil, err
	}
	return auth.JWTMiddleware(auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		JWKSURL:    cfg.AuthJWKSURL,
		SigningKey: key,
	}), nil
}

// newServer wires middleware and routes. pool may be nil.
func newServer(cfg *config.Config, svc *narrative.Service, pool *pgxpool.Pool, tel *telemetry.Instruments, logger zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(tel.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	authMW, err := authMiddleware(cfg)
	if err != nil {
		return nil, err
	}
	apiV1 := e.Group("/api/v1", authMW)
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	criteria.NewHandler(svc.Catalog()).RegisterRoutes(apiV1)
	narrative.NewHandler(svc).RegisterRoutes(apiV1)
	openapi.NewGenerator(version, "/api/v1", svc.Catalog().Keys()).RegisterRoutes(apiV1)
	return e, nil
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if pool != nil {
		defer pool.Close()
		logger.Info().Msg("connected to database")
	}

	// Telemetry
	tel, shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    "formulation-server",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up telemetry")
	}

	svc, err := newService(ctx, cfg, pool, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build formulation service")
	}
	svc.SetRecorder(tel)

	e, err := newServer(cfg, svc, pool, tel, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure server")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("auth_mode", cfg.ResolvedAuthMode()).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("telemetry shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
