package main

import (
	"context"
	"encoding/json"
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

	"github.com/medchain/medchain/internal/config"
	"github.com/medchain/medchain/internal/domain/analytics"
	"github.com/medchain/medchain/internal/domain/state"
	"github.com/medchain/medchain/internal/platform/assistant"
	"github.com/medchain/medchain/internal/platform/auth"
	"github.com/medchain/medchain/internal/platform/middleware"
	"github.com/medchain/medchain/internal/platform/notification"
	"github.com/medchain/medchain/internal/platform/reporting"
	"github.com/medchain/medchain/internal/platform/telemetry"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "medchain-server",
		Short: "Hospital Operations API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(fixtureCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the operations API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// fixtureCmd dumps the seed snapshot as JSON, useful for inspecting what the
// server starts with.
func fixtureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixture",
		Short: "Print the seed snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(state.Fixture())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

// noticeFanout delivers each notice to the notification center and counts it
// in telemetry.
type noticeFanout struct {
	center  *notification.Center
	metrics *telemetry.Provider
}

func (f noticeFanout) Publish(n state.Notice) {
	f.center.Publish(n)
	f.metrics.ObserveNotice(n.Severity)
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

	// Telemetry
	metrics := telemetry.NewProvider("medchain")

	// State store seeded from the fixture
	store := state.NewStore(state.Fixture(), nil)
	store.SetMutationObserver(func(op string) {
		metrics.ObserveMutation(op)
		snap := store.Snapshot()
		metrics.SetEntityCount("inventory", len(snap.Inventory))
		metrics.SetEntityCount("patients", len(snap.Patients))
		metrics.SetEntityCount("staff", len(snap.Staff))
		metrics.SetEntityCount("doctors", len(snap.Doctors))
		metrics.SetEntityCount("vendors", len(snap.Vendors))
		metrics.SetEntityCount("orders", len(snap.Orders))
		metrics.SetEntityCount("requests", len(snap.Requests))
		metrics.SetEntityCount("bills", len(snap.Bills))
	})

	// Notices fan out to the in-memory center and the notice counter.
	center := notification.NewCenter(nil)
	store.SetNoticeSink(noticeFanout{center: center, metrics: metrics})

	// Assistant client. Without a configured endpoint every call returns its
	// fallback and the dashboard still works.
	var client assistant.Client = assistant.Disabled{}
	if cfg.AssistantEnabled() {
		httpClient := assistant.NewHTTPClient(assistant.Config{
			BaseURL: cfg.AssistantURL,
			APIKey:  cfg.AssistantAPIKey,
			Model:   cfg.AssistantModel,
			Timeout: cfg.AssistantTimeout(),
		})
		httpClient.SetObserver(metrics.ObserveAssistantCall)
		client = httpClient
		logger.Info().Str("model", cfg.AssistantModel).Msg("assistant enabled")
	} else {
		logger.Warn().Msg("assistant not configured, endpoints will answer with fallbacks")
	}

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
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID", "X-Role"},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout()))
	if cfg.MetricsEnabled {
		e.Use(metrics.MetricsMiddleware())
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	// Metrics exposition
	if cfg.MetricsEnabled {
		e.GET("/metrics", metrics.Handler())
	}

	// Role-gated API groups. Admins pass every gate.
	apiV1 := e.Group("/api/v1", auth.ExtractRole())
	adminGroup := apiV1.Group("", auth.RequireRole(auth.RoleAdmin))
	pharmacyGroup := apiV1.Group("", auth.RequireRole(auth.RolePharmacist))
	frontdeskGroup := apiV1.Group("", auth.RequireRole(auth.RoleEmployee))

	// Handlers
	stateHandler := state.NewHandler(store, client)
	stateHandler.RegisterRoutes(apiV1, adminGroup, pharmacyGroup, frontdeskGroup)

	analyticsHandler := analytics.NewHandler(store, nil)
	analyticsHandler.RegisterRoutes(adminGroup, pharmacyGroup)

	assistantHandler := assistant.NewHandler(client, store, nil)
	assistantHandler.RegisterRoutes(apiV1, adminGroup, frontdeskGroup)

	notificationHandler := notification.NewHandler(center)
	notificationHandler.RegisterRoutes(apiV1)

	reportHandler := reporting.NewHandler(reporting.NewExporter(store, nil))
	reportHandler.RegisterRoutes(adminGroup)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
