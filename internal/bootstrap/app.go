// Package bootstrap handles application initialization and lifecycle
// management for the link suggester.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/profiling"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/telemetry"
)

const (
	serviceName = "link-suggester"
	version     = "dev"
)

// Start initializes and runs the service until it receives SIGINT or
// SIGTERM.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Profiling (both optional)
	profiling.StartPprofServer(profiling.PprofConfig{
		Enabled: cfg.Profiling.Pprof,
		Port:    cfg.Profiling.PprofPort,
	}, log)

	profiler, err := profiling.StartPyroscope(serviceName, profiling.PyroscopeConfig{
		Enabled:     cfg.Profiling.Continuous,
		ServerURL:   cfg.Profiling.PyroscopeURL,
		Environment: cfg.Profiling.Environment,
		Version:     version,
	}, log)
	if err != nil {
		log.Warn("Continuous profiling disabled", logger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	// Phase 3: Pipeline
	tp := telemetry.NewProvider()
	svc := SetupLinker(cfg, tp, log)

	log.Info("Link pipeline ready",
		logger.String("llm_provider", cfg.LLM.Provider),
		logger.String("llm_model", cfg.LLM.Model),
		logger.Bool("api_key_configured", svc.KeyConfigured()),
		logger.Int("metadata_concurrency", cfg.Metadata.Concurrency),
	)

	// Phase 4: HTTP server
	srv := SetupHTTPServer(cfg, svc, tp, log)
	if runErr := srv.Run(context.Background()); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
