package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
)

// PyroscopeConfig configures continuous profiling.
type PyroscopeConfig struct {
	Enabled     bool
	ServerURL   string
	Environment string
	Version     string
}

// PyroscopeProfiler holds the Pyroscope profiler instance
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope starts continuous profiling for serviceName. It returns a
// nil profiler and no error when disabled.
func StartPyroscope(serviceName string, cfg PyroscopeConfig, log logger.Logger) (*PyroscopeProfiler, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	pyroCfg := ApplicationConfig(serviceName, cfg)

	profiler, err := pyroscope.Start(pyroCfg)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		logger.String("application", pyroCfg.ApplicationName),
		logger.String("server", pyroCfg.ServerAddress),
		logger.String("environment", cfg.Environment),
	)

	return &PyroscopeProfiler{profiler: profiler}, nil
}

// ApplicationConfig builds the profiler settings for serviceName.
func ApplicationConfig(serviceName string, cfg PyroscopeConfig) pyroscope.Config {
	version := cfg.Version
	if version == "" {
		version = "unknown"
	}

	return pyroscope.Config{
		ApplicationName: "seo." + serviceName,
		ServerAddress:   cfg.ServerURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": cfg.Environment,
			"version":     version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	}
}

// Stop gracefully stops the Pyroscope profiler
func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
