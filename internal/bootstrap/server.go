package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/api"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/config"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/linker"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/llm"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/metadata"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/server"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/sitemap"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/telemetry"
)

// SetupLinker wires the sitemap resolver, metadata enricher and model
// client into a link pipeline.
func SetupLinker(cfg *config.Config, tp *telemetry.Provider, log logger.Logger) *linker.Service {
	resolver := sitemap.NewResolver(sitemap.Config{
		Timeout:      cfg.Sitemap.Timeout,
		UserAgent:    cfg.Sitemap.UserAgent,
		SiteRoot:     cfg.Sitemap.SiteRoot,
		MaxBodyBytes: cfg.Sitemap.MaxBodyBytes,
	}, log)

	enricher := metadata.NewEnricher(metadata.Config{
		Timeout:      cfg.Metadata.Timeout,
		UserAgent:    cfg.Sitemap.UserAgent,
		Concurrency:  cfg.Metadata.Concurrency,
		MaxBodyBytes: cfg.Metadata.MaxBodyBytes,
	}, log)

	completers := llm.NewFactory(llm.Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, log)

	return linker.NewService(resolver, enricher, completers, tp, log)
}

// SetupHTTPServer creates the HTTP server with UI, API, health and metrics
// routes.
func SetupHTTPServer(cfg *config.Config, svc *linker.Service, tp *telemetry.Provider, log logger.Logger) *server.Server {
	handler := api.NewLinkHandler(svc, serviceName)

	return server.New(&server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Debug:          cfg.Debug,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		ServiceName:    serviceName,
		ServiceVersion: version,
	}, log, func(router *gin.Engine) {
		server.RegisterHealthRoutes(router, serviceName, version)
		api.RegisterRoutes(router, handler, tp.Handler())
	})
}
