// Package container wires the application dependency graph.
package container

import (
	"fmt"
	"net/http"

	"go-color-inspector/internal/analyzer"
	"go-color-inspector/internal/config"
	"go-color-inspector/internal/factory"
	"go-color-inspector/internal/logger"
	"go-color-inspector/internal/observer"
	"go-color-inspector/internal/repository"
	"go-color-inspector/internal/service"
	"go-color-inspector/internal/transport"
	"go-color-inspector/pkg/services"
	"go-color-inspector/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	colorAnalyzer   analyzer.ColorAnalyzer
	imageRepository repository.ImageRepository
	analysisService service.ColorAnalysisService
	reportService   *services.ProfileReportService
	statsObserver   *observer.StatsObserver
	handler         http.Handler
}

// NewContainer builds the dependency graph from the loaded configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	fetcher, err := factory.CreateConfiguredFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("building fetcher: %w", err)
	}

	colorAnalyzer, err := analyzer.NewColorAnalyzerWithWorkers(cfg.WorkerCount)
	if err != nil {
		return nil, fmt.Errorf("building analyzer: %w", err)
	}

	imageRepository := repository.NewCachedImageRepository(fetcher, cfg.CacheTTL, cfg.CacheCapacity)

	// Azure references use the azblob scheme, so it joins the allow list
	// only for that backend.
	schemes := []string{"http", "https"}
	if cfg.StorageBackend == "azure" {
		schemes = append(schemes, "azblob")
	}
	urlValidator := validation.NewURLValidatorWithOptions(schemes, nil)

	statsObserver := observer.NewStatsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(statsObserver)

	analysisService := service.NewColorAnalysisService(
		colorAnalyzer,
		imageRepository,
		urlValidator,
		validation.NewCaptureValidator(),
		publisher,
		cfg.BatchConcurrency,
	)
	reportService := services.NewProfileReportService(colorAnalyzer, imageRepository, urlValidator)

	handler := transport.NewHandler(analysisService, reportService, statsObserver, cfg)

	return &Container{
		config:          cfg,
		colorAnalyzer:   colorAnalyzer,
		imageRepository: imageRepository,
		analysisService: analysisService,
		reportService:   reportService,
		statsObserver:   statsObserver,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases the analyzer, repository, and fetcher.
func (c *Container) Close() error {
	return c.analysisService.Close()
}
