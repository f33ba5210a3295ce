// Package factory builds fetcher backends from configuration.
package factory

import (
	"fmt"

	"go-color-inspector/internal/config"
	"go-color-inspector/internal/storage"
)

// StorageType represents different types of frame storage backends
type StorageType string

const (
	// HTTPStorage fetches frames over HTTP(S)
	HTTPStorage StorageType = "http"
	// AzureStorage fetches frames from Azure blob storage
	AzureStorage StorageType = "azure"
)

// FetcherFactory creates image fetchers
type FetcherFactory interface {
	CreateFetcher(storageType StorageType) (storage.ImageFetcher, error)
}

// fetcherFactory implements FetcherFactory on top of the loaded configuration
type fetcherFactory struct {
	cfg *config.Config
}

// NewFetcherFactory creates a fetcher factory bound to the configuration
func NewFetcherFactory(cfg *config.Config) FetcherFactory {
	return &fetcherFactory{cfg: cfg}
}

// CreateFetcher builds the fetcher for the requested backend
func (f *fetcherFactory) CreateFetcher(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(storage.FetcherOptions{
			Timeout:    f.cfg.ImageFetchTimeout,
			MaxBytes:   f.cfg.MaxImageBytes,
			Retries:    f.cfg.FetchRetries,
			RetryDelay: f.cfg.FetchRetryDelay,
		}), nil
	case AzureStorage:
		return storage.NewAzureImageFetcher(
			f.cfg.AzureAccountName,
			f.cfg.AzureAccountKey,
			f.cfg.AzureContainer,
			f.cfg.MaxImageBytes,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// CreateConfiguredFetcher builds the fetcher named by STORAGE_BACKEND.
func CreateConfiguredFetcher(cfg *config.Config) (storage.ImageFetcher, error) {
	return NewFetcherFactory(cfg).CreateFetcher(StorageType(cfg.StorageBackend))
}
