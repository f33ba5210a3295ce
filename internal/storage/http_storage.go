// Package storage fetches and decodes capture frames from remote sources.
package storage

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"

	"go-color-inspector/internal/logger"
)

// ImageFetcher retrieves a decoded frame from a URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
	Close() error
}

// FetcherOptions tunes the HTTP fetcher. Zero values fall back to defaults.
type FetcherOptions struct {
	Timeout    time.Duration
	MaxBytes   int64
	Retries    uint
	RetryDelay time.Duration
}

// DefaultFetcherOptions returns the fetcher defaults used when the caller
// supplies no configuration.
func DefaultFetcherOptions() FetcherOptions {
	return FetcherOptions{
		Timeout:    15 * time.Second,
		MaxBytes:   20 * 1024 * 1024,
		Retries:    3,
		RetryDelay: 200 * time.Millisecond,
	}
}

// httpImageFetcher implements ImageFetcher over plain HTTP(S)
type httpImageFetcher struct {
	client *http.Client
	opts   FetcherOptions
}

// NewHTTPImageFetcher creates an HTTP image fetcher. Transient failures
// (network errors, 5xx responses) are retried with a fixed delay; client
// errors fail immediately.
func NewHTTPImageFetcher(opts FetcherOptions) ImageFetcher {
	def := DefaultFetcherOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = def.MaxBytes
	}
	if opts.Retries == 0 {
		opts.Retries = def.Retries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}

	// Frames come from one camera gateway at a time, so a small connection
	// pool is enough.
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}

	return &httpImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		opts: opts,
	}
}

// FetchImage downloads and decodes one frame.
func (f *httpImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	var img image.Image

	err := retry.Do(func() error {
		var attemptErr error
		img, attemptErr = f.fetchOnce(ctx, imageURL)
		return attemptErr
	},
		retry.Context(ctx),
		retry.Attempts(f.opts.Retries),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(f.opts.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.WithFields(logrus.Fields{
				"url":     imageURL,
				"attempt": n + 1,
			}).WithError(err).Warn("Retrying frame fetch")
		}),
	)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (f *httpImageFetcher) fetchOnce(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", "go-color-inspector/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, retry.Unrecoverable(fmt.Errorf("client error: status code %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, retry.Unrecoverable(fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isImageContentType(ct) {
		return nil, retry.Unrecoverable(fmt.Errorf("unexpected content type %q", ct))
	}

	img, err := decodeFrame(resp.Body, f.opts.MaxBytes)
	if err != nil {
		// A truncated or corrupt body will not improve on retry.
		return nil, retry.Unrecoverable(err)
	}
	return img, nil
}

// Close releases idle connections.
func (f *httpImageFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// isImageContentType accepts image/* plus the octet-stream fallback some
// camera gateways send.
func isImageContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	return strings.HasPrefix(ct, "image/") || ct == "application/octet-stream"
}
