package repository

import (
	"context"
	"image"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"go-color-inspector/internal/logger"
	"go-color-inspector/internal/storage"
)

// cachedImageRepository wraps an ImageFetcher with a TTL cache of decoded
// frames keyed by reference
type cachedImageRepository struct {
	fetcher storage.ImageFetcher
	cache   *ttlcache.Cache[string, image.Image]
}

// NewCachedImageRepository creates a frame repository that keeps decoded
// images for ttl, evicting the least recently used entry past capacity.
func NewCachedImageRepository(fetcher storage.ImageFetcher, ttl time.Duration, capacity uint64) ImageRepository {
	cache := ttlcache.New[string, image.Image](
		ttlcache.WithTTL[string, image.Image](ttl),
		ttlcache.WithCapacity[string, image.Image](capacity),
	)
	go cache.Start()

	return &cachedImageRepository{
		fetcher: fetcher,
		cache:   cache,
	}
}

// GetImage returns a cached frame when fresh, fetching and caching otherwise.
// Fetch failures are not cached.
func (r *cachedImageRepository) GetImage(ctx context.Context, imageURL string) (image.Image, error) {
	if item := r.cache.Get(imageURL); item != nil {
		logger.WithField("url", imageURL).Debug("Frame cache hit")
		return item.Value(), nil
	}

	img, err := r.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	r.cache.Set(imageURL, img, ttlcache.DefaultTTL)
	return img, nil
}

// Close stops the cache janitor and releases the fetcher.
func (r *cachedImageRepository) Close() error {
	r.cache.Stop()
	r.cache.DeleteAll()
	return r.fetcher.Close()
}
