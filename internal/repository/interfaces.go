// Package repository provides cached access to decoded capture frames.
package repository

import (
	"context"
	"image"
)

// ImageRepository hands out decoded frames by reference. Implementations may
// cache: repeated region analyses of one frame should not refetch it.
type ImageRepository interface {
	// GetImage returns the decoded frame for a URL or blob reference.
	GetImage(ctx context.Context, imageURL string) (image.Image, error)

	// Close releases the underlying fetcher and any cache resources.
	Close() error
}
