package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// azureImageFetcher implements ImageFetcher against Azure blob storage.
// References use the azblob://container/path/to/blob form; a reference
// without a container falls back to the configured default.
type azureImageFetcher struct {
	client           *azblob.Client
	defaultContainer string
	maxBytes         int64
}

// NewAzureImageFetcher creates a blob-backed image fetcher using shared key
// credentials.
func NewAzureImageFetcher(accountName, accountKey, defaultContainer string, maxBytes int64) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("building azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("building azure client: %w", err)
	}

	if maxBytes <= 0 {
		maxBytes = DefaultFetcherOptions().MaxBytes
	}
	return &azureImageFetcher{
		client:           client,
		defaultContainer: defaultContainer,
		maxBytes:         maxBytes,
	}, nil
}

// FetchImage downloads and decodes the referenced blob.
func (f *azureImageFetcher) FetchImage(ctx context.Context, blobRef string) (image.Image, error) {
	container, blobName, err := f.resolveRef(blobRef)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.DownloadStream(ctx, container, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading blob %s/%s: %w", container, blobName, err)
	}
	defer resp.Body.Close()

	return decodeFrame(resp.Body, f.maxBytes)
}

// Close is a no-op; the azblob client holds no long-lived resources of its own.
func (f *azureImageFetcher) Close() error { return nil }

func (f *azureImageFetcher) resolveRef(blobRef string) (container, blobName string, err error) {
	parsed, err := url.Parse(blobRef)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob reference %q: %w", blobRef, err)
	}

	switch parsed.Scheme {
	case "azblob":
		container = parsed.Host
		blobName = strings.TrimPrefix(parsed.Path, "/")
	case "":
		container = f.defaultContainer
		blobName = strings.TrimPrefix(blobRef, "/")
	default:
		return "", "", fmt.Errorf("unsupported blob reference scheme %q", parsed.Scheme)
	}

	if container == "" || blobName == "" {
		return "", "", fmt.Errorf("blob reference %q does not name a container and blob", blobRef)
	}
	return container, blobName, nil
}
