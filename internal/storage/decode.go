package storage

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodeFrame decodes an image from r, rejecting bodies larger than maxBytes.
// It stops reading at maxBytes+1 so an oversized body is detected without
// being consumed whole.
func decodeFrame(r io.Reader, maxBytes int64) (image.Image, error) {
	counted := &countingReader{r: io.LimitReader(r, maxBytes+1)}
	img, _, err := image.Decode(counted)
	if err != nil {
		if counted.n > maxBytes {
			return nil, fmt.Errorf("image exceeds size limit of %d bytes", maxBytes)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if counted.n > maxBytes {
		return nil, fmt.Errorf("image exceeds size limit of %d bytes", maxBytes)
	}
	return img, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
