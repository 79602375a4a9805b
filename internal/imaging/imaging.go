// Package imaging normalizes uploaded listing photos. Every accepted photo
// is re-encoded as JPEG at a bounded size, with a small thumbnail for
// gallery and search-result views.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxDimension bounds the stored photo size. Listing photos are shown in a
// full-width gallery, so the bound is generous.
const MaxDimension = 1600

// ThumbDimension bounds the thumbnail used in search results.
const ThumbDimension = 320

// JPEGQuality is the compression quality for re-encoded output.
const JPEGQuality = 85

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Photo is a processed listing photo.
type Photo struct {
	Data   []byte
	Thumb  []byte
	MIME   string
	Width  int
	Height int
}

// Process reads photo data, validates the format by sniffing bytes,
// downscales oversized images and produces a thumbnail. Output is always
// JPEG regardless of input format.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading photo data: %w", err)
	}

	// Sniff the actual MIME type, never trusting client headers.
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported photo format: %s (JPEG, PNG and WebP accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	full := downscale(img, MaxDimension)
	thumb := downscale(img, ThumbDimension)

	fullData, err := encodeJPEG(full)
	if err != nil {
		return nil, err
	}
	thumbData, err := encodeJPEG(thumb)
	if err != nil {
		return nil, err
	}

	bounds := full.Bounds()
	return &Photo{
		Data:   fullData,
		Thumb:  thumbData,
		MIME:   "image/jpeg",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Images already within bounds are returned as-is.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
