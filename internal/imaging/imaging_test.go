package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessJPEG(t *testing.T) {
	photo, err := Process(bytes.NewReader(createTestJPEG(100, 100)))
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if len(photo.Data) == 0 || len(photo.Thumb) == 0 {
		t.Error("expected non-empty photo and thumbnail data")
	}
	if photo.Width != 100 || photo.Height != 100 {
		t.Errorf("expected 100x100, got %dx%d", photo.Width, photo.Height)
	}
}

func TestProcessPNGConvertedToJPEG(t *testing.T) {
	photo, err := Process(bytes.NewReader(createTestPNG(100, 100)))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected conversion to image/jpeg, got %s", photo.MIME)
	}
}

func TestProcessDownscale(t *testing.T) {
	photo, err := Process(bytes.NewReader(createTestJPEG(2400, 1200)))
	if err != nil {
		t.Fatalf("Process large photo: %v", err)
	}

	if photo.Width > MaxDimension || photo.Height > MaxDimension {
		t.Errorf("expected max %d, got %dx%d", MaxDimension, photo.Width, photo.Height)
	}
	// Aspect ratio preserved: 2:1 input stays 2:1.
	if photo.Width != 1600 || photo.Height != 800 {
		t.Errorf("expected 1600x800, got %dx%d", photo.Width, photo.Height)
	}

	thumb, _, err := image.Decode(bytes.NewReader(photo.Thumb))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() > ThumbDimension || thumb.Bounds().Dy() > ThumbDimension {
		t.Errorf("thumbnail exceeds %d: %v", ThumbDimension, thumb.Bounds())
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	photo, err := Process(bytes.NewReader(createTestJPEG(50, 50)))
	if err != nil {
		t.Fatalf("Process small photo: %v", err)
	}
	if photo.Width != 50 || photo.Height != 50 {
		t.Errorf("small photo should not be resized: got %dx%d", photo.Width, photo.Height)
	}
}

func TestProcessInvalidFormat(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestProcessGIFRejected(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("GIF89a..."))); err == nil {
		t.Error("expected error for GIF")
	}
}
