// Package debug provides frame capture for the viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// FrameCapture writes rendered frames to PNG files.
type FrameCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewFrameCapture creates a capture handler writing into outputDir.
func NewFrameCapture(outputDir, prefix string) *FrameCapture {
	return &FrameCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Filename returns the path a capture of the given simulation step is
// written to.
func (fc *FrameCapture) Filename(step uint64) string {
	timestamp := fc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_step%06d.png", fc.prefix, timestamp, step)
	if fc.outputDir != "" {
		filename = filepath.Join(fc.outputDir, filename)
	}
	return filename
}

// CaptureFromPixels saves RGBA pixel data read back from OpenGL.
// pixels must hold width*height*4 bytes, bottom row first.
func (fc *FrameCapture) CaptureFromPixels(pixels []byte, width, height int, step uint64) (string, error) {
	img, err := FlipRows(pixels, width, height)
	if err != nil {
		return "", err
	}

	if fc.outputDir != "" {
		if err := os.MkdirAll(fc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := fc.Filename(step)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// FlipRows converts bottom-up RGBA rows into a top-down image.
func FlipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := range height {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}
