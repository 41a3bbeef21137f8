package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-nessie/nessie/display"
	"github.com/valerio/go-nessie/nessie/video"
)

// TakeSnapshot saves the frame to the working directory, for backend
// snapshot keys.
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if _, err := SaveFramePNGToDir(frame, "nessie_snapshot", ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameImage converts a frame to an image.RGBA.
func FrameImage(frame *video.FrameBuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, video.ScreenWidth, video.ScreenHeight))
	display.ToRGBA(frame, img.Pix[:0])
	return img
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory and returns the file path. An empty directory means the working
// directory.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	if err := SaveFramePNG(frame, filePath); err != nil {
		return "", err
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", video.ScreenWidth, video.ScreenHeight), "format", "PNG")
	return filePath, nil
}

// SaveFramePNG writes the frame to path.
func SaveFramePNG(frame *video.FrameBuffer, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, FrameImage(frame)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
