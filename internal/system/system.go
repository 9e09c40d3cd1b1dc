// Package system covers the desktop-level actions: volume and
// screenshots.
package system

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/itchyny/volume-go"
	"github.com/kbinani/screenshot"
)

const volumeStep = 10

type Control struct {
	// ShotDir is where screenshots land. Defaults to the working
	// directory when empty.
	ShotDir string
}

func (c *Control) VolumeUp() error {
	cur, err := volume.GetVolume()
	if err != nil {
		return fmt.Errorf("read volume: %w", err)
	}
	if err := volume.SetVolume(min(cur+volumeStep, 100)); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

func (c *Control) VolumeDown() error {
	cur, err := volume.GetVolume()
	if err != nil {
		return fmt.Errorf("read volume: %w", err)
	}
	if err := volume.SetVolume(max(cur-volumeStep, 0)); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

// TakeScreenshot captures the primary display to a timestamped PNG and
// returns its path.
func (c *Control) TakeScreenshot() (string, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return "", fmt.Errorf("no active display")
	}
	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return "", fmt.Errorf("capture screen: %w", err)
	}

	dir := c.ShotDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode screenshot: %w", err)
	}
	return path, nil
}
