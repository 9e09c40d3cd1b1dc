// Package camera grabs single frames from the default webcam.
package camera

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

type Capturer struct {
	// DeviceID selects the camera, 0 being the default.
	DeviceID int
	// Dir is where captures land.
	Dir string
}

// Capture opens the camera, reads one frame and writes it to a
// timestamped JPEG, returning the path.
func (c *Capturer) Capture(ctx context.Context) (string, error) {
	cam, err := gocv.OpenVideoCapture(c.DeviceID)
	if err != nil {
		return "", fmt.Errorf("open camera %d: %w", c.DeviceID, err)
	}
	defer cam.Close()

	img := gocv.NewMat()
	defer img.Close()

	// The first frames off a cold sensor are often black; read a few.
	for i := 0; i < 5; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !cam.Read(&img) {
			return "", fmt.Errorf("camera %d produced no frame", c.DeviceID)
		}
	}
	if img.Empty() {
		return "", fmt.Errorf("camera %d produced an empty frame", c.DeviceID)
	}

	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("capture_%s.jpg", time.Now().Format("20060102_150405")))
	if ok := gocv.IMWrite(path, img); !ok {
		return "", fmt.Errorf("write %s failed", path)
	}
	return path, nil
}
