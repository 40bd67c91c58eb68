// Package snapshot renders a single frame without a window.
package snapshot

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/fosdem/trimix/lib/config"
	"github.com/fosdem/trimix/lib/gpu/softgpu"
	"github.com/fosdem/trimix/lib/metrics"
	"github.com/fosdem/trimix/lib/rendering"
	"github.com/fosdem/trimix/lib/theatre"
	"github.com/fosdem/trimix/lib/utils"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// Render draws one frame of cfg at the window size with the software
// driver and releases everything again.
func Render(cfg *config.Config) (*image.RGBA, error) {
	device, err := render(cfg)
	if err != nil {
		return nil, err
	}
	return device.Framebuffer(), nil
}

func render(cfg *config.Config) (*softgpu.Device, error) {
	t, err := theatre.Load(cfg)
	if err != nil {
		return nil, err
	}

	device := softgpu.New(cfg.Window.Width, cfg.Window.Height)
	driver := metrics.Instrument(device)
	err = t.Build(driver)
	if err != nil {
		return nil, err
	}
	defer t.Release()

	renderer := rendering.NewRenderer(driver, utils.ColourParse(cfg.BackgroundColour))
	renderer.Resize(cfg.Window.Width, cfg.Window.Height)
	renderer.DrawFrame(t.Units)
	if err := device.Err(); err != nil {
		// units whose program failed to link draw nothing; the rest of the
		// frame is still valid unless the build was meant to be strict
		if cfg.StrictBuild {
			return nil, fmt.Errorf("rendering failed: %w", err)
		}
		slog.Warn(fmt.Sprintf("incomplete frame: %s", err), slog.String("module", "snapshot"))
	}
	return device, nil
}

// Scale resizes img to width x height.
func Scale(img image.Image, width, height int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}

// WritePNG renders cfg and encodes it as PNG, scaled when width and height
// are non-zero.
func WritePNG(w io.Writer, cfg *config.Config, width, height int) error {
	device, err := render(cfg)
	if err != nil {
		return err
	}

	canvas := device.Canvas()
	if width > 0 && height > 0 && (width != cfg.Window.Width || height != cfg.Window.Height) {
		canvas = gg.NewContextForImage(Scale(canvas.Image(), width, height))
		defer func(c *gg.Context) {
			_ = c.Close()
		}(canvas)
	}
	return canvas.EncodePNG(w)
}
