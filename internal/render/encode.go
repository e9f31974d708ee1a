package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"github.com/san-kum/matterdrop/internal/engine"
)

type Format int

const (
	FormatPNG Format = iota
	FormatWebP
	FormatSVG
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatSVG:
		return "svg"
	}
	return "unknown"
}

var ErrUnknownFormat = errors.New("render: unknown image format")

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	case ".svg":
		return FormatSVG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Encode writes a raster image. SVG output goes through WriteSVG instead.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s is not a raster format", ErrUnknownFormat, f)
}

// Save renders world to path in the format its extension names.
func Save(path string, world *engine.World, size engine.Vector, opts Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if f == FormatSVG {
		return WriteSVG(out, world, size, opts)
	}
	return Encode(out, Draw(world, size, opts), f)
}
