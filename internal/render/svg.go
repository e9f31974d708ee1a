package render

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/matterdrop/internal/engine"
)

// SVG converts the world to a vector wireframe.
func SVG(world *engine.World, size engine.Vector, opts Options) string {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	width := size.X * opts.Scale
	height := size.Y * opts.Scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g transform="scale(%g)" stroke-width="%g">
`, width, height, width, height, hex(opts.Background), opts.Scale, opts.LineWidth/opts.Scale))

	if opts.Outline && !world.Bounds.Empty() {
		b := world.Bounds
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s"/>
`, b.Min.X, b.Min.Y, b.Width(), b.Height(), hex(boundsColor)))
	}

	for _, b := range world.Bodies() {
		c := hex(ColorFor(b))
		if b.Shape == engine.ShapeCircle {
			sb.WriteString(fmt.Sprintf(`<circle id="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="0.33" stroke="%s"/>
`, b.Label, b.Position.X, b.Position.Y, b.Radius, c, c))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<polygon id="%s" points="`, b.Label))
		for i, v := range b.Vertices() {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%.2f,%.2f", v.X, v.Y))
		}
		sb.WriteString(fmt.Sprintf(`" fill="%s" fill-opacity="0.33" stroke="%s"/>
`, c, c))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func WriteSVG(w io.Writer, world *engine.World, size engine.Vector, opts Options) error {
	_, err := io.WriteString(w, SVG(world, size, opts))
	return err
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
