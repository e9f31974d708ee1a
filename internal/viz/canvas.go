package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Layer tags which kind of shape last touched a cell, for colouring.
type Layer uint8

const (
	LayerNone Layer = iota
	LayerBounds
	LayerStatic
	LayerBody
	LayerPointer
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Layers        [][]Layer
	pen           Layer
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Layers: make([][]Layer, h),
		pen:    LayerBody,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Layers[i] = make([]Layer, w)
	}
	c.Clear()
	return c
}

// Pen sets the layer recorded by subsequent drawing.
func (c *Canvas) Pen(l Layer) { c.pen = l }

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 by
// Height*4 sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if c.pen > c.Layers[row][col] {
		c.Layers[row][col] = c.pen
	}
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] == blank {
		c.Layers[row][col] = LayerNone
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Layers[i][j] = LayerNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPolygon outlines a closed polygon.
func (c *Canvas) DrawPolygon(pts [][2]int) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		c.DrawLine(a[0], a[1], b[0], b[1])
	}
}

func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	n := max(12, 4*r)
	pts := make([][2]int, n)
	for i := range pts {
		s, co := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = [2]int{cx + int(math.Round(co*float64(r))), cy + int(math.Round(s*float64(r)))}
	}
	c.DrawPolygon(pts)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each run of cells coloured by its layer.
func (c *Canvas) Render(t Theme) string {
	styles := map[Layer]lipgloss.Style{
		LayerNone:    lipgloss.NewStyle().Foreground(t.Muted),
		LayerBounds:  lipgloss.NewStyle().Foreground(t.Secondary),
		LayerStatic:  lipgloss.NewStyle().Foreground(t.Muted),
		LayerBody:    lipgloss.NewStyle().Foreground(t.Primary),
		LayerPointer: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Layers[i][j] == c.Layers[i][start] {
				continue
			}
			b.WriteString(styles[c.Layers[i][start]].Render(string(row[start:j])))
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Projection maps page pixels onto canvas sub-pixels with a uniform
// scale, keeping the page aspect ratio.
type Projection struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

func Fit(c *Canvas, pageW, pageH float64) Projection {
	cw, ch := float64(c.Width*2), float64(c.Height*4)
	if pageW <= 0 || pageH <= 0 {
		return Projection{Scale: 1}
	}
	s := math.Min(cw/pageW, ch/pageH)
	return Projection{
		Scale:   s,
		OffsetX: (cw - pageW*s) / 2,
		OffsetY: (ch - pageH*s) / 2,
	}
}

func (p Projection) Point(x, y float64) (int, int) {
	return int(math.Round(x*p.Scale + p.OffsetX)), int(math.Round(y*p.Scale + p.OffsetY))
}

// Cell maps a terminal cell back to the page point at its centre.
func (p Projection) Cell(col, row int) (float64, float64) {
	sx := float64(col*2) + 1
	sy := float64(row*4) + 2
	return (sx - p.OffsetX) / p.Scale, (sy - p.OffsetY) / p.Scale
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
