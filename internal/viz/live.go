package viz

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/matterdrop/internal/engine"
	"github.com/san-kum/matterdrop/internal/metrics"
	"github.com/san-kum/matterdrop/internal/render"
	"github.com/san-kum/matterdrop/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	// canvas origin inside the view, from canvasStyle padding
	originCol = 2
	originRow = 1
)

type TickMsg time.Time

// Model is the Bubble Tea live view of one session. Mouse motion over the
// canvas drives the pointer ball.
type Model struct {
	sess    *sim.Session
	title   string
	fps     int
	canvas  *Canvas
	proj    Projection
	theme   Theme
	running bool
	budget  float64 // ms of simulated time owed to the engine

	energyHistory []float64
	bounces       int
	pointer       bool
	err           error
	status        string
	showHelp      bool
	snapshotDir   string
}

func NewModel(sess *sim.Session, title string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	c := NewCanvas(width, height)
	return Model{
		sess:          sess,
		title:         title,
		fps:           fps,
		canvas:        c,
		proj:          Fit(c, sess.Page.ClientWidth(), sess.Page.PageHeight()),
		theme:         Themes[0],
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		snapshotDir:   ".",
	}
}

// WithTheme returns m drawn in the named theme.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

// WithSnapshotDir sets where the s key writes WebP snapshots.
func (m Model) WithSnapshotDir(dir string) Model {
	m.snapshotDir = dir
	return m
}

func (m Model) Session() *sim.Session { return m.sess }
func (m Model) Running() bool         { return m.running }
func (m Model) Err() error            { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme)
		case "s":
			m.snapshot()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if m.showHelp {
			break
		}
		col, row := msg.X-originCol, msg.Y-originRow
		if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
			break
		}
		x, y := m.proj.Cell(col, row)
		m.sess.MoveMouse(x, y)
		m.pointer = true
	case TickMsg:
		if m.running {
			m.advance(1000 / float64(m.fps))
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs as many engine steps as fit in ms of wall time.
func (m *Model) advance(ms float64) {
	delta := m.sess.Runner.Delta
	m.budget += ms
	for m.budget >= delta {
		m.budget -= delta
		if err := m.sess.Step(); err != nil {
			m.err = err
			m.running = false
			m.budget = 0
			return
		}
		f := m.sess.Frame()
		m.bounces += f.Bounces
		m.energyHistory = append(m.energyHistory, metrics.FrameEnergy(f))
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
	}
	if errs := m.sess.TakeErrors(); len(errs) > 0 {
		m.status = errs[len(errs)-1].Error()
	}
}

func (m *Model) reset() {
	if err := m.sess.Reset(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.budget = 0
	m.bounces = 0
	m.pointer = false
	m.status = ""
	m.energyHistory = m.energyHistory[:0]
	m.proj = Fit(m.canvas, m.sess.Page.ClientWidth(), m.sess.Page.PageHeight())
}

func (m *Model) snapshot() {
	name := fmt.Sprintf("%s_%06d.webp", m.title, m.sess.Steps())
	path := filepath.Join(m.snapshotDir, name)
	size := engine.Vector{X: m.sess.Page.ClientWidth(), Y: m.sess.Page.PageHeight()}
	if err := render.Save(path, m.sess.Engine.World, size, render.DefaultOptions()); err != nil {
		m.status = "snapshot: " + err.Error()
		return
	}
	m.status = "saved " + path
}

// draw projects the page elements onto the canvas. When the page body has
// the debug class the whole engine world is drawn instead, walls and mouse
// ball included.
func (m *Model) draw() {
	m.canvas.Clear()
	if m.sess.Sync.Debug() {
		m.drawWorld()
		return
	}
	for _, t := range m.sess.Sync.Elements() {
		m.drawBody(t.Body)
	}
}

func (m *Model) drawWorld() {
	w := m.sess.Engine.World
	m.canvas.Pen(LayerBounds)
	if b := w.Bounds; !b.Empty() {
		x0, y0 := m.proj.Point(b.Min.X, b.Min.Y)
		x1, y1 := m.proj.Point(b.Max.X, b.Max.Y)
		m.canvas.DrawPolygon([][2]int{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}})
	}

	mouse := m.sess.Sync.MouseBall()
	for _, b := range w.Bodies() {
		if b != mouse {
			m.drawBody(b)
		}
	}

	if mouse != nil {
		m.canvas.Pen(LayerPointer)
		px, py := m.proj.Point(mouse.Position.X, mouse.Position.Y)
		m.canvas.DrawLine(px-2, py, px+2, py)
		m.canvas.DrawLine(px, py-2, px, py+2)
	}
}

func (m *Model) drawBody(b *engine.Body) {
	if b.IsStatic {
		m.canvas.Pen(LayerStatic)
	} else {
		m.canvas.Pen(LayerBody)
	}
	if b.Shape == engine.ShapeCircle {
		cx, cy := m.proj.Point(b.Position.X, b.Position.Y)
		m.canvas.DrawCircle(cx, cy, int(b.Radius*m.proj.Scale))
		return
	}
	verts := b.Vertices()
	pts := make([][2]int, len(verts))
	for i, v := range verts {
		pts[i][0], pts[i][1] = m.proj.Point(v.X, v.Y)
	}
	m.canvas.DrawPolygon(pts)
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme))

	var s strings.Builder
	title := strings.ToUpper(m.title)
	if m.sess.Sync.Debug() {
		title += " [DEBUG]"
	}
	s.WriteString(headerStyle.Render(title) + "\n")

	switch {
	case m.err != nil:
		msg := "STOPPED"
		if errors.Is(m.err, engine.ErrUnstable) {
			msg = "UNSTABLE"
		}
		s.WriteString(StatusError.Render(msg) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	opts := m.sess.Sync.Options()
	tti := m.sess.Engine.Timestamp / opts.TimeToInteraction
	mp := m.sess.Sync.Mouse()
	pointer := "scripted"
	if m.pointer {
		pointer = "mouse"
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.sess.Time())) + "\n")
	s.WriteString(labelStyle.Render("Elements") + valueStyle.Render(fmt.Sprintf("%d (+%d pending)", len(m.sess.Sync.Elements()), m.sess.Sync.Pending())) + "\n")
	s.WriteString(labelStyle.Render("Bounces") + valueStyle.Render(fmt.Sprintf("%d", m.bounces)) + "\n")
	s.WriteString(labelStyle.Render("Pointer") + valueStyle.Render(fmt.Sprintf("%.0f, %.0f (%s)", mp.X, mp.Y, pointer)) + "\n")
	s.WriteString(labelStyle.Render("Interactive") + ProgressBar(tti, 16) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle.Render(m.theme.Name) + "\n")
	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.status) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  S:Snapshot ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Mouse    - Move the pointer ball    ║
║  Space    - Pause/Resume simulation  ║
║  R        - Reset the page           ║
║  Q        - Quit                     ║
║  S        - Save a WebP snapshot     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view in the alternate screen with mouse tracking.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
