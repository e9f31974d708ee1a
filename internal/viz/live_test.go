package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/page"
	"github.com/san-kum/matterdrop/internal/sim"
)

func newTestModel(t *testing.T, bodyClasses ...string) Model {
	t.Helper()
	scene := &page.Scene{
		Name: "live", Width: 400, Height: 200, BodyClasses: bodyClasses,
		Elements: []page.ElementSpec{
			{ID: "box", Classes: []string{"matter"}, Left: 100, Top: 20, Width: 40, Height: 40},
		},
	}
	sess, err := sim.NewSession(scene, dropdown.DefaultOptions(), sim.DefaultConfig())
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return NewModel(sess, "live", 30)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestTickSteps(t *testing.T) {
	m := newTestModel(t)
	if m.Init() == nil {
		t.Fatal("expected a tick command from Init")
	}

	m, cmd := update(m, TickMsg{})
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
	if m.Session().Steps() < 1 {
		t.Errorf("expected the engine to step, got %d steps", m.Session().Steps())
	}
	if len(m.energyHistory) != m.Session().Steps() {
		t.Errorf("expected one energy sample per step, got %d", len(m.energyHistory))
	}
}

func TestPauseAndReset(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(m, key(" "))
	if m.Running() {
		t.Fatal("expected space to pause")
	}
	m, _ = update(m, TickMsg{})
	if m.Session().Steps() != 0 {
		t.Errorf("expected no steps while paused, got %d", m.Session().Steps())
	}

	m, _ = update(m, key(" "))
	for i := 0; i < 5; i++ {
		m, _ = update(m, TickMsg{})
	}
	if m.Session().Steps() == 0 {
		t.Fatal("expected steps after resuming")
	}

	m, _ = update(m, key("r"))
	if m.Session().Steps() != 0 || len(m.energyHistory) != 0 {
		t.Errorf("expected reset to clear the session, got %d steps", m.Session().Steps())
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := update(m, key("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestMouseDrivesPointer(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(m, tea.MouseMsg{X: originCol + 10, Y: originRow + 5})
	wantX, wantY := m.proj.Cell(10, 5)
	got := m.Session().Sync.Mouse()
	if got.X != wantX || got.Y != wantY {
		t.Errorf("expected pointer at (%g, %g), got %v", wantX, wantY, got)
	}
	if !m.pointer {
		t.Error("expected the mouse to take over the pointer")
	}

	m, _ = update(m, tea.MouseMsg{X: 0, Y: 0})
	if m.Session().Sync.Mouse() != got {
		t.Error("expected motion outside the canvas to be ignored")
	}
}

func TestThemeKey(t *testing.T) {
	m := newTestModel(t).WithTheme("sunset")
	m, _ = update(m, key("t"))
	if m.theme.Name != NextTheme(ThemeSunset).Name {
		t.Errorf("expected the next theme, got %s", m.theme.Name)
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(m, TickMsg{})
	m, _ = update(m, TickMsg{})

	view := m.View()
	for _, want := range []string{"LIVE", "RUNNING", "Elements", "Bounces"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}

	m, _ = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected the help overlay")
	}
}

func TestSnapshotKey(t *testing.T) {
	dir := t.TempDir()
	m := newTestModel(t).WithSnapshotDir(dir)
	m, _ = update(m, key("s"))

	path := filepath.Join(dir, "live_000000.webp")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected a snapshot file: %v", err)
	}
	if !strings.HasPrefix(m.status, "saved") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func countLayer(c *Canvas, l Layer) int {
	n := 0
	for _, row := range c.Layers {
		for _, cell := range row {
			if cell == l {
				n++
			}
		}
	}
	return n
}

func TestDebugDrawsWorld(t *testing.T) {
	plain := newTestModel(t)
	plain, _ = update(plain, TickMsg{})
	plain.draw()
	if countLayer(plain.canvas, LayerBody) == 0 {
		t.Error("expected the element to be drawn")
	}
	if n := countLayer(plain.canvas, LayerBounds) + countLayer(plain.canvas, LayerStatic); n != 0 {
		t.Errorf("expected no walls without debug, got %d cells", n)
	}
	if strings.Contains(plain.View(), "[DEBUG]") {
		t.Error("unexpected debug marker")
	}

	dbg := newTestModel(t, "debug")
	dbg, _ = update(dbg, TickMsg{})
	dbg.draw()
	if countLayer(dbg.canvas, LayerBody) == 0 {
		t.Error("expected the element to be drawn in debug mode")
	}
	if countLayer(dbg.canvas, LayerBounds)+countLayer(dbg.canvas, LayerStatic) == 0 {
		t.Error("expected the walls to be drawn in debug mode")
	}
	if !strings.Contains(dbg.View(), "[DEBUG]") {
		t.Error("expected the debug marker in the header")
	}
}
