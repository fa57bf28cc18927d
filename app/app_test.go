package app

import (
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/field"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// testConfig returns defaults shrunk to a small screen and field.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Screen.Width = 160
	cfg.Screen.Height = 120
	cfg.Field.Synthetic.Cols = 16
	cfg.Field.Synthetic.Rows = 12
	return cfg
}

func testGrid(t *testing.T, cfg *config.Config) *field.Grid {
	t.Helper()
	g, err := LoadField(cfg.Field)
	if err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	return g
}

// uniformGrid returns a 4x4 eastward field over [0,10]x[0,10].
func uniformGrid(t *testing.T) *field.Grid {
	t.Helper()
	u := make([]float64, 16)
	v := make([]float64, 16)
	for i := range u {
		u[i] = 4
	}
	g, err := field.New(u, v, 4, 4, components.GeoPoint{}, components.GeoPoint{Lon: 10, Lat: 10})
	if err != nil {
		t.Fatalf("building grid: %v", err)
	}
	return g
}

// nopSurface hands out sequential layer ids.
type nopSurface struct{ next int }

func (s *nopSurface) Begin() {}
func (s *nopSurface) Clear() {}
func (s *nopSurface) Save() {}
func (s *nopSurface) Restore() {}
func (s *nopSurface) SetAlpha(float64) {}
func (s *nopSurface) StrokeLine(_, _ components.Vec2, _ float64, _ color.NRGBA) {}
func (s *nopSurface) End() {}
func (s *nopSurface) Snapshot() int {
	s.next++
	return s.next
}

// mockScreen records the last content written to each cell.
type mockScreen struct {
	w, h  int
	cells map[[2]int]rune
	shows int
}

func newMockScreen(w, h int) *mockScreen {
	return &mockScreen{w: w, h: h, cells: make(map[[2]int]rune)}
}

func (m *mockScreen) SetContent(x, y int, primary rune, _ []rune, _ tcell.Style) {
	m.cells[[2]int{x, y}] = primary
}

func (m *mockScreen) Size() (int, int) { return m.w, m.h }

func (m *mockScreen) Show() { m.shows++ }

func (m *mockScreen) row(y int) string {
	out := make([]rune, m.w)
	for x := range m.w {
		out[x] = m.cells[[2]int{x, y}]
	}
	return string(out)
}
