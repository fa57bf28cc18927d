package renderer

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/windmap/components"
)

// TermLayer is a captured frame of per-cell white coverage in [0,1].
type TermLayer struct {
	W, H  int
	Cells []float64
}

// CellSetter is the part of tcell.Screen the streak is drawn through.
type CellSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// TermSurface rasterizes trails into a character grid. Each cell covers
// CellW x CellH screen pixels; coverage blends source-over in white.
type TermSurface struct {
	W, H         int
	CellW, CellH float64

	cells []float64
	alpha float64
	stack []float64
}

var _ Surface[TermLayer] = (*TermSurface)(nil)

// NewTermSurface creates a cols x rows grid mapping cellW x cellH pixels
// onto each cell.
func NewTermSurface(cols, rows int, cellW, cellH float64) *TermSurface {
	return &TermSurface{
		W:     cols,
		H:     rows,
		CellW: cellW,
		CellH: cellH,
		cells: make([]float64, cols*rows),
		alpha: 1,
	}
}

// Resize changes the grid dimensions and clears it.
func (s *TermSurface) Resize(cols, rows int) {
	s.W, s.H = cols, rows
	s.cells = make([]float64, cols*rows)
}

func (s *TermSurface) Begin() {
	s.alpha = 1
	s.stack = s.stack[:0]
}

func (s *TermSurface) Clear() { clear(s.cells) }

func (s *TermSurface) Save() { s.stack = append(s.stack, s.alpha) }

func (s *TermSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.alpha = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *TermSurface) SetAlpha(a float64) { s.alpha = a }

// StrokeLine plots the segment with Bresenham's algorithm. Width is
// ignored at cell resolution; color contributes through its alpha only.
func (s *TermSurface) StrokeLine(from, to components.Vec2, _ float64, c color.NRGBA) {
	a := s.alpha * float64(c.A) / 255
	x0, y0 := int(math.Floor(from.X/s.CellW)), int(math.Floor(from.Y/s.CellH))
	x1, y1 := int(math.Floor(to.X/s.CellW)), int(math.Floor(to.Y/s.CellH))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		s.plot(x0, y0, a)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (s *TermSurface) End() {}

// Snapshot copies the grid into a new layer.
func (s *TermSurface) Snapshot() TermLayer {
	cells := make([]float64, len(s.cells))
	copy(cells, s.cells)
	return TermLayer{W: s.W, H: s.H, Cells: cells}
}

// At returns the coverage of a cell, 0 outside the grid.
func (s *TermSurface) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return 0
	}
	return s.cells[y*s.W+x]
}

func (s *TermSurface) plot(x, y int, a float64) {
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return
	}
	i := y*s.W + x
	s.cells[i] = a + s.cells[i]*(1-a)
}

// FlattenStreak blends the streak layers oldest first into one coverage
// grid of the given size.
func FlattenStreak(streak *StreakCompositor[TermLayer], cols, rows int) []float64 {
	out := make([]float64, cols*rows)
	streak.Each(func(l Layer[TermLayer]) {
		if l.Image.W != cols || l.Image.H != rows {
			return
		}
		for i, v := range l.Image.Cells {
			a := v * l.Opacity
			out[i] = a + out[i]*(1-a)
		}
	})
	return out
}

// DrawStreak writes the flattened streak to the screen as grey blocks.
// Cells below the threshold are left blank.
func DrawStreak(scr CellSetter, streak *StreakCompositor[TermLayer], cols, rows int) {
	flat := FlattenStreak(streak, cols, rows)
	for y := range rows {
		for x := range cols {
			v := flat[y*cols+x]
			if v < 0.02 {
				scr.SetContent(x, y, ' ', nil, tcell.StyleDefault)
				continue
			}
			level := int32(v * 255)
			col := tcell.NewRGBColor(level, level, level)
			scr.SetContent(x, y, '█', nil, tcell.StyleDefault.Foreground(col))
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
