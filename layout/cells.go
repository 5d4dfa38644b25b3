package layout

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"seatmap/model"
)

// Surface units covered by one terminal cell. Terminal cells are roughly
// twice as tall as they are wide.
const (
	CellUnitsX = 10
	CellUnitsY = 20
)

type cell struct {
	ch    rune
	fg    color.RGBA
	bg    color.RGBA
	hasFg bool
	mark  bool
}

// Cells is a Surface backed by a grid of terminal cells.
type Cells struct {
	cols  int
	rows  int
	grid  []cell
	clear color.RGBA
}

func NewCells(cols, rows int) *Cells {
	c := &Cells{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the grid dimensions and blanks it.
func (c *Cells) Resize(cols, rows int) {
	c.cols = max(cols, 0)
	c.rows = max(rows, 0)
	c.grid = make([]cell, c.cols*c.rows)
	c.Clear(c.clear)
}

func (c *Cells) Dimensions() (cols, rows int) {
	return c.cols, c.rows
}

func (c *Cells) Size() (float64, float64) {
	return float64(c.cols * CellUnitsX), float64(c.rows * CellUnitsY)
}

// CellCenter maps a terminal cell to the surface point at its centre.
func (c *Cells) CellCenter(col, row int) model.Point {
	return model.Point{
		X: float64(col)*CellUnitsX + CellUnitsX/2,
		Y: float64(row)*CellUnitsY + CellUnitsY/2,
	}
}

func (c *Cells) Clear(bg color.RGBA) {
	c.clear = bg
	for i := range c.grid {
		c.grid[i] = cell{ch: ' ', bg: bg}
	}
}

func (c *Cells) FillRect(r Rect, fill color.RGBA, opacity float64) {
	c.eachPoint(r, func(p *cell, _ model.Point) {
		p.bg = Blend(p.bg, fill, opacity)
	})
}

func (c *Cells) StrokeRect(r Rect, stroke color.RGBA) {
	c0, r0 := cellOf(r.X, r.Y)
	c1, r1 := cellOf(r.X+r.W-1, r.Y+r.H-1)
	if c1 <= c0 || r1 <= r0 {
		return
	}
	for col := c0 + 1; col < c1; col++ {
		c.put(col, r0, '─', stroke)
		c.put(col, r1, '─', stroke)
	}
	for row := r0 + 1; row < r1; row++ {
		c.put(c0, row, '│', stroke)
		c.put(c1, row, '│', stroke)
	}
	c.put(c0, r0, '┌', stroke)
	c.put(c1, r0, '┐', stroke)
	c.put(c0, r1, '└', stroke)
	c.put(c1, r1, '┘', stroke)
}

// FillCircle paints the cells whose centre lies inside the circle. A
// circle smaller than a cell becomes a single dot glyph.
func (c *Cells) FillCircle(center model.Point, radius float64, fill color.RGBA) {
	box := Rect{X: center.X - radius, Y: center.Y - radius, W: 2 * radius, H: 2 * radius}
	rr := radius * radius
	var inside []*cell
	c.eachPoint(box, func(p *cell, at model.Point) {
		dx := at.X - center.X
		dy := at.Y - center.Y
		if dx*dx+dy*dy <= rr {
			inside = append(inside, p)
		}
	})
	if len(inside) <= 1 {
		col, row := cellOf(center.X, center.Y)
		c.mark(col, row, '●', fill)
		return
	}
	for _, p := range inside {
		p.ch = '█'
		p.fg = fill
		p.hasFg = true
		p.mark = true
	}
}

// Text writes left to right from the cell holding at. Cells holding a
// circle glyph keep it.
func (c *Cells) Text(at model.Point, text string, fg color.RGBA) {
	col, row := cellOf(at.X, at.Y)
	if row < 0 || row >= c.rows || col >= c.cols {
		return
	}
	text = ansi.Truncate(text, c.cols-col, "…")
	for _, ch := range text {
		if col >= 0 && !c.grid[row*c.cols+col].mark {
			c.put(col, row, ch, fg)
		}
		col++
	}
}

// String renders the grid with lipgloss styles, one line per row.
func (c *Cells) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle *cell
		flush := func() {
			if runStyle == nil || run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Background(lipgloss.Color(Hex(runStyle.bg)))
			if runStyle.hasFg {
				style = style.Foreground(lipgloss.Color(Hex(runStyle.fg)))
			}
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			p := &c.grid[row*c.cols+col]
			if runStyle == nil || p.bg != runStyle.bg || p.fg != runStyle.fg || p.hasFg != runStyle.hasFg {
				flush()
				runStyle = p
			}
			run.WriteRune(p.ch)
		}
		flush()
	}
	return b.String()
}

// Plain returns the grid characters without styling.
func (c *Cells) Plain() string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		runes := make([]rune, c.cols)
		for col := 0; col < c.cols; col++ {
			runes[col] = c.grid[row*c.cols+col].ch
		}
		lines[row] = string(runes)
	}
	return strings.Join(lines, "\n")
}

// At returns the character and foreground color of a cell.
func (c *Cells) At(col, row int) (rune, color.RGBA) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0, color.RGBA{}
	}
	p := c.grid[row*c.cols+col]
	return p.ch, p.fg
}

func (c *Cells) put(col, row int, ch rune, fg color.RGBA) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	p := &c.grid[row*c.cols+col]
	p.ch = ch
	p.fg = fg
	p.hasFg = true
}

func (c *Cells) mark(col, row int, ch rune, fg color.RGBA) {
	c.put(col, row, ch, fg)
	if col >= 0 && row >= 0 && col < c.cols && row < c.rows {
		c.grid[row*c.cols+col].mark = true
	}
}

// eachPoint visits cells whose centre lies inside r.
func (c *Cells) eachPoint(r Rect, fn func(p *cell, at model.Point)) {
	c0, r0 := cellOf(r.X, r.Y)
	c1, r1 := cellOf(r.X+r.W, r.Y+r.H)
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, c.cols-1), min(r1, c.rows-1)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			center := c.CellCenter(col, row)
			if center.X < r.X || center.X > r.X+r.W || center.Y < r.Y || center.Y > r.Y+r.H {
				continue
			}
			fn(&c.grid[row*c.cols+col], center)
		}
	}
}

func cellOf(x, y float64) (col, row int) {
	return int(math.Floor(x / CellUnitsX)), int(math.Floor(y / CellUnitsY))
}
