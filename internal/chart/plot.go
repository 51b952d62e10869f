// Package chart renders summary charts and tables as terminal text.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/wpmtimer/internal/model"
)

type scale struct {
	min float64
	max float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultHeight     = 10
	minPlotWidth      = 10
	axisSeparator     = " │ "
	rightSeparator    = " │"
	colorReset        = "\x1b[0m"
	fallbackTermWidth = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

// Plotter draws a model.Chart with braille dots. The first series is scaled
// against the left axis; the remaining series share the right axis.
type Plotter struct {
	Height int
	// Colors are ANSI color sequences applied per series; empty disables color.
	Colors []string
}

// NewPlotter returns a plotter with ANSI colors when out is a terminal and
// NO_COLOR is unset.
func NewPlotter(out io.Writer, colors []string) *Plotter {
	p := &Plotter{Height: defaultHeight}
	if useColor(out) {
		p.Colors = colors
	}
	return p
}

// Render draws c into a block of text at most width cells wide.
func (p *Plotter) Render(c model.Chart, width int) string {
	var b strings.Builder
	if err := p.Write(&b, c, width); err != nil {
		return ""
	}
	return b.String()
}

// Write draws c to w.
func (p *Plotter) Write(w io.Writer, c model.Chart, width int) error {
	series := filterSeries(c.Series)
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "No samples recorded.")
		return err
	}
	height := p.Height
	if height <= 0 {
		height = defaultHeight
	}
	left, right := axisScales(series)
	leftLabels := axisLabels(left, height)
	rightLabels := axisLabels(right, height)
	leftWidth := maxLen(leftLabels)
	rightWidth := maxLen(rightLabels)
	if width <= 0 {
		width = TerminalWidth()
	}
	plotWidth := width - leftWidth - len([]rune(axisSeparator)) - len([]rune(rightSeparator)) - rightWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}

	cells := make([][][]uint8, len(series))
	for si, s := range series {
		cells[si] = makeCells(height, plotWidth)
		sc := left
		if si > 0 {
			sc = right
		}
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range resample(s.Values, plotWidth) {
			px := x * 2
			py := valueToRow(v, sc, height*4)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setDot(cells[si], dx, dy)
					}
				})
			} else {
				setDot(cells[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", leftWidth, leftLabels[y], axisSeparator)
		for x := 0; x < plotWidth; x++ {
			mask, idx := composeCell(cells, x, y)
			ch := rune(0x2800 + int(mask))
			if idx >= 0 && len(p.Colors) > 0 {
				row.WriteString(p.Colors[idx%len(p.Colors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		fmt.Fprintf(&row, "%s%s", rightSeparator, rightLabels[y])
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), " ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, timeAxis(c.Labels, leftWidth+len([]rune(axisSeparator)), plotWidth)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, p.legend(series))
	return err
}

func (p *Plotter) legend(series []model.Series) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		axis := "left"
		if i > 0 {
			axis = "right"
		}
		label := fmt.Sprintf("%c %s (%s, %s)", rune(0x2801), s.Name, lineStyles[i%len(lineStyles)].name, axis)
		if len(p.Colors) > 0 {
			label = p.Colors[i%len(p.Colors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func timeAxis(labels []int, indent, width int) string {
	if len(labels) == 0 {
		return ""
	}
	first := fmt.Sprintf("%ds", labels[0])
	last := fmt.Sprintf("%ds", labels[len(labels)-1])
	gap := width - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", indent) + first + strings.Repeat("─", gap) + last + "  time"
}

func axisScales(series []model.Series) (left, right scale) {
	left = seriesScale(series[:1])
	if len(series) > 1 {
		right = seriesScale(series[1:])
	} else {
		right = left
	}
	return left, right
}

func seriesScale(series []model.Series) scale {
	sc := scale{min: math.Inf(1), max: math.Inf(-1)}
	for _, s := range series {
		for _, v := range s.Values {
			sc.min = math.Min(sc.min, v)
			sc.max = math.Max(sc.max, v)
		}
	}
	if math.IsInf(sc.min, 1) {
		return scale{min: 0, max: 1}
	}
	if sc.min > 0 {
		sc.min = 0
	}
	if sc.max-sc.min < 1e-9 {
		sc.max = sc.min + 1
	}
	return sc
}

func axisLabels(sc scale, height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatTick(sc.max)
	if height > 2 {
		labels[height/2] = formatTick((sc.max + sc.min) / 2)
	}
	if height > 1 {
		labels[height-1] = formatTick(sc.min)
	}
	return labels
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func maxLen(values []string) int {
	n := 0
	for _, v := range values {
		if l := len([]rune(v)); l > n {
			n = l
		}
	}
	return n
}

func filterSeries(series []model.Series) []model.Series {
	out := make([]model.Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// TerminalWidth returns the stdout width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	idx := -1
	for i, cells := range seriesCells {
		if y >= len(cells) || x >= len(cells[y]) || cells[y][x] == 0 {
			continue
		}
		if idx == -1 {
			idx = i
		}
		mask |= cells[y][x]
	}
	return mask, idx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func valueToRow(v float64, sc scale, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - sc.min) / (sc.max - sc.min)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	if row < 0 {
		return 0
	}
	if row >= rows {
		return rows - 1
	}
	return row
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// setDot sets the braille dot at sub-cell position (x, y); each cell is
// two dots wide and four tall.
func setDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= dotMasks[x%2][y%4]
}

var dotMasks = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}
