package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wpmtimer/internal/model"
)

func sampleChart() model.Chart {
	return model.Chart{
		Labels: []int{2, 5, 9, 14},
		Series: []model.Series{
			{Name: "WPM", Values: []float64{30, 42, 40, 51}},
			{Name: "Correct words", Values: []float64{1, 2, 3, 3}},
			{Name: "Wrong words", Values: []float64{0, 0, 0, 1}},
		},
	}
}

func TestPlotterWrite(t *testing.T) {
	var buf bytes.Buffer
	p := &Plotter{Height: 4}
	require.NoError(t, p.Write(&buf, sampleChart(), 40))
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4+2)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "51"))
	assert.Contains(t, lines[4], "2s")
	assert.Contains(t, lines[4], "14s")
	assert.Contains(t, out, "Legend:")
	assert.Contains(t, out, "WPM (solid, left)")
	assert.Contains(t, out, "Wrong words (dotted, right)")
	assert.NotContains(t, out, colorReset)
}

func TestPlotterColors(t *testing.T) {
	p := &Plotter{Height: 3, Colors: []string{"\x1b[36m"}}
	out := p.Render(sampleChart(), 30)
	assert.Contains(t, out, "\x1b[36m")
}

func TestPlotterEmpty(t *testing.T) {
	p := &Plotter{}
	assert.Equal(t, "No samples recorded.\n", p.Render(model.Chart{}, 40))
}

func TestResample(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1}, resample([]float64{1}, 3))
	assert.Equal(t, []float64{1.5, 3.5}, resample([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{0, 1, 2}, resample([]float64{0, 2}, 3))
}

func TestSeriesScaleFlat(t *testing.T) {
	sc := seriesScale([]model.Series{{Values: []float64{0, 0}}})
	assert.Equal(t, scale{min: 0, max: 1}, sc)
}
