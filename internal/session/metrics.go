package session

import (
	"math"

	"github.com/verte-zerg/wpmtimer/internal/model"
)

// WPM computes words per minute from correct keystrokes, five characters per
// word. Elapsed time is floored at one second.
func WPM(correct, elapsedSeconds int) int {
	minutes := math.Max(float64(elapsedSeconds)/60, 1.0/60)
	return int(math.Round((float64(correct) / 5) / minutes))
}

// Accuracy returns the share of correct keystrokes in percent, or 0 when
// nothing was typed.
func Accuracy(correct, wrong int) float64 {
	total := correct + wrong
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// BuildChart derives the summary chart from history: WPM per entry and the
// running totals of correct and wrong words.
func BuildChart(history []model.HistoryEntry) model.Chart {
	labels := make([]int, len(history))
	wpm := make([]float64, len(history))
	right := make([]float64, len(history))
	wrong := make([]float64, len(history))
	var nRight, nWrong int
	for i, h := range history {
		labels[i] = h.Time
		wpm[i] = float64(h.WPM)
		if h.Correct {
			nRight++
		} else {
			nWrong++
		}
		right[i] = float64(nRight)
		wrong[i] = float64(nWrong)
	}
	return model.Chart{
		Labels: labels,
		Series: []model.Series{
			{Name: "WPM", Values: wpm},
			{Name: "Correct words", Values: right},
			{Name: "Wrong words", Values: wrong},
		},
	}
}
