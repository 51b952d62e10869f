package chart

import (
	"fmt"

	"github.com/verte-zerg/wpmtimer/internal/model"
)

// SummaryLines formats the result metrics as an aligned two-column table.
func SummaryLines(r model.Result) []string {
	rows := [][]string{
		{"WPM", fmt.Sprintf("%d", r.WPM)},
		{"Keystrokes", fmt.Sprintf("%d", r.Keystrokes.Correct+r.Keystrokes.Wrong)},
		{"Correct keys", fmt.Sprintf("%d", r.Keystrokes.Correct)},
		{"Wrong keys", fmt.Sprintf("%d", r.Keystrokes.Wrong)},
		{"Accuracy", fmt.Sprintf("%.2f%%", r.Accuracy)},
		{"Correct words", fmt.Sprintf("%d", r.CorrectWords)},
		{"Wrong words", fmt.Sprintf("%d", r.WrongWords)},
	}
	return Table([]Column{{}, {Align: AlignRight}}, rows, "  ")
}

// HistoryLines lists each submission with its icon, word and WPM.
func HistoryLines(history []model.HistoryEntry, check, cross string) []string {
	rows := make([][]string, 0, len(history))
	for _, h := range history {
		icon := cross
		if h.Correct {
			icon = check
		}
		rows = append(rows, []string{
			fmt.Sprintf("%ds", h.Time),
			icon,
			fmt.Sprintf("%q", h.Word),
			"━",
			fmt.Sprintf("WPM: %d", h.WPM),
		})
	}
	return Table([]Column{
		{Title: "Time", Align: AlignRight},
		{},
		{Title: "Word"},
		{},
		{},
	}, rows, " ")
}
