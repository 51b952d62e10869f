package tui

import (
	"github.com/verte-zerg/wpmtimer/internal/model"
	"github.com/verte-zerg/wpmtimer/internal/session"
)

// events turns session callbacks into model state and pending commands.
type events struct {
	m *Model
}

func (e events) Started(gen uint64, totalSeconds int) {
	e.m.logger.Info("test started", "seconds", totalSeconds)
	e.m.pending = append(e.m.pending, countdownTick(gen))
}

func (e events) Submitted(entry model.HistoryEntry) {
	e.m.logger.Debug("word submitted", "word", entry.Word, "correct", entry.Correct, "wpm", entry.WPM)
}

func (e events) Finished(result model.Result) {
	e.m.logger.Info("test finished",
		"wpm", result.WPM,
		"accuracy", result.Accuracy,
		"correct_words", result.CorrectWords,
		"wrong_words", result.WrongWords,
	)
	e.m.finishedChart = session.BuildChart(result.History)
	e.m.showChart = false
}

func (e events) Reset() {
	e.m.showChart = false
	e.m.finishedChart = model.Chart{}
}
