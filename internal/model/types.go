// Package model defines shared data structures.
package model

// Config defines typing test settings.
type Config struct {
	WordsSource    string
	BufferSize     int
	DurationSelect string
	DurationCustom string
	AutoAdvance    bool
}

// HistoryEntry is a sample recorded at each word submission.
type HistoryEntry struct {
	Time    int    `json:"time"`
	WPM     int    `json:"wpm"`
	Word    string `json:"word"`
	Correct bool   `json:"correct"`
}

// Keystrokes counts classified characters.
type Keystrokes struct {
	Total   int
	Correct int
	Wrong   int
}

// Result summarizes a finished test.
type Result struct {
	WPM            int
	Keystrokes     Keystrokes
	Accuracy       float64
	CorrectWords   int
	WrongWords     int
	ElapsedSeconds int
	History        []HistoryEntry
}

// Series is a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// Chart is the input handed to a chart sink: one label per sample and any
// number of series sharing those labels.
type Chart struct {
	Labels []int
	Series []Series
}
