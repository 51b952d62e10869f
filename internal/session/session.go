// Package session implements the typing test engine: word buffer, keystroke
// classification, countdown-driven lifecycle and derived metrics.
package session

import (
	"github.com/verte-zerg/wpmtimer/internal/duration"
	"github.com/verte-zerg/wpmtimer/internal/model"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	// Idle waits for the first keystroke.
	Idle Phase = iota
	// Running has an active countdown.
	Running
	// Finished rejects input until the next reset.
	Finished
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Listener receives session events. Callbacks run synchronously inside the
// call that caused them.
type Listener interface {
	Started(gen uint64, totalSeconds int)
	Submitted(entry model.HistoryEntry)
	Finished(result model.Result)
	Reset()
}

// NopListener ignores all events.
type NopListener struct{}

func (NopListener) Started(uint64, int) {}
func (NopListener) Submitted(model.HistoryEntry) {}
func (NopListener) Finished(model.Result) {}
func (NopListener) Reset() {}

// Options configures a session.
type Options struct {
	BufferSize  int
	Minutes     float64
	AutoAdvance bool
}

// Session is the state of one test attempt.
type Session struct {
	buffer     *Buffer
	classifier Classifier
	countdown  Countdown
	listener   Listener

	bufferSize  int
	minutes     float64
	autoAdvance bool

	phase        Phase
	typed        string
	keys         model.Keystrokes
	correctWords int
	wrongWords   int
	history      []model.HistoryEntry
	result       model.Result
}

// New returns a reset session drawing words from src.
func New(src WordSource, opts Options, listener Listener) *Session {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Minutes <= 0 {
		opts.Minutes = duration.Fallback
	}
	if listener == nil {
		listener = NopListener{}
	}
	s := &Session{
		buffer:      NewBuffer(src),
		listener:    listener,
		bufferSize:  opts.BufferSize,
		minutes:     opts.Minutes,
		autoAdvance: opts.AutoAdvance,
	}
	s.Reset()
	return s
}

// Reset cancels the countdown, clears counters and history, and refills the
// buffer.
func (s *Session) Reset() {
	s.countdown.Cancel()
	s.countdown.set(duration.Seconds(s.minutes))
	s.phase = Idle
	s.typed = ""
	s.keys = model.Keystrokes{}
	s.correctWords = 0
	s.wrongWords = 0
	s.history = nil
	s.result = model.Result{}
	s.classifier.Reset()
	s.buffer.Fill(s.bufferSize)
	s.listener.Reset()
}

// Input processes the full content of the input field after an edit and
// returns the classification of newly appended characters.
func (s *Session) Input(value string) []Class {
	if s.phase == Finished {
		return nil
	}
	if s.phase == Idle {
		if value == "" {
			s.typed = value
			s.classifier.Reset()
			return nil
		}
		s.start()
	}
	classes := s.classifier.Classify(s.buffer.Current(), value)
	for _, c := range classes {
		s.keys.Total++
		if c == Correct {
			s.keys.Correct++
		} else {
			s.keys.Wrong++
		}
	}
	s.typed = value
	if s.autoAdvance && value != "" && value == s.buffer.Current() {
		s.submit(false)
	}
	return classes
}

// Submit handles an explicit submission key. Empty input is ignored; input
// that does not equal the target is submitted as wrong.
func (s *Session) Submit() bool {
	if s.phase != Running || s.typed == "" {
		return false
	}
	s.submit(s.typed != s.buffer.Current())
	return true
}

// Tick advances the countdown for generation gen and reports whether another
// tick should be scheduled.
func (s *Session) Tick(gen uint64) bool {
	if s.phase != Running {
		return false
	}
	if s.countdown.Tick(gen) {
		s.finish(s.countdown.Total())
		return false
	}
	return s.countdown.Active() && gen == s.countdown.Generation()
}

// Stop ends a running test early.
func (s *Session) Stop() {
	if s.phase != Running {
		return
	}
	elapsed := s.countdown.Total() - s.countdown.Left()
	s.countdown.Cancel()
	s.finish(elapsed)
}

// SetDurationMinutes sets the duration used by the next start. While idle the
// countdown preview is updated too.
func (s *Session) SetDurationMinutes(minutes float64) {
	if minutes <= 0 {
		minutes = duration.Fallback
	}
	s.minutes = minutes
	if s.phase == Idle {
		s.countdown.set(duration.Seconds(minutes))
	}
}

// SetAutoAdvance toggles submission on exact match.
func (s *Session) SetAutoAdvance(on bool) {
	s.autoAdvance = on
}

// AutoAdvance reports whether auto-advance is on.
func (s *Session) AutoAdvance() bool { return s.autoAdvance }

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase { return s.phase }

// Typed returns the current input buffer.
func (s *Session) Typed() string { return s.typed }

// Words returns a copy of the visible words.
func (s *Session) Words() []string { return s.buffer.Words() }

// Current returns the target word.
func (s *Session) Current() string { return s.buffer.Current() }

// SecondsLeft returns the remaining countdown.
func (s *Session) SecondsLeft() int { return s.countdown.Left() }

// TotalSeconds returns the configured countdown length.
func (s *Session) TotalSeconds() int { return s.countdown.Total() }

// Keystrokes returns the keystroke counters.
func (s *Session) Keystrokes() model.Keystrokes { return s.keys }

// WordCounts returns the correct and wrong submission counters.
func (s *Session) WordCounts() (correct, wrong int) { return s.correctWords, s.wrongWords }

// History returns a copy of the submission history.
func (s *Session) History() []model.HistoryEntry {
	return append([]model.HistoryEntry(nil), s.history...)
}

// HadMismatch reports whether the current word has a typo.
func (s *Session) HadMismatch() bool { return s.classifier.HadMismatch() }

// Result returns the summary computed at finish.
func (s *Session) Result() model.Result { return s.result }

func (s *Session) start() {
	total := duration.Seconds(s.minutes)
	gen := s.countdown.Start(total)
	s.phase = Running
	s.listener.Started(gen, total)
}

func (s *Session) submit(forceWrong bool) {
	target := s.buffer.Current()
	correct := !forceWrong && s.typed == target
	if correct {
		s.correctWords++
	} else {
		s.wrongWords++
	}
	elapsed := s.countdown.Total() - s.countdown.Left()
	if elapsed < 0 {
		elapsed = 0
	}
	entry := model.HistoryEntry{
		Time:    elapsed,
		WPM:     WPM(s.keys.Correct, elapsed),
		Word:    target,
		Correct: correct,
	}
	s.history = append(s.history, entry)
	s.buffer.Advance()
	s.typed = ""
	s.classifier.Reset()
	s.listener.Submitted(entry)
}

func (s *Session) finish(elapsed int) {
	s.phase = Finished
	s.result = model.Result{
		WPM:            WPM(s.keys.Correct, elapsed),
		Keystrokes:     s.keys,
		Accuracy:       Accuracy(s.keys.Correct, s.keys.Wrong),
		CorrectWords:   s.correctWords,
		WrongWords:     s.wrongWords,
		ElapsedSeconds: elapsed,
		History:        s.History(),
	}
	s.listener.Finished(s.result)
}
