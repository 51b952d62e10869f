package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wpmtimer/internal/model"
)

type cycleSource struct {
	words []string
	next  int
}

func (c *cycleSource) RandomWord() string {
	w := c.words[c.next%len(c.words)]
	c.next++
	return w
}

type recorder struct {
	started   []uint64
	submitted []model.HistoryEntry
	finished  []model.Result
	resets    int
}

func (r *recorder) Started(gen uint64, _ int) { r.started = append(r.started, gen) }
func (r *recorder) Submitted(entry model.HistoryEntry) { r.submitted = append(r.submitted, entry) }
func (r *recorder) Finished(result model.Result) { r.finished = append(r.finished, result) }
func (r *recorder) Reset() { r.resets++ }

func newTestSession(t *testing.T, words []string, opts Options) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(&cycleSource{words: words}, opts, rec), rec
}

func typeWord(s *Session, word string) {
	for i := range []rune(word) {
		s.Input(string([]rune(word)[:i+1]))
	}
}

func assertKeystrokeInvariant(t *testing.T, s *Session) {
	t.Helper()
	k := s.Keystrokes()
	assert.Equal(t, k.Total, k.Correct+k.Wrong)
}

func TestFirstErrorLatch(t *testing.T) {
	s, _ := newTestSession(t, []string{"cat"}, Options{BufferSize: 3})
	var got []Class
	for _, in := range []string{"c", "cx", "cxa", "cxat"} {
		got = append(got, s.Input(in)...)
	}
	assert.Equal(t, []Class{Correct, Wrong, Wrong, Wrong}, got)
	assert.True(t, s.HadMismatch())
	assert.Equal(t, model.Keystrokes{Total: 4, Correct: 1, Wrong: 3}, s.Keystrokes())
}

func TestOvertypingIsWrong(t *testing.T) {
	s, _ := newTestSession(t, []string{"ab"}, Options{BufferSize: 2})
	got := s.Input("abc")
	assert.Equal(t, []Class{Correct, Correct, Wrong}, got)
	assert.True(t, s.HadMismatch())
}

func TestDeletionIsInvisible(t *testing.T) {
	s, _ := newTestSession(t, []string{"cat"}, Options{BufferSize: 2})
	assert.Len(t, s.Input("c"), 1)
	assert.Len(t, s.Input("ca"), 1)
	assert.Empty(t, s.Input("c"))
	assert.Equal(t, []Class{Correct}, s.Input("ca"))
	assert.Equal(t, []Class{Correct}, s.Input("cat"))
	assert.Equal(t, model.Keystrokes{Total: 4, Correct: 4}, s.Keystrokes())
	assertKeystrokeInvariant(t, s)
}

func TestFirstInputStartsTimer(t *testing.T) {
	s, rec := newTestSession(t, []string{"go"}, Options{BufferSize: 2, Minutes: 1})
	assert.Equal(t, Idle, s.Phase())
	s.Input("")
	assert.Equal(t, Idle, s.Phase())
	s.Input("g")
	assert.Equal(t, Running, s.Phase())
	require.Len(t, rec.started, 1)
	assert.Equal(t, 60, s.TotalSeconds())
	assert.Equal(t, 60, s.SecondsLeft())
}

func TestSubmitKeepsBufferLength(t *testing.T) {
	s, _ := newTestSession(t, []string{"a", "b", "c", "d"}, Options{BufferSize: 5})
	before := s.Words()
	s.Input("a")
	require.True(t, s.Submit())
	after := s.Words()
	assert.Len(t, after, len(before))
	assert.Equal(t, before[1:], after[:len(after)-1])
	assert.Equal(t, "", s.Typed())
	assert.False(t, s.HadMismatch())
}

func TestSubmitEmptyIsNoop(t *testing.T) {
	s, rec := newTestSession(t, []string{"a"}, Options{BufferSize: 2})
	s.Input("a")
	s.Submit()
	assert.False(t, s.Submit())
	assert.Len(t, rec.submitted, 1)
}

func TestSubmitMismatchForcesWrong(t *testing.T) {
	s, _ := newTestSession(t, []string{"word"}, Options{BufferSize: 2})
	typeWord(s, "wor")
	require.True(t, s.Submit())
	correct, wrong := s.WordCounts()
	assert.Equal(t, 0, correct)
	assert.Equal(t, 1, wrong)
	h := s.History()
	require.Len(t, h, 1)
	assert.False(t, h[0].Correct)
	assert.Equal(t, "word", h[0].Word)
}

func TestAutoAdvanceSubmitsOnExactMatch(t *testing.T) {
	s, rec := newTestSession(t, []string{"ok", "no"}, Options{BufferSize: 3, AutoAdvance: true})
	typeWord(s, "ok")
	require.Len(t, rec.submitted, 1)
	assert.True(t, rec.submitted[0].Correct)
	assert.Equal(t, "", s.Typed())
	assert.Equal(t, "no", s.Current())

	s.SetAutoAdvance(false)
	typeWord(s, "no")
	assert.Len(t, rec.submitted, 1)
	assert.Equal(t, "no", s.Typed())
}

func TestCountdownFinishesOnce(t *testing.T) {
	s, rec := newTestSession(t, []string{"abcde"}, Options{BufferSize: 2, Minutes: 0.05})
	typeWord(s, "abcde")
	s.Submit()
	gen := rec.started[0]
	ticks := 0
	for s.Tick(gen) {
		ticks++
	}
	assert.Equal(t, 2, ticks)
	assert.Equal(t, Finished, s.Phase())
	assert.Equal(t, 0, s.SecondsLeft())
	require.Len(t, rec.finished, 1)
	assert.False(t, s.Tick(gen))
	assert.Len(t, rec.finished, 1)

	res := s.Result()
	assert.Equal(t, 3, res.ElapsedSeconds)
	assert.Equal(t, WPM(5, 3), res.WPM)
	assert.Equal(t, 100.0, res.Accuracy)
	assert.Nil(t, s.Input("x"))
	assert.Equal(t, 5, s.Keystrokes().Total)
}

func TestStaleTicksAfterResetAreIgnored(t *testing.T) {
	s, rec := newTestSession(t, []string{"a"}, Options{BufferSize: 2, Minutes: 1})
	s.Input("a")
	old := rec.started[0]
	s.Reset()
	s.Input("a")
	fresh := rec.started[1]
	assert.NotEqual(t, old, fresh)
	assert.False(t, s.Tick(old))
	assert.Equal(t, 60, s.SecondsLeft())
	assert.True(t, s.Tick(fresh))
	assert.Equal(t, 59, s.SecondsLeft())
}

func TestStopUsesElapsedTime(t *testing.T) {
	s, rec := newTestSession(t, []string{"abcde"}, Options{BufferSize: 2, Minutes: 1})
	typeWord(s, "abcde")
	for i := 0; i < 30; i++ {
		s.Tick(rec.started[0])
	}
	s.Stop()
	assert.Equal(t, Finished, s.Phase())
	assert.Equal(t, 30, s.Result().ElapsedSeconds)
	assert.Equal(t, 2, s.Result().WPM)
}

func TestResetIsIdempotent(t *testing.T) {
	s, _ := newTestSession(t, []string{"x", "y"}, Options{BufferSize: 4, Minutes: 2})
	typeWord(s, "xz")
	s.Submit()
	s.Reset()
	first := snapshot(s)
	s.Reset()
	second := snapshot(s)
	assert.Equal(t, first.phase, second.phase)
	assert.Equal(t, first.keys, second.keys)
	assert.Equal(t, first.history, second.history)
	assert.Equal(t, first.seconds, second.seconds)
	assert.Equal(t, first.bufLen, second.bufLen)
	assert.Equal(t, Idle, second.phase)
	assert.Equal(t, model.Keystrokes{}, second.keys)
	assert.Empty(t, second.history)
	assert.Equal(t, 120, second.seconds)
}

type sessionSnapshot struct {
	phase   Phase
	keys    model.Keystrokes
	history []model.HistoryEntry
	seconds int
	bufLen  int
}

func snapshot(s *Session) sessionSnapshot {
	return sessionSnapshot{
		phase:   s.Phase(),
		keys:    s.Keystrokes(),
		history: s.History(),
		seconds: s.SecondsLeft(),
		bufLen:  len(s.Words()),
	}
}

func TestSetDurationPreviewWhileIdle(t *testing.T) {
	s, _ := newTestSession(t, []string{"a"}, Options{BufferSize: 1})
	s.SetDurationMinutes(1.5)
	assert.Equal(t, 90, s.SecondsLeft())
	s.Input("a")
	assert.Equal(t, 90, s.TotalSeconds())
	s.SetDurationMinutes(3)
	assert.Equal(t, 90, s.TotalSeconds())
}

func TestEndToEndThreeCorrectWords(t *testing.T) {
	s, _ := newTestSession(t, []string{"one", "two", "three"}, Options{BufferSize: 53, Minutes: 1})
	for _, w := range []string{"one", "two", "three"} {
		typeWord(s, w)
		require.True(t, s.Submit())
		assert.Len(t, s.Words(), 53)
		assertKeystrokeInvariant(t, s)
	}
	correct, wrong := s.WordCounts()
	assert.Equal(t, 3, correct)
	assert.Equal(t, 0, wrong)
	h := s.History()
	require.Len(t, h, 3)
	for _, e := range h {
		assert.True(t, e.Correct)
	}
	assert.Equal(t, Running, s.Phase())
}

func TestHistoryWPMUsesElapsedFloor(t *testing.T) {
	s, rec := newTestSession(t, []string{"abcde"}, Options{BufferSize: 2, Minutes: 1})
	typeWord(s, "abcde")
	s.Submit()
	assert.Equal(t, 0, rec.submitted[0].Time)
	assert.Equal(t, 60, rec.submitted[0].WPM)
}
