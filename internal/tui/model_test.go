package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wpmtimer/internal/config"
	"github.com/verte-zerg/wpmtimer/internal/model"
	"github.com/verte-zerg/wpmtimer/internal/prefs"
	"github.com/verte-zerg/wpmtimer/internal/session"
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

type memKV map[string]string

func (m memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Put(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func (m memKV) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

type fakeChart struct{ calls int }

func (f *fakeChart) Render(c model.Chart, _ int) string {
	f.calls++
	return "CHART " + strings.Join(seriesNames(c), ",")
}

func seriesNames(c model.Chart) []string {
	names := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		names = append(names, s.Name)
	}
	return names
}

func newTestModel(t *testing.T, p prefs.Preferences) (*Model, memKV, *fakeChart) {
	t.Helper()
	kv := memKV{}
	ch := &fakeChart{}
	m := NewModel(Options{
		Words:      &cycleSource{words: []string{"ab", "cd"}},
		BufferSize: 4,
		Prefs:      p,
		KV:         kv,
		Theme:      config.DefaultTheme(),
		Chart:      ch,
	})
	return m, kv, ch
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, text string) {
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestFirstRuneStartsCountdown(t *testing.T) {
	m, _, _ := newTestModel(t, prefs.Defaults())
	require.Equal(t, session.Idle, m.Session().Phase())

	cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.NotNil(t, cmd)
	assert.Equal(t, session.Running, m.Session().Phase())
	assert.Equal(t, "a", m.Session().Typed())
	assert.Equal(t, 60, m.Session().SecondsLeft())
}

func TestPasteIsRejected(t *testing.T) {
	m, _, _ := newTestModel(t, prefs.Defaults())
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab"), Paste: true})
	assert.Equal(t, session.Idle, m.Session().Phase())
	assert.Equal(t, "", m.Session().Typed())
}

func TestSpaceSubmitsAndBackspaceDeletes(t *testing.T) {
	m, _, _ := newTestModel(t, prefs.Defaults())
	typeText(m, "ax")
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "a", m.Session().Typed())
	typeText(m, "b ")

	correct, wrong := m.Session().WordCounts()
	assert.Equal(t, 1, correct)
	assert.Equal(t, 0, wrong)
	assert.Equal(t, "cd", m.Session().Current())
	assert.Equal(t, model.Keystrokes{Total: 3, Correct: 1, Wrong: 2}, m.Session().Keystrokes())
}

func TestTabIsSwallowed(t *testing.T) {
	m, _, _ := newTestModel(t, prefs.Defaults())
	typeText(m, "a")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "a", m.Session().Typed())
}

func TestTogglesArePersisted(t *testing.T) {
	m, kv, _ := newTestModel(t, prefs.Defaults())
	press(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	press(m, tea.KeyMsg{Type: tea.KeyCtrlT})

	stored, err := prefs.Load(context.Background(), kv)
	require.NoError(t, err)
	assert.True(t, stored.AutoAdvance)
	assert.False(t, stored.ShowTimeCursor)
	assert.True(t, stored.ShowWordsCursor)
	assert.True(t, m.Session().AutoAdvance())
}

func TestAutoAdvanceSubmitsOnMatch(t *testing.T) {
	p := prefs.Defaults()
	p.AutoAdvance = true
	m, _, _ := newTestModel(t, p)
	typeText(m, "ab")
	assert.Equal(t, "cd", m.Session().Current())
	assert.Equal(t, "", m.Session().Typed())
}

func TestCycleDurationUpdatesPreview(t *testing.T) {
	m, kv, _ := newTestModel(t, prefs.Defaults())
	press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, "2", m.prefs.DurationSelect)
	assert.Equal(t, 120, m.Session().SecondsLeft())

	stored, err := prefs.Load(context.Background(), kv)
	require.NoError(t, err)
	assert.Equal(t, "2", stored.DurationSelect)
}

func TestCustomDurationInput(t *testing.T) {
	p := prefs.Defaults()
	p.DurationSelect = "10"
	m, kv, _ := newTestModel(t, p)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.True(t, m.editingCustom)
	typeText(m, "1,5")
	assert.Equal(t, session.Idle, m.Session().Phase())
	assert.Equal(t, 90, m.Session().SecondsLeft())

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editingCustom)
	stored, err := prefs.Load(context.Background(), kv)
	require.NoError(t, err)
	assert.Equal(t, prefs.Custom("1,5"), stored.DurationCustom)
}

func TestStaleTickIsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, prefs.Defaults())
	typeText(m, "a")
	press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	typeText(m, "a")

	m.Update(countdownTickMsg{gen: 1})
	assert.Equal(t, 60, m.Session().SecondsLeft())
	_, cmd := m.Update(countdownTickMsg{gen: 3})
	assert.Equal(t, 59, m.Session().SecondsLeft())
	assert.NotNil(t, cmd)
}

func TestFinishShowsSummaryAndDisablesInput(t *testing.T) {
	p := prefs.Defaults()
	p.DurationSelect = "custom"
	p.DurationCustom = prefs.Custom("0,02")
	m, _, ch := newTestModel(t, p)
	typeText(m, "ab cd")
	require.Equal(t, 1, m.Session().SecondsLeft())

	_, cmd := m.Update(countdownTickMsg{gen: 1})
	assert.Nil(t, cmd)
	require.Equal(t, session.Finished, m.Session().Phase())

	typeText(m, "x")
	assert.Equal(t, "", m.Session().Typed())

	view := m.View()
	assert.Contains(t, view, "Accuracy")
	assert.Contains(t, view, "100.00%")
	assert.NotContains(t, view, "CHART")

	typeText(m, "g")
	view = m.View()
	assert.Contains(t, view, "CHART WPM,Correct words,Wrong words")
	assert.Equal(t, 1, ch.calls)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, session.Idle, m.Session().Phase())
	assert.False(t, m.showChart)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "01:05 ━ 3 | 1", statusText(true, true, 65, 3, 1))
	assert.Equal(t, "01:05", statusText(true, false, 65, 3, 1))
	assert.Equal(t, "3 | 1", statusText(false, true, 65, 3, 1))
	assert.Equal(t, "", statusText(false, false, 65, 3, 1))
}

func TestViewShowsHeaderAndFooter(t *testing.T) {
	m, _, _ := newTestModel(t, prefs.Defaults())
	view := m.View()
	assert.Contains(t, view, "01:00")
	assert.Contains(t, view, "duration 1m")
	assert.Contains(t, view, "ctrl+r restart")
	assert.NotContains(t, view, "g chart")
}

func TestEscStopsRunningTest(t *testing.T) {
	m, _, _ := newTestModel(t, prefs.Defaults())
	typeText(m, "a")
	m.Update(countdownTickMsg{gen: 1})
	m.Update(countdownTickMsg{gen: 1})
	press(m, tea.KeyMsg{Type: tea.KeyEsc})

	require.Equal(t, session.Finished, m.Session().Phase())
	assert.Equal(t, 2, m.Session().Result().ElapsedSeconds)
	assert.Contains(t, m.View(), "g chart")
}
