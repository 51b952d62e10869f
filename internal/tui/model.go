// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wpmtimer/internal/chart"
	"github.com/verte-zerg/wpmtimer/internal/config"
	"github.com/verte-zerg/wpmtimer/internal/duration"
	"github.com/verte-zerg/wpmtimer/internal/model"
	"github.com/verte-zerg/wpmtimer/internal/prefs"
	"github.com/verte-zerg/wpmtimer/internal/session"
)

const (
	countdownInterval = time.Second
	statusInterval    = 75 * time.Millisecond
	contentRatio      = 0.70
)

// ChartSink turns a chart into printable text.
type ChartSink interface {
	Render(c model.Chart, width int) string
}

// Options wires a Model to its collaborators.
type Options struct {
	Words      session.WordSource
	BufferSize int
	Prefs      prefs.Preferences
	// KV persists preference changes; nil keeps them in memory only.
	KV     prefs.KV
	Theme  config.Theme
	Chart  ChartSink
	Logger *slog.Logger
}

type countdownTickMsg struct {
	gen uint64
}

type statusTickMsg struct{}

type styles struct {
	ok      lipgloss.Style
	err     lipgloss.Style
	pending lipgloss.Style
	current lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
}

func newStyles(t config.Theme) styles {
	return styles{
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.OK)),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Err)),
		pending: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Pending)),
		current: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
	}
}

// Model implements the Bubble Tea typing UI on top of a session.Session.
type Model struct {
	session *session.Session
	prefs   prefs.Preferences
	kv      prefs.KV
	theme   config.Theme
	styles  styles
	chart   ChartSink
	logger  *slog.Logger

	width  int
	height int

	// pending collects commands produced by session events during Update.
	pending []tea.Cmd

	status        string
	showChart     bool
	finishedChart model.Chart
	editingCustom bool
	customInput   textinput.Model
}

// NewModel constructs a typing TUI model.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ti := textinput.New()
	ti.Prompt = "custom minutes: "
	ti.Placeholder = "1,5"
	ti.CharLimit = 8

	m := &Model{
		prefs:       opts.Prefs,
		kv:          opts.KV,
		theme:       opts.Theme,
		styles:      newStyles(opts.Theme),
		chart:       opts.Chart,
		logger:      logger,
		customInput: ti,
	}
	m.session = session.New(opts.Words, session.Options{
		BufferSize:  opts.BufferSize,
		Minutes:     opts.Prefs.Minutes(),
		AutoAdvance: opts.Prefs.AutoAdvance,
	}, events{m: m})
	m.refreshStatus()
	return m
}

// Session exposes the engine the model drives.
func (m *Model) Session() *session.Session {
	return m.session
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return statusTick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case countdownTickMsg:
		if m.session.Tick(msg.gen) {
			m.pending = append(m.pending, countdownTick(msg.gen))
		}
		m.refreshStatus()
		return m, m.flush()
	case statusTickMsg:
		m.refreshStatus()
		return m, statusTick()
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.refreshStatus()
		return m, tea.Batch(cmd, m.flush())
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m.editingCustom {
		return m.handleCustomKey(msg)
	}
	if msg.Paste {
		m.logger.Debug("paste rejected", "runes", len(msg.Runes))
		return nil
	}
	switch msg.Type {
	case tea.KeyCtrlR:
		m.session.Reset()
		return nil
	case tea.KeyCtrlA:
		m.prefs.AutoAdvance = !m.prefs.AutoAdvance
		m.session.SetAutoAdvance(m.prefs.AutoAdvance)
		m.savePrefs()
		return nil
	case tea.KeyCtrlT:
		m.prefs.ShowTimeCursor = !m.prefs.ShowTimeCursor
		m.savePrefs()
		return nil
	case tea.KeyCtrlW:
		m.prefs.ShowWordsCursor = !m.prefs.ShowWordsCursor
		m.savePrefs()
		return nil
	case tea.KeyCtrlD:
		return m.cycleDuration()
	case tea.KeyEsc:
		m.session.Stop()
		return nil
	case tea.KeyTab:
		return nil
	}

	if m.session.Phase() == session.Finished {
		if msg.Type == tea.KeyRunes && string(msg.Runes) == "g" {
			m.showChart = !m.showChart
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		m.session.Input(dropLastRune(m.session.Typed()))
	case tea.KeySpace, tea.KeyEnter:
		m.session.Submit()
	case tea.KeyRunes:
		m.typeRunes(msg.Runes)
	}
	return nil
}

// typeRunes feeds runes one by one so each becomes its own input event.
func (m *Model) typeRunes(runes []rune) {
	for _, r := range runes {
		if m.session.Phase() == session.Finished {
			return
		}
		if r == ' ' {
			m.session.Submit()
			continue
		}
		m.session.Input(m.session.Typed() + string(r))
	}
}

func (m *Model) cycleDuration() tea.Cmd {
	m.prefs.DurationSelect = duration.Next(m.prefs.DurationSelect)
	m.session.SetDurationMinutes(m.prefs.Minutes())
	m.savePrefs()
	if m.prefs.DurationSelect != duration.Custom {
		return nil
	}
	m.editingCustom = true
	m.customInput.SetValue(m.prefs.DurationCustom.Value)
	m.customInput.CursorEnd()
	return m.customInput.Focus()
}

func (m *Model) handleCustomKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.editingCustom = false
		m.customInput.Blur()
		m.savePrefs()
		return nil
	}
	var cmd tea.Cmd
	m.customInput, cmd = m.customInput.Update(msg)
	m.prefs.DurationCustom = prefs.Custom(m.customInput.Value())
	m.session.SetDurationMinutes(m.prefs.Minutes())
	return cmd
}

func (m *Model) savePrefs() {
	if m.kv == nil {
		return
	}
	if err := prefs.Save(context.Background(), m.kv, m.prefs); err != nil {
		m.logger.Warn("failed to save preferences", "err", err)
	}
}

func (m *Model) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *Model) refreshStatus() {
	correct, wrong := m.session.WordCounts()
	m.status = statusText(m.prefs.ShowTimeCursor, m.prefs.ShowWordsCursor, m.session.SecondsLeft(), correct, wrong)
}

// statusText mirrors the floating cursor stats: time, words or both.
func statusText(showTime, showWords bool, secondsLeft, correct, wrong int) string {
	clock := duration.FormatMMSS(secondsLeft)
	words := fmt.Sprintf("%d | %d", correct, wrong)
	switch {
	case showTime && showWords:
		return clock + " ━ " + words
	case showTime:
		return clock
	case showWords:
		return words
	default:
		return ""
	}
}

func countdownTick(gen uint64) tea.Cmd {
	return tea.Tick(countdownInterval, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

func statusTick() tea.Cmd {
	return tea.Tick(statusInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

func dropLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := m.contentWidth()
	sections := []string{m.renderHeader()}
	if m.session.Phase() == session.Finished {
		sections = append(sections, m.renderSummary(contentWidth))
	} else {
		words := wrapStyledRunes(buildStyledRunes(m.session.Words(), m.session.Typed(), m.styles), contentWidth)
		sections = append(sections, words, m.renderInput())
	}
	if m.status != "" {
		sections = append(sections, m.styles.muted.Render(m.status))
	}
	if m.editingCustom {
		sections = append(sections, m.customInput.View())
	}
	content := strings.Join(sections, "\n\n")
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * contentRatio)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderHeader() string {
	clock := m.styles.accent.Render(duration.FormatMMSS(m.session.SecondsLeft()))
	dur := m.prefs.DurationSelect + "m"
	if m.prefs.DurationSelect == duration.Custom {
		dur = fmt.Sprintf("custom %sm", formatMinutes(m.prefs.Minutes()))
	}
	segments := []string{
		clock,
		m.styles.muted.Render("duration " + dur),
		m.toggle("auto", m.prefs.AutoAdvance),
		m.toggle("time", m.prefs.ShowTimeCursor),
		m.toggle("words", m.prefs.ShowWordsCursor),
	}
	return strings.Join(segments, "  ")
}

func (m *Model) toggle(name string, on bool) string {
	if on {
		return m.styles.ok.Render(m.theme.Checkmark + " " + name)
	}
	return m.styles.muted.Render(m.theme.Cross + " " + name)
}

func (m *Model) renderInput() string {
	style := m.styles.current
	if m.session.HadMismatch() {
		style = m.styles.err
	}
	return m.styles.muted.Render("> ") + style.Render(m.session.Typed())
}

func (m *Model) renderSummary(width int) string {
	r := m.session.Result()
	parts := []string{strings.Join(chart.SummaryLines(r), "\n")}
	if m.showChart && m.chart != nil {
		parts = append(parts, m.chart.Render(m.finishedChart, width))
	}
	if len(r.History) > 0 {
		parts = append(parts, strings.Join(chart.HistoryLines(r.History, m.theme.Checkmark, m.theme.Cross), "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderFooter() string {
	keys := []string{"ctrl+r restart", "ctrl+a auto", "ctrl+t time", "ctrl+w words", "ctrl+d duration"}
	switch m.session.Phase() {
	case session.Running:
		keys = append(keys, "esc stop")
	case session.Finished:
		keys = append(keys, "g chart")
	}
	keys = append(keys, "ctrl+c quit")
	return m.styles.muted.Render(strings.Join(keys, "  "))
}

func formatMinutes(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
