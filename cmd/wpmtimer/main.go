// Package main provides the CLI entrypoint for wpmtimer.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wpmtimer/internal/chart"
	"github.com/verte-zerg/wpmtimer/internal/config"
	"github.com/verte-zerg/wpmtimer/internal/duration"
	"github.com/verte-zerg/wpmtimer/internal/logging"
	"github.com/verte-zerg/wpmtimer/internal/model"
	"github.com/verte-zerg/wpmtimer/internal/prefs"
	"github.com/verte-zerg/wpmtimer/internal/session"
	"github.com/verte-zerg/wpmtimer/internal/store"
	"github.com/verte-zerg/wpmtimer/internal/tui"
	"github.com/verte-zerg/wpmtimer/internal/wordpool"
)

const (
	defaultLogLevel  = "info"
	wordsLoadTimeout = 15 * time.Second
)

var (
	testWords       string
	testBuffer      int
	testDuration    string
	testCustom      string
	testAutoAdvance bool
	logLevel        string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wpmtimer",
		Short:         "Timed typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().StringVar(&testWords, "words", wordpool.DefaultSource, "word list: builtin, file path or http(s) URL")
	rootCmd.Flags().IntVar(&testBuffer, "buffer", session.DefaultBufferSize, "visible words")
	rootCmd.Flags().StringVar(&testDuration, "duration", "", "test duration: "+strings.Join(duration.Presets, ", ")+" or custom")
	rootCmd.Flags().StringVar(&testCustom, "custom", "", "custom duration in minutes (decimal comma allowed)")
	rootCmd.Flags().BoolVar(&testAutoAdvance, "auto-advance", false, "submit a word as soon as it matches")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logging.Setup(os.Stderr, level, !color.NoColor)
		return nil
	}

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newPrefsCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "words", &testWords, fileCfg.Test.Words)
	applyIntConfig(cmd, "buffer", &testBuffer, fileCfg.Test.Buffer)
	applyStringConfig(cmd, "duration", &testDuration, fileCfg.Test.Duration)
	applyStringConfig(cmd, "custom", &testCustom, fileCfg.Test.Custom)
	applyBoolConfig(cmd, "auto-advance", &testAutoAdvance, fileCfg.Test.AutoAdvance)
	if !cmd.Flags().Changed("words") && fileCfg.Test.Words == nil {
		testWords = resolveWordsSource(testWords, config.DefaultWordsPath())
	}

	cfg := model.Config{
		WordsSource:    testWords,
		BufferSize:     testBuffer,
		DurationSelect: testDuration,
		DurationCustom: testCustom,
		AutoAdvance:    testAutoAdvance,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := loadWords(ctx, cfg.WordsSource, wordsLoadTimeout)
	if err != nil {
		return wordsLoadError(cfg.WordsSource, err)
	}
	slog.Debug("word list loaded", "source", cfg.WordsSource, "words", pool.Len())

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Error("failed to close db", "err", cerr)
		}
	}()

	p, err := prefs.Load(ctx, st)
	if err != nil {
		var perr *prefs.SettingsParseError
		if !errors.As(err, &perr) {
			return err
		}
		slog.Warn("stored preferences ignored", "err", perr)
	}
	autoAdvanceSet := cmd.Flags().Changed("auto-advance") || fileCfg.Test.AutoAdvance != nil
	p = applyOverrides(p, cfg, autoAdvanceSet)

	level, _ := logging.ParseLevel(logLevel)
	previous := slog.Default()
	logFile, err := logging.SetupFile(config.DefaultLogPath(), level)
	if err != nil {
		slog.Warn("file logging disabled", "err", err)
	} else {
		defer func() {
			slog.SetDefault(previous)
			_ = logFile.Close()
		}()
	}

	m := tui.NewModel(tui.Options{
		Words:      pool,
		BufferSize: cfg.BufferSize,
		Prefs:      p,
		KV:         st,
		Theme:      fileCfg.Theme(),
		Chart:      chart.NewPlotter(os.Stdout, []string{"\x1b[33m", "\x1b[32m", "\x1b[31m"}),
		Logger:     slog.Default(),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadWords bounds the word list fetch so an unresponsive host fails with a
// LoadError instead of blocking startup.
func loadWords(ctx context.Context, source string, timeout time.Duration) (*wordpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return wordpool.Load(ctx, source)
}

// resolveWordsSource prefers a list written by `words import` over the
// built-in one when neither flag nor config names a source.
func resolveWordsSource(source, importedPath string) string {
	if source != wordpool.DefaultSource {
		return source
	}
	if info, err := os.Stat(importedPath); err == nil && !info.IsDir() {
		return importedPath
	}
	return source
}

// applyOverrides lets explicit flags and config values win over the stored
// control states for this run.
func applyOverrides(p prefs.Preferences, cfg model.Config, autoAdvanceSet bool) prefs.Preferences {
	if cfg.DurationSelect != "" {
		p.DurationSelect = cfg.DurationSelect
	}
	if cfg.DurationCustom != "" {
		p.DurationCustom = prefs.Custom(cfg.DurationCustom)
		if cfg.DurationSelect == "" {
			p.DurationSelect = duration.Custom
		}
	}
	if autoAdvanceSet {
		p.AutoAdvance = cfg.AutoAdvance
	}
	return p
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		slog.Info("config created", "path", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	theme := config.DefaultTheme()
	return fmt.Sprintf(`# wpmtimer configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# words = %q          # builtin, a file path or an http(s) URL
# buffer = %d                 # Visible words
# duration = %q                # One of %s, or "custom"
# custom = "1,5"                # Custom minutes, used when duration = "custom"
# auto-advance = false          # Submit a word as soon as it matches

[colors]
# accent = %q
# ok = %q
# err = %q
# pending = %q
# muted = %q

[icons]
# checkmark = "\\2713"
# cross = "\\2717"
`,
		wordpool.DefaultSource,
		session.DefaultBufferSize,
		duration.Presets[0],
		strings.Join(duration.Presets, ", "),
		theme.Accent,
		theme.OK,
		theme.Err,
		theme.Pending,
		theme.Muted,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.BufferSize <= 0 {
		return fmt.Errorf("--buffer must be > 0")
	}
	if cfg.DurationSelect != "" && !duration.Valid(cfg.DurationSelect) {
		return fmt.Errorf("--duration must be one of %s or %s", strings.Join(duration.Presets, ", "), duration.Custom)
	}
	if strings.TrimSpace(cfg.WordsSource) == "" {
		return fmt.Errorf("--words must not be empty")
	}
	return nil
}

func wordsLoadError(source string, err error) error {
	lines := []string{fmt.Sprintf("failed to load word list: %v", err)}
	var schemaErr *wordpool.SchemaError
	if errors.As(err, &schemaErr) {
		lines = append(lines, `expected a JSON object like {"words": ["alpha", "beta"]}`)
	}
	if source != wordpool.DefaultSource {
		lines = append(lines,
			fmt.Sprintf("source: %s", source),
			"Convert a plain list: wpmtimer words import --lang en <file>",
		)
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
