package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wpmtimer/internal/config"
	"github.com/verte-zerg/wpmtimer/internal/duration"
	"github.com/verte-zerg/wpmtimer/internal/prefs"
	"github.com/verte-zerg/wpmtimer/internal/store"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or reset stored preferences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print stored preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Delete stored preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsResetCmd,
	})
	return cmd
}

func runPrefsShowCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	p, err := prefs.Load(ctx, st)
	if err != nil {
		var perr *prefs.SettingsParseError
		if !errors.As(err, &perr) {
			return err
		}
		_, _ = color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: %v\n", perr)
	}
	updated, ok, err := st.UpdatedAt(ctx, prefs.Key)
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}
	var updatedAt *time.Time
	if ok {
		updatedAt = &updated
	}
	return writePrefs(cmd.OutOrStdout(), p, updatedAt)
}

func writePrefs(w io.Writer, p prefs.Preferences, updatedAt *time.Time) error {
	key := color.New(color.FgCyan)
	value := color.New(color.Bold)
	rows := []struct {
		name  string
		value string
	}{
		{"duration", describeDuration(p)},
		{"auto-advance", onOff(p.AutoAdvance)},
		{"show time", onOff(p.ShowTimeCursor)},
		{"show words", onOff(p.ShowWordsCursor)},
	}
	for _, row := range rows {
		if _, err := key.Fprintf(w, "%-13s", row.name); err != nil {
			return err
		}
		if _, err := value.Fprintln(w, row.value); err != nil {
			return err
		}
	}
	last := "never saved"
	if updatedAt != nil {
		last = updatedAt.Local().Format(time.DateTime)
	}
	_, err := color.New(color.Faint).Fprintf(w, "%-13s%s\n", "updated", last)
	return err
}

func describeDuration(p prefs.Preferences) string {
	if p.DurationSelect == duration.Custom {
		return fmt.Sprintf("custom (%q = %s)", p.DurationCustom.Value, duration.FormatMMSS(duration.Seconds(p.Minutes())))
	}
	return duration.FormatMMSS(duration.Seconds(p.Minutes()))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func runPrefsResetCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() { _ = st.Close() }()

	if err := prefs.Reset(context.Background(), st); err != nil {
		return err
	}
	_, err = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "preferences reset to defaults")
	return err
}
