package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/wpmtimer/internal/config"
	"github.com/verte-zerg/wpmtimer/internal/wordpool"
)

var (
	importLang string
	importOut  string
)

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage word lists",
	}
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Convert a one-word-per-line list into a word list resource",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsImportCmd,
	}
	importCmd.Flags().StringVar(&importLang, "lang", "en", "language filter")
	importCmd.Flags().StringVar(&importOut, "out", "", "output path (default: "+config.DefaultWordsPath()+")")
	cmd.AddCommand(importCmd)
	return cmd
}

func runWordsImportCmd(_ *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open word list: %w", err)
	}
	defer func() { _ = in.Close() }()

	words, err := wordpool.Import(in, importLang)
	if err != nil {
		return err
	}
	out := importOut
	if out == "" {
		out = config.DefaultWordsPath()
	}
	if err := writeWordsFile(out, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	slog.Info("word list written", "path", out, "words", len(words))
	if out != config.DefaultWordsPath() {
		slog.Info("use it with --words or the [test] words config key", "path", out)
	}
	return nil
}

func writeWordsFile(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "words-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := wordpool.WriteJSON(tmpFile, words); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}
