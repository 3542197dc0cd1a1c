package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	config     *Config
	logger     *slog.Logger
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		// Restore default signal handling so a second Ctrl-C kills the process.
		<-ctx.Done()
		cancel()
	}()

	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree wired to the given streams.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "wordchain",
		Short:         "Generate random sentences from a text file",
		Long:          `wordchain learns which words follow which in a plain-text corpus and strings them together into new, random sentences.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", "./config.json", "path to the JSON configuration file")

	root.AddCommand(
		a.newRunCmd(),
		a.newIngestCmd(),
		a.newCorpusCmd(),
		a.newStatsCmd(),
		a.newDumpCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup() error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.config = config
	// Logs go to stderr so generated sentences on stdout stay clean.
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: config.Level()}))
	return nil
}
