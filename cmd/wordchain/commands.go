package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CTAG07/wordchain/pkg/markov"
)

func (a *app) newRunCmd() *cobra.Command {
	var (
		corpusName string
		maxWords   int
		start      string
	)
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Print random sentences until EXIT is entered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, err := a.loadModel(ctx, args, corpusName)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-words") {
				maxWords = a.config.MaxWords
			}
			opts := []markov.GenerateOption{markov.WithMaxWords(maxWords), markov.WithLogger(a.logger)}
			if start != "" {
				sentence, err := model.GenerateFrom(ctx, start, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, sentence)
				return nil
			}
			return a.interact(ctx, model, a.stdin, opts...)
		},
	}
	cmd.Flags().StringVar(&corpusName, "corpus", "", "use a stored document instead of a file")
	cmd.Flags().IntVar(&maxWords, "max-words", 100, "maximum words per sentence, 0 for no limit")
	cmd.Flags().StringVar(&start, "start", "", "print one sentence beginning with this word and exit")
	return cmd
}

func (a *app) newIngestCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Store a text file in the corpus database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := checkExtension(path, a.config.Extensions); err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open corpus file: %w", err)
			}
			defer func(file *os.File) {
				_ = file.Close()
			}(file)

			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := store.AddDocument(cmd.Context(), name, file)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Stored %d lines as %q\n", n, name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "document name, defaults to the file name")
	return cmd
}

func (a *app) newCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage stored documents",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			docs, err := store.Documents(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLINES\tCREATED")
			for _, doc := range docs {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", doc.Name, doc.Lines, doc.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	rm := &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			return store.RemoveDocument(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, rm)
	return cmd
}

func (a *app) newStatsCmd() *cobra.Command {
	var corpusName string
	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Show word model statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.loadModel(cmd.Context(), args, corpusName)
			if err != nil {
				return err
			}
			s := model.Stats()
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Words\t%d\n", s.Words)
			fmt.Fprintf(tw, "Starters\t%d\n", s.Starters)
			fmt.Fprintf(tw, "Transitions\t%d\n", s.Transitions)
			fmt.Fprintf(tw, "Dead ends\t%d\n", s.DeadEnds)
			fmt.Fprintf(tw, "Begin / Middle / End\t%d / %d / %d\n", s.StartTotal, s.MidTotal, s.EndTotal)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&corpusName, "corpus", "", "use a stored document instead of a file")
	return cmd
}

func (a *app) newDumpCmd() *cobra.Command {
	var corpusName string
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print every word with its successors and positions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.loadModel(cmd.Context(), args, corpusName)
			if err != nil {
				return err
			}
			return model.Dump(a.stdout)
		},
	}
	cmd.Flags().StringVar(&corpusName, "corpus", "", "use a stored document instead of a file")
	return cmd
}
