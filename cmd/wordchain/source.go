package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/CTAG07/wordchain/pkg/corpus"
	"github.com/CTAG07/wordchain/pkg/markov"
)

// ErrUnsupportedExtension is returned for corpus files whose extension is not allowed.
var ErrUnsupportedExtension = errors.New("unknown file extension")

// checkExtension accepts path only if its extension is one of allowed.
func checkExtension(path string, allowed []string) error {
	ext := filepath.Ext(path)
	if ext != "" && slices.Contains(allowed, ext) {
		return nil
	}
	return fmt.Errorf("%w %q, use only %s", ErrUnsupportedExtension, ext, strings.Join(allowed, " or "))
}

// indexOptions builds the markov indexing options from the configuration.
func (a *app) indexOptions() []markov.IndexOption {
	return []markov.IndexOption{
		markov.WithTokenizer(markov.NewDefaultTokenizer(markov.WithEOCRegex(a.config.EOCRegex))),
		markov.WithLineReset(a.config.LineResets),
		markov.WithIndexLogger(a.logger),
	}
}

// modelFromFile indexes a text file.
func (a *app) modelFromFile(ctx context.Context, path string) (*markov.WordModel, error) {
	if err := checkExtension(path, a.config.Extensions); err != nil {
		return nil, err
	}
	fmt.Fprintf(a.stdout, "Analysing text file: %s\n", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	return markov.IndexReader(ctx, file, a.indexOptions()...)
}

// modelFromCorpus indexes a document previously stored with the ingest command.
func (a *app) modelFromCorpus(ctx context.Context, name string) (*markov.WordModel, error) {
	store, closeStore, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()

	lines, err := store.Lines(ctx, name)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.stdout, "Analysing stored document: %s\n", name)
	return markov.Index(slices.Values(lines), a.indexOptions()...), nil
}

// loadModel builds a model from either a file argument or a stored document.
func (a *app) loadModel(ctx context.Context, args []string, corpusName string) (*markov.WordModel, error) {
	switch {
	case corpusName != "" && len(args) > 0:
		return nil, errors.New("give either a file or --corpus, not both")
	case corpusName != "":
		return a.modelFromCorpus(ctx, corpusName)
	case len(args) == 1:
		return a.modelFromFile(ctx, args[0])
	default:
		return nil, errors.New("please enter file name")
	}
}

// openStore opens the corpus database and returns a Store plus a function
// that releases both.
func (a *app) openStore() (*corpus.Store, func(), error) {
	db, err := initDB(a.config.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create corpus store: %w", err)
	}
	store.SetLogger(a.logger)
	return store, func() {
		store.Close()
		if err := db.Close(); err != nil {
			a.logger.Error("Failed to close database", "error", err)
		}
	}, nil
}
