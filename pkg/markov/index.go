package markov

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
)

// indexOptions Is used by the indexing functions to configure default options.
type indexOptions struct {
	tokenizer Tokenizer
	lineReset bool
	logger    *slog.Logger
}

// IndexOption is a function that configures indexing. It's used as a variadic
// argument in NewIndexer, Index and IndexReader.
type IndexOption func(*indexOptions)

// WithTokenizer replaces the DefaultTokenizer used to split lines.
func WithTokenizer(t Tokenizer) IndexOption {
	return func(o *indexOptions) {
		if t != nil {
			o.tokenizer = t
		}
	}
}

// WithLineReset controls whether every line begins a new sentence. By default
// a line break is a soft boundary: a sentence only starts fresh after a word
// that ends one, so prose wrapped over several lines is indexed as written.
// Enable this for corpora where each line is an independent sentence.
func WithLineReset(reset bool) IndexOption {
	return func(o *indexOptions) { o.lineReset = reset }
}

// WithIndexLogger sets the logger used for indexing. By default logs are discarded.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(o *indexOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Indexer builds a WordModel one line at a time. It is not safe for
// concurrent use; the model it returns is.
type Indexer struct {
	opts          indexOptions
	model         *WordModel
	startExpected bool
	lines         int
	tokens        int
}

// NewIndexer creates an Indexer with an empty model.
func NewIndexer(opts ...IndexOption) *Indexer {
	options := indexOptions{
		tokenizer: NewDefaultTokenizer(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Indexer{
		opts:          options,
		model:         newWordModel(),
		startExpected: true,
	}
}

// AddLine tokenizes a single line of corpus text and folds it into the model.
// Blank lines contribute nothing.
func (ix *Indexer) AddLine(line string) {
	ix.lines++
	tokens := ix.opts.tokenizer.Tokenize(line)
	if len(tokens) == 0 {
		return
	}
	if ix.opts.lineReset {
		ix.startExpected = true
	}

	for i, token := range tokens {
		var next string
		if i+1 < len(tokens) {
			next = tokens[i+1].Text
		}
		entry := ix.model.entry(token.Text)

		if ix.startExpected {
			entry.StartCount++
			// Even a one-word sentence links forward to whatever follows it.
			entry.addSuccessor(next)
			ix.startExpected = false
			if token.EOC {
				entry.EndCount++
				ix.startExpected = true
			}
		} else if token.EOC {
			entry.EndCount++
			ix.startExpected = true
		} else {
			entry.addSuccessor(next)
			entry.MidCount++
		}
	}
	ix.tokens += len(tokens)
}

// Model finalizes indexing and returns the finished model. The Indexer is
// reset afterwards, so later lines go into a new, independent model.
func (ix *Indexer) Model() *WordModel {
	model := ix.model
	model.freeze()

	ix.opts.logger.Info("Indexing completed",
		slog.Int("lines_processed", ix.lines),
		slog.Int("tokens_processed", ix.tokens),
		slog.Int("words", model.Len()),
		slog.Int("starters", len(model.starters)),
	)

	ix.model = newWordModel()
	ix.startExpected = true
	ix.lines = 0
	ix.tokens = 0
	return model
}

// Index builds a model from a sequence of lines. It never fails; an empty
// sequence yields an empty model.
func Index(lines iter.Seq[string], opts ...IndexOption) *WordModel {
	ix := NewIndexer(opts...)
	for line := range lines {
		ix.AddLine(line)
	}
	return ix.Model()
}

// IndexReader builds a model from the lines of r. Only read errors and
// context cancellation are reported; the text itself can never make
// indexing fail.
func IndexReader(ctx context.Context, r io.Reader, opts ...IndexOption) (*WordModel, error) {
	// maxLineLength keeps a single runaway line from exhausting memory
	const maxLineLength = 1 << 20

	ix := NewIndexer(opts...)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ix.AddLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return ix.Model(), nil
}
