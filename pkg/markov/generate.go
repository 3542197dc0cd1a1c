package markov

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	maxWords int
	rng      *rand.Rand
	logger   *slog.Logger
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in Generate and GenerateFrom.
type GenerateOption func(*generateOptions)

// WithMaxWords caps the number of words in a generated sentence. When the cap
// is reached the words produced so far are returned. A value of 0 or less
// removes the cap, in which case a model whose words all have successors will
// keep walking until the context is cancelled.
func WithMaxWords(n int) GenerateOption {
	return func(o *generateOptions) { o.maxWords = n }
}

// WithRand sets the random source used to pick words. By default the global
// math/rand/v2 source is used. Tests pass a seeded source for repeatable output.
// A *rand.Rand is not safe for concurrent use, so don't share one between
// goroutines.
func WithRand(r *rand.Rand) GenerateOption {
	return func(o *generateOptions) { o.rng = r }
}

// WithLogger sets the logger used for generation. By default logs are discarded.
func WithLogger(logger *slog.Logger) GenerateOption {
	return func(o *generateOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		maxWords: 100,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// intN picks a uniform index in [0, n).
func (o *generateOptions) intN(n int) int {
	if o.rng != nil {
		return o.rng.IntN(n)
	}
	return rand.IntN(n)
}

// Generate walks the model from a uniformly chosen starter word, following
// uniformly chosen successors until it reaches a word with none. It returns
// the words joined by single spaces, or ErrEmptyModel when the model has no
// starters.
func (m *WordModel) Generate(ctx context.Context, opts ...GenerateOption) (string, error) {
	if len(m.starters) == 0 {
		return "", ErrEmptyModel
	}
	options := newGenerateOptions(opts)
	first := m.starters[options.intN(len(m.starters))]
	return m.walk(ctx, first, options)
}

// GenerateFrom is like Generate but begins with the given word instead of a
// random starter. The word need not be a starter, but it must be in the model.
func (m *WordModel) GenerateFrom(ctx context.Context, word string, opts ...GenerateOption) (string, error) {
	if len(m.starters) == 0 {
		return "", ErrEmptyModel
	}
	if _, ok := m.entries[word]; !ok {
		return "", fmt.Errorf("seed %q: %w", word, ErrUnknownWord)
	}
	return m.walk(ctx, word, newGenerateOptions(opts))
}

// walk contains the main loop for generating a sentence.
func (m *WordModel) walk(ctx context.Context, current string, options *generateOptions) (string, error) {
	var builder strings.Builder
	builder.WriteString(current)
	generated := 1

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if options.maxWords > 0 && generated >= options.maxWords {
			options.logger.DebugContext(ctx, "Generation stopped by reaching maxWords",
				slog.Int("max_words", options.maxWords),
				slog.String("last_word", current),
			)
			break
		}

		// Every word reachable by the walk was inserted while indexing.
		successors := m.entries[current].Successors
		if len(successors) == 0 { // Dead end
			options.logger.DebugContext(ctx, "Generation terminated due to dead-end",
				slog.String("last_word", current),
				slog.Int("generated_length", generated),
			)
			break
		}

		current = successors[options.intN(len(successors))]
		builder.WriteByte(' ')
		builder.WriteString(current)
		generated++
	}

	return builder.String(), nil
}
