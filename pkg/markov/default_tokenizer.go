package markov

import (
	"regexp"
	"strings"
)

// DefaultTokenizer is the default implementation of the Tokenizer interface.
// It splits on whitespace and keeps punctuation attached to its word. A word
// is an End-Of-Chain (EOC) token when it matches the EOC regex.
type DefaultTokenizer struct {
	eocRegex *regexp.Regexp
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithEOCRegex sets the regex string used to decide whether a word ends a sentence.
// Default: `[.!?]$`
func WithEOCRegex(eocRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.eocRegex = regexp.MustCompile(eocRegex)
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		// A word ends a sentence when its last character is one of . ! ?
		eocRegex: regexp.MustCompile(`[.!?]$`),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Tokenize trims the line, splits it on whitespace and classifies each word.
func (t *DefaultTokenizer) Tokenize(line string) []Token {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	tokens := make([]Token, len(words))
	for i, word := range words {
		tokens[i] = Token{Text: word, EOC: t.eocRegex.MatchString(word)}
	}
	return tokens
}
