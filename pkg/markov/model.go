package markov

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrEmptyModel is returned by the generation functions when no word was
	// ever observed at the start of a sentence, so there is no first word to
	// pick. A model built from an empty or all-blank corpus always fails this way.
	ErrEmptyModel = errors.New("markov: model has no sentence starters")
	// ErrUnknownWord is returned by GenerateFrom when the seed word is not in the model.
	ErrUnknownWord = errors.New("markov: word not found in model")
)

// WordEntry holds everything the model knows about a single word.
type WordEntry struct {
	// Successors lists the distinct words seen directly after this one, in
	// the order they were first seen. It never contains the empty string.
	Successors []string
	StartCount int // times the word opened a sentence
	MidCount   int // times the word appeared inside a sentence
	EndCount   int // times the word closed a sentence
}

// Total returns the number of positional observations recorded for the word.
func (e WordEntry) Total() int {
	return e.StartCount + e.MidCount + e.EndCount
}

// addSuccessor records next once, keeping first-seen order.
func (e *WordEntry) addSuccessor(next string) {
	if next == "" || slices.Contains(e.Successors, next) {
		return
	}
	e.Successors = append(e.Successors, next)
}

// WordModel is the transition table produced by an Indexer. Once returned by
// Indexer.Model it is never modified, so it can be shared between goroutines
// and generation calls without locking.
type WordModel struct {
	entries  map[string]*WordEntry
	starters []string
}

func newWordModel() *WordModel {
	return &WordModel{entries: make(map[string]*WordEntry)}
}

// entry returns the entry for word, creating an empty one if necessary.
func (m *WordModel) entry(word string) *WordEntry {
	e, ok := m.entries[word]
	if !ok {
		e = &WordEntry{}
		m.entries[word] = e
	}
	return e
}

// freeze computes the starter list. Starters are kept in key order.
func (m *WordModel) freeze() {
	m.starters = m.starters[:0]
	for _, word := range slices.Sorted(maps.Keys(m.entries)) {
		if m.entries[word].StartCount > 0 {
			m.starters = append(m.starters, word)
		}
	}
}

// Len returns the number of distinct words in the model.
func (m *WordModel) Len() int {
	return len(m.entries)
}

// Entry returns a copy of the entry for word and whether the word is known.
func (m *WordModel) Entry(word string) (WordEntry, bool) {
	e, ok := m.entries[word]
	if !ok {
		return WordEntry{}, false
	}
	cp := *e
	cp.Successors = slices.Clone(e.Successors)
	return cp, true
}

// Starters returns the words that may begin a generated sentence, sorted.
func (m *WordModel) Starters() []string {
	return slices.Clone(m.starters)
}

// Words returns every word in the model, sorted.
func (m *WordModel) Words() []string {
	return slices.Sorted(maps.Keys(m.entries))
}

// Dump writes a human-readable listing of the model to w, one block per word
// in key order. It is meant for debugging small corpora.
func (m *WordModel) Dump(w io.Writer) error {
	for _, word := range m.Words() {
		e := m.entries[word]
		_, err := fmt.Fprintf(w, "Word: %s\nNext words: [%s]\nAppearance: Begin: %d, Middle: %d, End: %d\n",
			word, strings.Join(e.Successors, ", "), e.StartCount, e.MidCount, e.EndCount)
		if err != nil {
			return err
		}
	}
	return nil
}
