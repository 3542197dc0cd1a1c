package markov

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"testing"
	"testing/iotest"
)

func TestIndex(t *testing.T) {
	m := buildModel(t, "Hello world. Goodbye world.")

	hello, ok := m.Entry("Hello")
	if !ok {
		t.Fatal("expected 'Hello' to be indexed")
	}
	if hello.StartCount != 1 {
		t.Errorf("expected 'Hello' start count of 1, got %d", hello.StartCount)
	}
	if !reflect.DeepEqual(hello.Successors, []string{"world."}) {
		t.Errorf("expected 'Hello' successors [world.], got %v", hello.Successors)
	}

	world, _ := m.Entry("world.")
	if world.EndCount != 2 {
		t.Errorf("expected 'world.' end count of 2, got %d", world.EndCount)
	}
	if len(world.Successors) != 0 {
		t.Errorf("expected 'world.' to be a dead end, got successors %v", world.Successors)
	}

	if _, ok := m.Entry("world"); ok {
		t.Error("'world' without its period should not be a separate word")
	}

	expectedStarters := []string{"Goodbye", "Hello"}
	if got := m.Starters(); !reflect.DeepEqual(got, expectedStarters) {
		t.Errorf("expected starters %v, got %v", expectedStarters, got)
	}
}

func TestIndexPositions(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		opts     []IndexOption
		expected map[string]WordEntry
		starters []string
	}{
		{
			name:  "Successors keep first-seen order",
			lines: []string{"a b a c"},
			expected: map[string]WordEntry{
				"a": {Successors: []string{"b", "c"}, StartCount: 1, MidCount: 1},
				"b": {Successors: []string{"a"}, MidCount: 1},
				"c": {MidCount: 1},
			},
			starters: []string{"a"},
		},
		{
			name:  "One-word sentence links forward",
			lines: []string{"Hello. there friend."},
			expected: map[string]WordEntry{
				"Hello.":  {Successors: []string{"there"}, StartCount: 1, EndCount: 1},
				"there":   {Successors: []string{"friend."}, StartCount: 1},
				"friend.": {EndCount: 1},
			},
			starters: []string{"Hello.", "there"},
		},
		{
			name:  "Sentence start carries across lines",
			lines: []string{"The cat", "sat down."},
			expected: map[string]WordEntry{
				"The":   {Successors: []string{"cat"}, StartCount: 1},
				"cat":   {MidCount: 1},
				"sat":   {Successors: []string{"down."}, MidCount: 1},
				"down.": {EndCount: 1},
			},
			starters: []string{"The"},
		},
		{
			name:  "Line reset starts every line fresh",
			lines: []string{"The cat", "sat down."},
			opts:  []IndexOption{WithLineReset(true)},
			expected: map[string]WordEntry{
				"The":   {Successors: []string{"cat"}, StartCount: 1},
				"cat":   {MidCount: 1},
				"sat":   {Successors: []string{"down."}, StartCount: 1},
				"down.": {EndCount: 1},
			},
			starters: []string{"The", "sat"},
		},
		{
			name:  "Blank lines contribute nothing",
			lines: []string{"", "Go!", "   ", "\t"},
			expected: map[string]WordEntry{
				"Go!": {StartCount: 1, EndCount: 1},
			},
			starters: []string{"Go!"},
		},
		{
			name:  "Repeated transitions are stored once",
			lines: []string{"red fish. red fish. red fish."},
			expected: map[string]WordEntry{
				"red":   {Successors: []string{"fish."}, StartCount: 3},
				"fish.": {EndCount: 3},
			},
			starters: []string{"red"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Index(slices.Values(tc.lines), tc.opts...)
			if m.Len() != len(tc.expected) {
				t.Errorf("expected %d words, got %d (%v)", len(tc.expected), m.Len(), m.Words())
			}
			for word, want := range tc.expected {
				got, ok := m.Entry(word)
				if !ok {
					t.Errorf("expected %q to be indexed", word)
					continue
				}
				if len(got.Successors) == 0 {
					got.Successors = nil
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("entry %q = %+v, want %+v", word, got, want)
				}
			}
			if got := m.Starters(); !reflect.DeepEqual(got, tc.starters) {
				t.Errorf("expected starters %v, got %v", tc.starters, got)
			}
		})
	}
}

func TestIndexInvariants(t *testing.T) {
	corpus := []string{
		"It was the best of times, it was the worst of times.",
		"It was the age of wisdom; it was the age of foolishness!",
		"Was it? It was.",
		"",
		"the spring of hope, the winter of despair",
		"we had everything before us. We had nothing before us?",
	}
	m := Index(slices.Values(corpus))

	occurrences := make(map[string]int)
	for _, line := range corpus {
		for _, word := range strings.Fields(line) {
			occurrences[word]++
		}
	}

	starters := make(map[string]bool)
	for _, s := range m.Starters() {
		starters[s] = true
	}

	for _, word := range m.Words() {
		e, _ := m.Entry(word)
		if e.Total() < occurrences[word] {
			t.Errorf("%q: counts sum to %d, but the word occurs %d times", word, e.Total(), occurrences[word])
		}
		if e.Total() < 1 {
			t.Errorf("%q: indexed word has no observations", word)
		}
		if slices.Contains(e.Successors, "") {
			t.Errorf("%q: successors contain the empty string", word)
		}
		if (e.StartCount > 0) != starters[word] {
			t.Errorf("%q: start count %d disagrees with starter membership %v", word, e.StartCount, starters[word])
		}
		for _, next := range e.Successors {
			if _, ok := m.Entry(next); !ok {
				t.Errorf("%q: successor %q is not in the model", word, next)
			}
		}
	}
	if len(occurrences) != m.Len() {
		t.Errorf("expected %d distinct words, got %d", len(occurrences), m.Len())
	}
}

func TestIndexIsDeterministic(t *testing.T) {
	corpus := createBenchmarkCorpus()
	corpus = corpus[:min(200, len(corpus))]
	m1 := Index(slices.Values(corpus))
	m2 := Index(slices.Values(corpus))

	if !reflect.DeepEqual(m1.Words(), m2.Words()) {
		t.Fatal("repeated indexing produced different vocabularies")
	}
	for _, word := range m1.Words() {
		e1, _ := m1.Entry(word)
		e2, _ := m2.Entry(word)
		if !reflect.DeepEqual(e1, e2) {
			t.Errorf("%q: %+v != %+v", word, e1, e2)
		}
	}
	if !reflect.DeepEqual(m1.Starters(), m2.Starters()) {
		t.Error("repeated indexing produced different starters")
	}
}

func TestIndexerModelResets(t *testing.T) {
	ix := NewIndexer()
	ix.AddLine("first batch.")
	m1 := ix.Model()

	ix.AddLine("second batch.")
	m2 := ix.Model()

	if _, ok := m1.Entry("second"); ok {
		t.Error("a finished model must not see lines added afterwards")
	}
	if _, ok := m2.Entry("first"); ok {
		t.Error("a new model must not contain lines from the previous one")
	}
	if got := m2.Starters(); !reflect.DeepEqual(got, []string{"second"}) {
		t.Errorf("expected starters [second], got %v", got)
	}
}

func TestIndexerLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ix := NewIndexer(WithIndexLogger(logger))
	ix.AddLine("one fish two fish.")
	ix.Model()

	out := buf.String()
	if !strings.Contains(out, "Indexing completed") || !strings.Contains(out, "tokens_processed=4") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestIndexReader(t *testing.T) {
	ctx := context.Background()

	m, err := IndexReader(ctx, strings.NewReader("one fish two fish.\nred fish blue fish.\n"))
	if err != nil {
		t.Fatalf("IndexReader failed: %v", err)
	}
	if got := m.Starters(); !reflect.DeepEqual(got, []string{"one", "red"}) {
		t.Errorf("expected starters [one red], got %v", got)
	}

	readErr := errors.New("disk on fire")
	if _, err = IndexReader(ctx, iotest.ErrReader(readErr)); !errors.Is(err, readErr) {
		t.Errorf("expected reader error to be wrapped, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err = IndexReader(cancelled, strings.NewReader("a line.\n")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func BenchmarkIndex(b *testing.B) {
	corpus := createBenchmarkCorpus()
	var size int
	for _, line := range corpus {
		size += len(line) + 1
	}

	b.SetBytes(int64(size))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		Index(slices.Values(corpus))
	}
}
