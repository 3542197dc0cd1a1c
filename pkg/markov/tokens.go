package markov

// Token represents a single word of input text. EOC is set when the word
// closes a sentence (for example "done." or "really?").
type Token struct {
	Text string
	EOC  bool
}

// Tokenizer splits one line of corpus text into tokens. It lets the indexer
// stay independent of how words and sentence ends are recognised.
type Tokenizer interface {
	// Tokenize returns the tokens of line in order. Blank lines yield none.
	Tokenize(line string) []Token
}
