/*
Package markov builds a first-order word-transition model from a plain-text
corpus and walks it to produce random sentences.

Indexing records, for every whitespace-delimited word, the distinct words seen
directly after it and how often it appeared at the start, middle, or end of a
sentence. Words that have started a sentence at least once become the
candidate first words for generation. Trailing punctuation is part of a word's
identity, so "world" and "world." are different words.

A built WordModel is read-only and may be shared freely between callers.
*/
package markov
