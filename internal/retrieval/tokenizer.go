package retrieval

import "strings"

// Tokenize lowercases the text and splits it on whitespace. No stemming,
// no stop words, no punctuation stripping: ranking quality comes from the
// BM25 statistics, not from linguistic preprocessing.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
