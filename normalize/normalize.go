// Package normalize turns free-text place names and queries into the
// ASCII, lowercase, tokenized space that the rest of the resolver matches
// against.
package normalize

import (
	"regexp"
	"strings"

	anyascii "github.com/anyascii/go"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.Und)

// wordPattern approximates Unicode word-boundary splitting: runs of letters
// or digits. Applied after transliteration, so this only ever sees ASCII.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Normalize applies deterministic Unicode-to-ASCII transliteration
// (diacritic folding and script approximation) and lowercases the result.
// Every stored entity string and every incoming query token passes through
// this function, so matching always operates on an ASCII, lowercase space.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return lowerCaser.String(anyascii.Transliterate(s))
}

// Words splits s on Unicode word boundaries, discarding punctuation and
// whitespace runs. Used by ingestion to build the word index; the query
// parser tokenizes with its own offset-tracking scan that splits the same way.
func Words(s string) []string {
	return wordPattern.FindAllString(s, -1)
}

// WhitespaceWords splits s on runs of whitespace only, without discarding
// punctuation attached to a word. Ingestion uses this in addition to Words
// when building an entity's word set, per spec.md §4.1.
func WhitespaceWords(s string) []string {
	return strings.Fields(s)
}
