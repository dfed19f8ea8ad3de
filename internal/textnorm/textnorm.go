// Package textnorm holds the text helpers shared by moderation and search:
// Unicode normalization, lower-casing, diacritic folding and word-boundary
// aware matching for Vietnamese and English text.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFC returns s in Unicode normalization form C. Input typed on different
// keyboards can carry decomposed Vietnamese tone marks.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Lower returns the NFC-normalized, lower-cased form of s
func Lower(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Fold lower-cases s and strips diacritics, so "Quận Thủ Đức" becomes
// "quan thu duc".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	// đ has no decomposition
	return strings.NewReplacer("đ", "d", "Đ", "d").Replace(folded)
}

// RuneLen counts characters rather than bytes
func RuneLen(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// WordCount returns the number of whitespace-separated words in s
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// HasDiacritics reports whether s contains Vietnamese-specific letters.
func HasDiacritics(s string) bool {
	lowered := Lower(s)
	return Fold(lowered) != lowered
}

// ContainsWord checks if text contains word on word boundaries, so "nữ"
// does not match inside "nữa" and "ac" does not match inside "cách".
// Phrases are bounded at both ends too: "nha be" is not in "nha bep".
// Both arguments are expected to be lower-cased already.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}

	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], word)
		if idx == -1 {
			return false
		}
		start := offset + idx
		end := start + len(word)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		offset = end
	}
	return false
}

// ContainsAnyWord reports whether any of words appears in text on word boundaries
func ContainsAnyWord(text string, words ...string) bool {
	for _, w := range words {
		if ContainsWord(text, w) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
