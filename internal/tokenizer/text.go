package tokenizer

import (
	"strings"
	"unicode"
)

// basicSplit lowercases text and splits it into words, with punctuation and
// CJK characters isolated as single-rune words. Control characters vanish;
// all whitespace collapses.
func basicSplit(text string) []string {
	var b strings.Builder
	b.Grow(len(text) + 16)
	for _, r := range text {
		switch {
		case isCJK(r):
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case r == 0 || r == unicode.ReplacementChar || unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	var words []string
	for _, w := range strings.Fields(b.String()) {
		words = append(words, splitPunct(w)...)
	}
	return words
}

// splitPunct cuts a word at punctuation, keeping each punctuation rune as
// its own word.
func splitPunct(w string) []string {
	var out []string
	var cur []rune
	for _, r := range w {
		if isPunct(r) {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = cur[:0]
			}
			out = append(out, string(r))
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

// isPunct treats every non-alphanumeric ASCII graphic as punctuation, plus
// anything Unicode classes as such.
func isPunct(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) || (r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

// isCJK reports whether r is a CJK ideograph. Hangul and kana are excluded:
// they form space-delimited words of their own.
func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF,
		r >= 0x3400 && r <= 0x4DBF,
		r >= 0x20000 && r <= 0x2A6DF,
		r >= 0x2A700 && r <= 0x2B73F,
		r >= 0x2B740 && r <= 0x2B81F,
		r >= 0x2B820 && r <= 0x2CEAF,
		r >= 0xF900 && r <= 0xFAFF,
		r >= 0x2F800 && r <= 0x2FA1F:
		return true
	}
	return false
}
