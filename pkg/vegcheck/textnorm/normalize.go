// Package textnorm canonicalizes raw label text before tokenization.
//
// Input typically comes from OCR or manual paste and mixes fullwidth and
// halfwidth punctuation, stray symbols and arbitrary line breaks. The
// normalizer reduces all of that to a single lowercase, comma-delimited
// stream that the tokenizer can split deterministically.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

// Fullwidth ASCII variants (U+FF01..U+FF5E) sit at a fixed offset from
// their halfwidth forms.
const fullwidthOffset = 0xfee0

// Newlines and period/colon separators become commas before the
// allow-list strip, which would otherwise swallow them. 。 (U+3002) and
// ： (U+FF1A) are included since the fullwidth fold does not reach U+3002
// and the rewrite runs before folding.
var separatorRuns = regexp.MustCompile(`[\r\n.。:：]+`)

// Normalize canonicalizes a single line of label text: fullwidth to
// halfwidth, lowercase, strip characters outside the ingredient allow-list,
// collapse whitespace. Empty or whitespace-only input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 0xff01 && r <= 0xff5e {
			r -= fullwidthOffset
		}
		r = unicode.ToLower(r)
		if allowed(r) {
			b.WriteRune(r)
		}
	}

	// Collapse whitespace runs and trim.
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeIngredients normalizes multi-line ingredient text. Newline runs
// and period/colon separators become commas first, so line-wrapped and
// period-delimited label text turns into one delimited stream the
// tokenizer can split.
func NormalizeIngredients(text string) string {
	if text == "" {
		return ""
	}
	return Normalize(separatorRuns.ReplaceAllString(text, ","))
}

// allowed reports whether a rune survives normalization. The allow-list
// keeps word characters, whitespace, the separator/paren characters the
// tokenizer splits on, hyphen, and CJK ideographs.
func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z',
		r >= 'A' && r <= 'Z',
		r >= '0' && r <= '9',
		r == '_':
		return true
	case unicode.IsSpace(r):
		return true
	case r >= 0x4e00 && r <= 0x9fa5:
		return true
	}
	switch r {
	case ',', '，', '、', ';', '；', '(', ')', '（', '）', '-':
		return true
	}
	return false
}
