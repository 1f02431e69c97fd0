package tokenize

import (
	"regexp"
	"strings"
)

// An additive code is the letter E followed by digits and an optional
// trailing letter, e.g. E471, e322, E150d.
var (
	eCodePattern   = regexp.MustCompile(`(?i)^e\d+[a-z]?$`)
	parenGroups    = regexp.MustCompile(`[（(]([^）)]+)[）)]`)
	parentheticals = regexp.MustCompile(`[()（）][^()（）]*[()（）]`)
)

// ExtractParentheses returns the trimmed contents of every parenthetical
// group in text, e.g. "乳化劑(E471)" yields ["E471"].
func ExtractParentheses(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, m := range parenGroups.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// ExtractECodes collects additive codes from tokens, both standalone and
// inside parenthetical content, normalized to uppercase and de-duplicated
// in first-occurrence order.
func ExtractECodes(tokens []string) []string {
	var codes []string
	seen := make(map[string]struct{})

	add := func(s string) {
		code := strings.ToUpper(s)
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	for _, tok := range tokens {
		if eCodePattern.MatchString(tok) {
			add(tok)
		}
		for _, content := range ExtractParentheses(tok) {
			if eCodePattern.MatchString(content) {
				add(content)
			}
		}
	}
	return codes
}

// stripParentheticals removes parenthetical groups from a token, leaving
// the bare ingredient name.
func stripParentheticals(tok string) string {
	return parentheticals.ReplaceAllString(tok, "")
}
