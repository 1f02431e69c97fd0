// Package tokenize splits normalized label text into ingredient candidate
// tokens and extracts standardized additive codes (E-numbers).
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultNoiseKeywords are label-metadata terms that mark a token as OCR
// noise rather than an ingredient: product info, net weight, dates,
// manufacturer details, allergen notices, nutrition-facts vocabulary,
// storage instructions and units.
var DefaultNoiseKeywords = []string{
	"品名", "商品", "產品", "重量", "淨重", "容量", "內容量",
	"有效日期", "保存期限", "製造日期", "保存方式", "保存方法",
	"原產地", "產地", "製造", "公司", "廠商", "地址", "電話",
	"過敏原", "過敏者", "應避免",
	"營養標示", "每一份量", "熱量", "蛋白質", "脂肪", "碳水化合物",
	"飽和脂肪", "反式脂肪",
	"請保存", "避免", "開封後", "密封", "儘早食用", "陰涼", "乾燥",
	"大卡", "公克", "毫克", "西元年",
}

// Tokenizer splits ingredient text and filters out label noise.
type Tokenizer struct {
	noise []string
}

// New creates a tokenizer with the given noise-keyword list. Tokens
// containing any keyword are dropped entirely. The list is copied so
// AddKeyword never mutates the caller's slice.
func New(noiseKeywords []string) *Tokenizer {
	return &Tokenizer{noise: append([]string(nil), noiseKeywords...)}
}

// Default creates a tokenizer with the built-in noise-keyword list.
func Default() *Tokenizer {
	return New(DefaultNoiseKeywords)
}

// AddKeyword adds a noise keyword.
func (t *Tokenizer) AddKeyword(word string) {
	t.noise = append(t.noise, word)
}

// TokenData is the tokenizer output consumed by the classifier: general
// ingredient tokens plus additive codes extracted from the same text.
type TokenData struct {
	Tokens []string
	ECodes []string
}

// Tokenize splits text into de-duplicated ingredient candidate tokens.
// Consecutive delimiters collapse to a single split point; candidates are
// cleaned and filtered before dedup, which preserves first-occurrence order.
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	raw := strings.FieldsFunc(text, isDelimiter)

	var tokens []string
	seen := make(map[string]struct{}, len(raw))
	for _, tok := range raw {
		tok = cleanToken(tok)
		if !t.isValidIngredient(tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// WithECodes runs the full tokenization: general tokens plus extracted
// additive codes. Bare code tokens are removed from the token stream. A
// token whose parenthetical content resolves to a code is dropped entirely
// (the qualifier word is redundant once its code is extracted); otherwise
// the parenthetical is stripped and the bare name kept.
func (t *Tokenizer) WithECodes(text string) TokenData {
	tokens := t.Tokenize(text)
	eCodes := ExtractECodes(tokens)

	codeSet := make(map[string]struct{}, len(eCodes))
	for _, c := range eCodes {
		codeSet[c] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if _, ok := codeSet[strings.ToUpper(tok)]; ok {
			continue
		}

		if parenContent := ExtractParentheses(tok); len(parenContent) > 0 {
			hasCode := false
			for _, content := range parenContent {
				if eCodePattern.MatchString(content) {
					hasCode = true
					break
				}
			}
			if hasCode {
				continue
			}
			tok = strings.TrimSpace(stripParentheticals(tok))
			if !t.isValidIngredient(tok) {
				continue
			}
		}

		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	return TokenData{Tokens: out, ECodes: eCodes}
}

func isDelimiter(r rune) bool {
	switch r {
	case ',', '，', '、', ';', '；', '.', '。', ':', '：':
		return true
	}
	return unicode.IsSpace(r)
}

// cleanToken strips stray trailing separators and unbalanced
// leading/trailing parens left behind by the delimiter split. Balanced
// paren groups are kept intact: their content feeds the code extractor.
func cleanToken(tok string) string {
	tok = strings.TrimSpace(tok)
	tok = strings.TrimRight(tok, "、，,;；")
	if !parensBalanced(tok) {
		tok = strings.TrimLeft(tok, "()（）")
		tok = strings.TrimRight(tok, "()（）")
	}
	return strings.TrimSpace(tok)
}

func parensBalanced(s string) bool {
	opens, closes := 0, 0
	for _, r := range s {
		switch r {
		case '(', '（':
			opens++
		case ')', '）':
			closes++
		}
	}
	return opens == closes
}

// isValidIngredient filters tokens that cannot be ingredient names:
// single non-CJK runes, pure digits, pure punctuation, and anything
// containing a noise keyword.
func (t *Tokenizer) isValidIngredient(tok string) bool {
	if tok == "" {
		return false
	}

	// Single-rune tokens survive only as CJK ideographs; common
	// one-character ingredients like 水, 糖, 鹽, 油 are real.
	if utf8.RuneCountInString(tok) == 1 {
		r, _ := utf8.DecodeRuneInString(tok)
		return isCJK(r)
	}

	if isDigitsOnly(tok) {
		return false
	}

	if !hasWordOrCJK(tok) {
		return false
	}

	for _, kw := range t.noise {
		if strings.Contains(tok, kw) {
			return false
		}
	}
	return true
}

func isCJK(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fa5
}

func isDigitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasWordOrCJK(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '_':
			return true
		case isCJK(r):
			return true
		}
	}
	return false
}
