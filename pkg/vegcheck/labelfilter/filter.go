// Package labelfilter removes obvious non-ingredient lines from extracted
// label text before classification. It is a defense against OCR or
// extraction output that includes label metadata alongside the
// ingredient list.
package labelfilter

import "strings"

// nonIngredientPrefixes are label-metadata terms that mark a line as not
// being ingredient text.
var nonIngredientPrefixes = []string{
	"品名",
	"產品",
	"商品",
	"名稱",
	"成分",
	"原料",
	"配料",
	"淨重",
	"重量",
	"容量",
	"內容量",
	"保存期限",
	"有效日期",
	"製造日期",
	"製造商",
	"公司",
	"廠商",
	"出品",
	"客服",
	"電話",
	"地址",
	"條碼",
}

// HasNonIngredientPrefix reports whether a line starts with, or contains a
// colon-qualified form of, a known non-ingredient prefix.
func HasNonIngredientPrefix(text string) bool {
	if text == "" {
		return false
	}
	for _, prefix := range nonIngredientPrefixes {
		if strings.Contains(text, prefix+"：") ||
			strings.Contains(text, prefix+":") ||
			strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

// Filter partitions extracted lines into ingredient text and rejected
// non-ingredient lines. Blank lines are dropped from both.
func Filter(lines []string) (ingredients, rejected []string) {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if HasNonIngredientPrefix(line) {
			rejected = append(rejected, line)
		} else {
			ingredients = append(ingredients, line)
		}
	}
	return ingredients, rejected
}
