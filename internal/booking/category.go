package booking

import "strings"

// SplitCategory turns a category phrase plus the line item's quantity
// into per-category headcounts. Exactly one count is non-zero and
// equals quantity. A phrase with no recognizable marker counts as
// adult; that fallback is policy, not an error, because sellers write
// category labels the extractor has never seen.
func SplitCategory(phrase string, quantity int) (adult, child, senior int) {
	p := strings.ToLower(phrase)
	switch {
	case strings.Contains(p, "성인"):
		return quantity, 0, 0
	case strings.Contains(p, "아동"), strings.Contains(p, "소아"):
		return 0, quantity, 0
	case strings.Contains(p, "노인"), strings.Contains(p, "60세"):
		return 0, 0, quantity
	default:
		return quantity, 0, 0
	}
}
