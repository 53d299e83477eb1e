package format

import (
	"fmt"
	"strings"
	"unicode"
)

const ellipsis = "..."

// Truncate shortens s to at most max runes, ending in "..." when cut
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= len(ellipsis) {
		return string(runes[:max])
	}
	return strings.TrimRightFunc(string(runes[:max-len(ellipsis)]), unicode.IsSpace) + ellipsis
}

// Capitalize upper-cases the first rune and leaves the rest untouched
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ReceiptNumber zero-pads a receipt number to five digits: 42 -> "00042"
func ReceiptNumber(n int) string {
	return fmt.Sprintf("%05d", n)
}

// OrDefault returns fallback when s is blank
func OrDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
