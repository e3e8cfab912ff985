package util

import (
	"regexp"
	"strconv"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeOption flattens an option-text blob before label matching:
// non-breaking spaces become plain spaces, line breaks and repeated
// whitespace collapse to one space.
func NormalizeOption(input string) string {
	s := strings.ReplaceAll(input, "\u00A0", " ")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Atoi parses a decimal token, returning 0 for anything unparseable.
func Atoi(token string) int {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return 0
	}
	return n
}

func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
