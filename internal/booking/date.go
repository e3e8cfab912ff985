package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tourdesk/internal/util"
)

// Use-date tokens arrive in whatever form the buyer typed: with or
// without separators, with or without leading zeros, sometimes as the
// long Korean form. NormalizeDate tries the interpretations below in a
// fixed order and returns the first calendar-valid one as YYYY-MM-DD.
// When nothing matches, the token is returned unchanged so the bad
// value stays visible downstream instead of being swallowed.
//
// The try-order matters: after separators are stripped, a 5-digit
// string can be read as YY-M-DD or YY-MM-D and both readings can be
// calendar-valid.

var (
	reKoreanDate    = regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`)
	dateSeparators  = strings.NewReplacer(".", "", "-", "", "/", "", " ", "")
	twoDigitLayouts = map[string]bool{"06.01.02": true, "06-01-02": true, "06/01/02": true}
	dateLayouts     = []string{
		"2006.01.02", "2006-01-02", "2006/01/02",
		"2006.1.2", "2006-1-2", "2006/1/2",
		"06.01.02", "06-01-02", "06/01/02",
	}
)

func NormalizeDate(token string) string {
	s := strings.TrimSpace(token)
	if s == "" {
		return token
	}

	if m := reKoreanDate.FindStringSubmatch(s); m != nil {
		if out, ok := calendarDate(util.Atoi(m[1]), util.Atoi(m[2]), util.Atoi(m[3])); ok {
			return out
		}
	}

	digits := dateSeparators.Replace(s)
	if util.IsDigits(digits) {
		if out, ok := normalizeDigits(digits); ok {
			return out
		}
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		year := t.Year()
		if twoDigitLayouts[layout] {
			year = expandYear(year % 100)
		}
		if out, ok := calendarDate(year, int(t.Month()), t.Day()); ok {
			return out
		}
	}

	return token
}

func normalizeDigits(digits string) (string, bool) {
	switch len(digits) {
	case 8:
		return calendarDate(util.Atoi(digits[:4]), util.Atoi(digits[4:6]), util.Atoi(digits[6:8]))
	case 6:
		return calendarDate(expandYear(util.Atoi(digits[:2])), util.Atoi(digits[2:4]), util.Atoi(digits[4:6]))
	case 5:
		year := expandYear(util.Atoi(digits[:2]))
		if out, ok := calendarDate(year, util.Atoi(digits[2:3]), util.Atoi(digits[3:5])); ok {
			return out, true
		}
		return calendarDate(year, util.Atoi(digits[2:4]), util.Atoi(digits[4:5]))
	case 4:
		return calendarDate(expandYear(util.Atoi(digits[:2])), util.Atoi(digits[2:3]), util.Atoi(digits[3:4]))
	default:
		return "", false
	}
}

// expandYear maps a 2-digit year: 00-69 into the 2000s, 70-99 into
// the 1900s.
func expandYear(yy int) int {
	if yy <= 69 {
		return 2000 + yy
	}
	return 1900 + yy
}

func calendarDate(year, month, day int) (string, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
