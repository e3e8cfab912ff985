package booking

import (
	"regexp"
	"strings"

	"tourdesk/internal/util"
)

// Option text concatenates "label: value" segments separated by "/".
// Every field is resolved through an ordered rule chain; the first rule
// whose label matches wins, and a field with no matching rule is the
// empty string. Labels tolerate one stray character between their words
// because sellers edit them freely ("이용 날짜", "이용날짜", "이용-날짜").

type captureMode int

const (
	// captureValue takes the text after the label's colon as-is.
	captureValue captureMode = iota
	// captureAfterExample drops a leading parenthesized example clause
	// ("(예시 : 2024-xx-xx ): 2025-02-15") and keeps what follows "):",
	// falling back to the whole capture when no example is present.
	captureAfterExample
	// captureAfterExampleOnly requires the example clause; without it
	// the rule fails and the next rule in the chain is tried.
	captureAfterExampleOnly
)

type fieldRule struct {
	re   *regexp.Regexp
	mode captureMode
}

var (
	useDateRules = []fieldRule{
		{regexp.MustCompile(`이용.?날짜.*?:\s*([^/]+)`), captureAfterExample},
	}
	lodgingRules = []fieldRule{
		{regexp.MustCompile(`숙소.?이름.*?:\s*([^/]+)`), captureAfterExampleOnly},
		{regexp.MustCompile(`픽업.?장소.*?:\s*([^/]+)`), captureAfterExampleOnly},
	}
	categoryRules = []fieldRule{
		{regexp.MustCompile(`구분.*?:\s*([^/]+)`), captureValue},
	}
	payMethodRules = []fieldRule{
		{regexp.MustCompile(`결제.?방식.*?:\s*([^/]+)`), captureValue},
	}
	courseOptionRules = []fieldRule{
		{regexp.MustCompile(`코스.?옵션.*?:\s*([^/]+)`), captureValue},
		{regexp.MustCompile(`옵션.?선택.*?:\s*([^/]+)`), captureValue},
		{regexp.MustCompile(`차량.?옵션.*?:\s*([^/]+)`), captureValue},
		{regexp.MustCompile(`투어.?선택.*?:\s*([^/]+)`), captureValue},
	}
	secondaryCourseRules = []fieldRule{
		{regexp.MustCompile(`마사지.?시간.?선택.*?:\s*([^/]+)`), captureValue},
	}
	flightRules = []fieldRule{
		{regexp.MustCompile(`비행기.?편명.*?:\s*([^/]+)`), captureAfterExample},
		{regexp.MustCompile(`항공편.*?:\s*([^/]+)`), captureValue},
	}

	reExampleClause = regexp.MustCompile(`\)\s*:\s*(.+)$`)
)

// Fields holds the raw extracted sub-fields of one option-text blob.
// UseDate is the token as written; NormalizeDate runs later.
type Fields struct {
	UseDate         string
	LodgingName     string
	Category        string
	PayMethod       string
	CourseOption    string
	SecondaryCourse string
	FlightNumber    string
}

func ExtractFields(optionText string) Fields {
	option := util.NormalizeOption(optionText)
	return Fields{
		UseDate:         extractFirst(useDateRules, option),
		LodgingName:     extractFirst(lodgingRules, option),
		Category:        extractFirst(categoryRules, option),
		PayMethod:       extractFirst(payMethodRules, option),
		CourseOption:    extractFirst(courseOptionRules, option),
		SecondaryCourse: extractFirst(secondaryCourseRules, option),
		FlightNumber:    extractFirst(flightRules, option),
	}
}

func extractFirst(rules []fieldRule, option string) string {
	for _, rule := range rules {
		m := rule.re.FindStringSubmatch(option)
		if m == nil {
			continue
		}
		captured := strings.TrimSpace(m[1])
		switch rule.mode {
		case captureValue:
			return captured
		case captureAfterExample:
			if em := reExampleClause.FindStringSubmatch(captured); em != nil {
				return strings.TrimSpace(em[1])
			}
			return captured
		case captureAfterExampleOnly:
			if em := reExampleClause.FindStringSubmatch(captured); em != nil {
				return strings.TrimSpace(em[1])
			}
		}
	}
	return ""
}
