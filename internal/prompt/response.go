package prompt

import (
	"fmt"
	"strings"
)

// Answer is the parsed form of the model's reply: an element letter (empty
// when the model answered "none"), an action name and an optional value.
type Answer struct {
	Letter string
	Action string
	Value  string
}

// ParseAnswer extracts the three mandatory reply fields from a model
// response. The model reasons in free text first, so the last occurrence of
// each field wins. A missing ACTION field is an error; the literal value
// "None" means no value was supplied.
func ParseAnswer(text string) (Answer, error) {
	var ans Answer
	var hasAction bool

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case hasFieldPrefix(line, "ELEMENT"):
			ans.Letter = parseLetter(fieldValue(line))
		case hasFieldPrefix(line, "ACTION"):
			ans.Action = strings.ToUpper(fieldValue(line))
			hasAction = ans.Action != ""
		case hasFieldPrefix(line, "VALUE"):
			ans.Value = parseValue(fieldValue(line))
		}
	}

	if !hasAction {
		return Answer{}, fmt.Errorf("reply is missing the ACTION field")
	}
	return ans, nil
}

func hasFieldPrefix(line, field string) bool {
	return strings.HasPrefix(strings.ToUpper(line), field+":")
}

func fieldValue(line string) string {
	_, after, _ := strings.Cut(line, ":")
	return strings.TrimSpace(after)
}

func parseLetter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return ""
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return ""
	}
	return string(c)
}

func parseValue(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "None" {
		return ""
	}
	return s
}

// LetterIndex resolves a reply letter to a zero-based choice index.
func LetterIndex(letter string) (int, bool) {
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return 0, false
	}
	return int(letter[0] - 'A'), true
}
