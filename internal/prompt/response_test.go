package prompt

import "testing"

func TestParseAnswer(t *testing.T) {
	reply := `The search box at the top of the page is the right target.

ELEMENT: B
ACTION: TYPE
VALUE: wireless headphones`

	ans, err := ParseAnswer(reply)
	if err != nil {
		t.Fatalf("ParseAnswer: %v", err)
	}
	if ans.Letter != "B" || ans.Action != "TYPE" || ans.Value != "wireless headphones" {
		t.Errorf("unexpected answer %+v", ans)
	}
}

func TestParseAnswerNoneFields(t *testing.T) {
	reply := `ELEMENT: none
ACTION: SCROLL DOWN
VALUE: None`

	ans, err := ParseAnswer(reply)
	if err != nil {
		t.Fatalf("ParseAnswer: %v", err)
	}
	if ans.Letter != "" {
		t.Errorf("none element must yield an empty letter, got %q", ans.Letter)
	}
	if ans.Value != "" {
		t.Errorf("literal None must yield an empty value, got %q", ans.Value)
	}
	if ans.Action != "SCROLL DOWN" {
		t.Errorf("unexpected action %q", ans.Action)
	}
}

func TestParseAnswerLastOccurrenceWins(t *testing.T) {
	reply := `First I considered:
ELEMENT: A
ACTION: CLICK

But on reflection:
ELEMENT: C
ACTION: HOVER
VALUE: None`

	ans, err := ParseAnswer(reply)
	if err != nil {
		t.Fatalf("ParseAnswer: %v", err)
	}
	if ans.Letter != "C" || ans.Action != "HOVER" {
		t.Errorf("last occurrence must win, got %+v", ans)
	}
}

func TestParseAnswerNormalizes(t *testing.T) {
	ans, err := ParseAnswer("element: b.\naction: click\nvalue: \"quoted\"")
	if err != nil {
		t.Fatalf("ParseAnswer: %v", err)
	}
	if ans.Letter != "B" {
		t.Errorf("letter not normalized: %q", ans.Letter)
	}
	if ans.Action != "CLICK" {
		t.Errorf("action not uppercased: %q", ans.Action)
	}
	if ans.Value != "quoted" {
		t.Errorf("quotes not stripped: %q", ans.Value)
	}
}

func TestParseAnswerMissingAction(t *testing.T) {
	if _, err := ParseAnswer("ELEMENT: A\nVALUE: None"); err == nil {
		t.Error("missing ACTION field must be an error")
	}
}

func TestLetterIndex(t *testing.T) {
	if idx, ok := LetterIndex("A"); !ok || idx != 0 {
		t.Errorf("A should resolve to 0, got %d %v", idx, ok)
	}
	if idx, ok := LetterIndex("Z"); !ok || idx != 25 {
		t.Errorf("Z should resolve to 25, got %d %v", idx, ok)
	}
	for _, bad := range []string{"", "AA", "a", "1"} {
		if _, ok := LetterIndex(bad); ok {
			t.Errorf("%q must not resolve", bad)
		}
	}
}
