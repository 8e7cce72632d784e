package action

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type stubElement struct {
	clicks     int
	hovers     int
	fills      []string
	presses    []string
	selections []string
	err        error
}

func (s *stubElement) Click() error             { s.clicks++; return s.err }
func (s *stubElement) Hover() error             { s.hovers++; return s.err }
func (s *stubElement) Fill(text string) error   { s.fills = append(s.fills, text); return s.err }
func (s *stubElement) Press(key string) error   { s.presses = append(s.presses, key); return s.err }
func (s *stubElement) SelectOption(v string) error {
	s.selections = append(s.selections, v)
	return s.err
}

type stubTab struct {
	gotos    []string
	evals    []string
	keys     []string
	backs    int
	forwards int
	newPages int
	closes   int
	err      error
}

func (s *stubTab) Goto(url string) error        { s.gotos = append(s.gotos, url); return s.err }
func (s *stubTab) GoBack() error                { s.backs++; return s.err }
func (s *stubTab) GoForward() error             { s.forwards++; return s.err }
func (s *stubTab) Close() error                 { s.closes++; return s.err }
func (s *stubTab) NewPage() error               { s.newPages++; return s.err }
func (s *stubTab) Press(key string) error       { s.keys = append(s.keys, key); return s.err }
func (s *stubTab) Evaluate(script string) error { s.evals = append(s.evals, script); return s.err }

func newTestExecutor(tab Tab, opts Options) *Executor {
	return NewExecutor(tab, opts, zerolog.Nop())
}

func TestTypeFillsValue(t *testing.T) {
	el := &stubElement{}
	e := newTestExecutor(&stubTab{}, Options{})

	rec := e.Execute(Request{Action: Type, Target: el, Element: "search box", Value: "pizza"})

	if rec.Err != nil {
		t.Fatalf("unexpected error: %v", rec.Err)
	}
	if len(el.fills) != 1 || el.fills[0] != "pizza" {
		t.Errorf("expected one fill with %q, got %v", "pizza", el.fills)
	}
	if !strings.Contains(rec.Summary, "pizza") {
		t.Errorf("summary %q should contain the typed value", rec.Summary)
	}
	if rec.Summary != "TYPE: search box -> pizza" {
		t.Errorf("unexpected summary %q", rec.Summary)
	}
}

func TestClickWithoutTargetIsUnsupported(t *testing.T) {
	e := newTestExecutor(&stubTab{}, Options{})

	rec := e.Execute(Request{Action: Click})

	if rec.Err == nil {
		t.Fatal("expected an error record")
	}
	if !errors.Is(rec.Err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", rec.Err)
	}
	if !strings.Contains(rec.Summary, "unsupported") {
		t.Errorf("summary %q should mention unsupported", rec.Summary)
	}
	if e.history.Len() != 1 {
		t.Errorf("error outcome must still be recorded, got %d records", e.history.Len())
	}
}

func TestValueBearingWithoutValueIsUnsupported(t *testing.T) {
	el := &stubElement{}
	e := newTestExecutor(&stubTab{}, Options{})

	rec := e.Execute(Request{Action: Type, Target: el, Element: "input"})

	if !errors.Is(rec.Err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", rec.Err)
	}
	if len(el.fills) != 0 {
		t.Error("no primitive must run for a rejected request")
	}
}

func TestUnknownActionIsUnsupported(t *testing.T) {
	e := newTestExecutor(&stubTab{}, Options{})

	rec := e.Execute(Request{Action: Action("FLY")})
	if !errors.Is(rec.Err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", rec.Err)
	}
}

func TestScrollDeltas(t *testing.T) {
	tab := &stubTab{}
	e := newTestExecutor(tab, Options{})

	e.Execute(Request{Action: ScrollDown})
	e.Execute(Request{Action: ScrollUp})

	if len(tab.evals) != 2 {
		t.Fatalf("expected 2 evaluate calls, got %d", len(tab.evals))
	}
	if !strings.Contains(tab.evals[0], "window.innerHeight / 2") || strings.Contains(tab.evals[0], "-window.innerHeight") {
		t.Errorf("scroll down must use a positive half-viewport delta: %q", tab.evals[0])
	}
	if !strings.Contains(tab.evals[1], "-window.innerHeight / 2") {
		t.Errorf("scroll up must use a negative half-viewport delta: %q", tab.evals[1])
	}
}

func TestTabAndNavigationActions(t *testing.T) {
	tab := &stubTab{}
	e := newTestExecutor(tab, Options{})

	e.Execute(Request{Action: NewTab})
	e.Execute(Request{Action: CloseTab})
	e.Execute(Request{Action: GoBack})
	e.Execute(Request{Action: GoForward})
	e.Execute(Request{Action: Goto, Value: "https://example.com"})

	if tab.newPages != 1 || tab.closes != 1 || tab.backs != 1 || tab.forwards != 1 {
		t.Errorf("tab lifecycle calls wrong: %+v", tab)
	}
	if len(tab.gotos) != 1 || tab.gotos[0] != "https://example.com" {
		t.Errorf("unexpected goto calls %v", tab.gotos)
	}
}

func TestTerminalActionsPerformNoPrimitive(t *testing.T) {
	tab := &stubTab{}
	e := newTestExecutor(tab, Options{ActionSpace: []string{"TERMINATE", "NONE", "SAY", "MEMORIZE"}})

	for _, req := range []Request{
		{Action: Terminate},
		{Action: None},
		{Action: Say, Value: "done"},
		{Action: Memorize, Value: "price is 999"},
	} {
		rec := e.Execute(req)
		if rec.Err != nil {
			t.Errorf("%s: unexpected error %v", req.Action, rec.Err)
		}
	}
	if len(tab.evals)+len(tab.gotos)+len(tab.keys)+tab.newPages+tab.closes+tab.backs+tab.forwards != 0 {
		t.Errorf("terminal and communicative actions must not touch the page: %+v", tab)
	}
	if e.history.Len() != 4 {
		t.Errorf("all four outcomes must be recorded, got %d", e.history.Len())
	}
}

func TestPrimitiveFailureIsIsolated(t *testing.T) {
	el := &stubElement{err: errors.New("element is detached")}
	e := newTestExecutor(&stubTab{}, Options{})

	rec := e.Execute(Request{Action: Click, Target: el, Element: "submit button"})

	if rec.Err == nil {
		t.Fatal("expected an error record")
	}
	if !strings.Contains(rec.Summary, "element is detached") {
		t.Errorf("summary %q should carry the underlying error text", rec.Summary)
	}
	if !strings.Contains(rec.Summary, "submit button") {
		t.Errorf("summary %q should name the element", rec.Summary)
	}

	// The session must be able to continue after a failed action.
	next := e.Execute(Request{Action: ScrollDown})
	if next.Err != nil {
		t.Fatalf("executor unusable after failure: %v", next.Err)
	}
	if got := e.History(); len(got) != 2 {
		t.Errorf("expected 2 history lines, got %v", got)
	}
}

func TestSaveAndClearHistory(t *testing.T) {
	dir := t.TempDir()
	tab := &stubTab{}
	e := newTestExecutor(tab, Options{SaveDir: filepath.Join(dir, "files")})

	e.Execute(Request{Action: ScrollDown})
	e.Execute(Request{Action: Goto, Value: "https://example.com"})
	e.Execute(Request{Action: ScrollUp})

	path, err := e.SaveHistory("")
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	for i, want := range e.History() {
		if lines[i] != want {
			t.Errorf("line %d: got %q want %q", i, lines[i], want)
		}
	}

	e.ClearHistory()
	if len(e.History()) != 0 {
		t.Error("history must be empty after clear")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file must remain on disk after clear: %v", err)
	}
}

func TestUpdateActionSpaceRejectsInvalid(t *testing.T) {
	e := newTestExecutor(&stubTab{}, Options{})
	before := e.ActionSpace()

	if e.UpdateActionSpace(nil) {
		t.Error("empty override must be rejected")
	}
	if e.UpdateActionSpace([]string{"CLICK", "WARP"}) {
		t.Error("override with unknown action must be rejected")
	}

	after := e.ActionSpace()
	if len(after) != len(before) {
		t.Fatalf("space changed after rejected overrides: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("space changed at %d: %v -> %v", i, before[i], after[i])
		}
	}

	if !e.UpdateActionSpace([]string{"CLICK", "GOTO", "TERMINATE"}) {
		t.Fatal("valid override must be accepted")
	}
	if got := e.ActionSpace(); len(got) != 3 {
		t.Errorf("unexpected space %v", got)
	}

	// A narrowed space rejects actions outside it.
	rec := e.Execute(Request{Action: ScrollDown})
	if !errors.Is(rec.Err, ErrUnsupported) {
		t.Errorf("out-of-space action must be unsupported, got %v", rec.Err)
	}
}
