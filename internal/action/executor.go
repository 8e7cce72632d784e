package action

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrUnsupported classifies malformed requests: unknown actions, actions
// outside the configured space, and value-bearing or element-requiring
// actions invoked without their value or target.
var ErrUnsupported = errors.New("unsupported or improperly specified action")

// Element is the handle contract the executor needs from the automation
// layer for element-targeted actions.
type Element interface {
	Click() error
	Hover() error
	Fill(text string) error
	Press(key string) error
	SelectOption(value string) error
}

// Tab is the page/tab contract for element-free actions.
type Tab interface {
	Goto(url string) error
	GoBack() error
	GoForward() error
	Close() error
	NewPage() error
	Press(key string) error
	Evaluate(script string) error
}

// Request is one action to perform, built by the caller from a parsed model
// decision. Element is the human-readable descriptor of Target.
type Request struct {
	Action  Action
	Target  Element
	Element string
	Value   string
}

const (
	scrollUpScript   = "window.scrollBy(0, -window.innerHeight / 2)"
	scrollDownScript = "window.scrollBy(0, window.innerHeight / 2)"
)

// primitives maps every tag to its single automation-layer call. Terminal
// and communicative actions map to nil: they are recorded, never dispatched.
var primitives = map[Action]func(tab Tab, req Request) error{
	Click:         func(_ Tab, r Request) error { return r.Target.Click() },
	Hover:         func(_ Tab, r Request) error { return r.Target.Hover() },
	PressEnter:    func(_ Tab, r Request) error { return r.Target.Press("Enter") },
	Type:          func(_ Tab, r Request) error { return r.Target.Fill(r.Value) },
	Select:        func(_ Tab, r Request) error { return r.Target.SelectOption(r.Value) },
	ScrollUp:      func(t Tab, _ Request) error { return t.Evaluate(scrollUpScript) },
	ScrollDown:    func(t Tab, _ Request) error { return t.Evaluate(scrollDownScript) },
	PressHome:     func(t Tab, _ Request) error { return t.Press("Home") },
	PressEnd:      func(t Tab, _ Request) error { return t.Press("End") },
	PressPageUp:   func(t Tab, _ Request) error { return t.Press("PageUp") },
	PressPageDown: func(t Tab, _ Request) error { return t.Press("PageDown") },
	NewTab:        func(t Tab, _ Request) error { return t.NewPage() },
	CloseTab:      func(t Tab, _ Request) error { return t.Close() },
	GoBack:        func(t Tab, _ Request) error { return t.GoBack() },
	GoForward:     func(t Tab, _ Request) error { return t.GoForward() },
	Goto:          func(t Tab, r Request) error { return t.Goto(r.Value) },
	Terminate:     nil,
	None:          nil,
	Say:           nil,
	Memorize:      nil,
}

// Options carries the read-only settings the executor needs at construction.
type Options struct {
	SaveDir     string
	ActionSpace []string
}

// Executor validates requests, dispatches them to the automation layer and
// records every attempt in the session history.
type Executor struct {
	tab     Tab
	space   []Action
	history History
	saveDir string
	log     zerolog.Logger
}

func NewExecutor(tab Tab, opts Options, log zerolog.Logger) *Executor {
	e := &Executor{
		tab:     tab,
		space:   DefaultSpace(),
		saveDir: opts.SaveDir,
		log:     log,
	}
	if len(opts.ActionSpace) > 0 {
		e.UpdateActionSpace(opts.ActionSpace)
	}
	return e
}

// Execute performs one action and returns its record. Failures never
// propagate: a malformed request or a throwing primitive both yield an
// error record, appended to history like any other outcome.
func (e *Executor) Execute(req Request) Record {
	if err := e.validate(req); err != nil {
		return e.record(req, err)
	}
	prim := primitives[req.Action]
	if prim == nil {
		// TERMINATE, NONE, SAY, MEMORIZE: observable decision, no page call.
		return e.record(req, nil)
	}
	return e.record(req, prim(e.tab, req))
}

func (e *Executor) validate(req Request) error {
	if !req.Action.Known() || !e.inSpace(req.Action) {
		return fmt.Errorf("%w: %q is not in the action space", ErrUnsupported, req.Action)
	}
	if req.Action.RequiresValue() && req.Value == "" {
		return fmt.Errorf("%w: %s requires a value", ErrUnsupported, req.Action)
	}
	if req.Action.RequiresElement() && req.Target == nil {
		return fmt.Errorf("%w: %s requires a target element", ErrUnsupported, req.Action)
	}
	return nil
}

func (e *Executor) inSpace(a Action) bool {
	for _, s := range e.space {
		if s == a {
			return true
		}
	}
	return false
}

func (e *Executor) record(req Request, err error) Record {
	rec := Record{
		Action:  req.Action,
		Element: req.Element,
		Value:   req.Value,
		Err:     err,
	}
	elem := req.Element
	if elem == "" {
		elem = "No Element"
	}
	val := req.Value
	if val == "" {
		val = "No Value"
	}
	if err != nil {
		rec.Summary = fmt.Sprintf("Error performing %s on %s: %v", req.Action, elem, err)
		e.log.Error().Err(err).Str("action", string(req.Action)).Str("element", req.Element).Msg("action failed")
	} else {
		rec.Summary = fmt.Sprintf("%s: %s -> %s", req.Action, elem, val)
		e.log.Info().Str("action", string(req.Action)).Str("element", req.Element).Str("value", req.Value).Msg("action executed")
	}
	e.history.Append(rec)
	return rec
}

// UpdateActionSpace replaces the configured action space. An invalid
// replacement is rejected with a warning and the prior space is kept.
func (e *Executor) UpdateActionSpace(names []string) bool {
	space, err := ParseSpace(names)
	if err != nil {
		e.log.Warn().Err(err).Msg("invalid action space override, keeping previous")
		return false
	}
	e.space = space
	e.log.Info().Int("actions", len(space)).Msg("action space updated")
	return true
}

// ActionSpace returns a copy of the current action space.
func (e *Executor) ActionSpace() []Action {
	out := make([]Action, len(e.space))
	copy(out, e.space)
	return out
}

// History returns a copy of the recorded summaries for prompt inclusion.
func (e *Executor) History() []string {
	return e.history.Lines()
}

// SaveHistory writes the session history under the configured save
// directory and returns the written path.
func (e *Executor) SaveHistory(filename string) (string, error) {
	path, err := e.history.Save(e.saveDir, filename)
	if err != nil {
		return "", err
	}
	e.log.Info().Str("path", path).Msg("action history saved")
	return path, nil
}

// ClearHistory drops the in-memory history.
func (e *Executor) ClearHistory() {
	e.history.Clear()
	e.log.Info().Msg("action history cleared")
}
