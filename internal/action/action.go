package action

import (
	"fmt"
	"strings"
)

// Action is one tag from the fixed semantic operation vocabulary.
type Action string

const (
	Click         Action = "CLICK"
	PressEnter    Action = "PRESS ENTER"
	Hover         Action = "HOVER"
	ScrollUp      Action = "SCROLL UP"
	ScrollDown    Action = "SCROLL DOWN"
	NewTab        Action = "NEW TAB"
	CloseTab      Action = "CLOSE TAB"
	PressHome     Action = "PRESS HOME"
	PressEnd      Action = "PRESS END"
	PressPageUp   Action = "PRESS PAGEUP"
	PressPageDown Action = "PRESS PAGEDOWN"
	GoBack        Action = "GO BACK"
	GoForward     Action = "GO FORWARD"
	Terminate     Action = "TERMINATE"
	Select        Action = "SELECT"
	Type          Action = "TYPE"
	Goto          Action = "GOTO"
	Memorize      Action = "MEMORIZE"
	Say           Action = "SAY"
	None          Action = "NONE"
)

// all is the master vocabulary in presentation order. The facet sets below
// are design constants; a configured action space narrows which tags are
// legal but never changes a tag's facets.
var all = []Action{
	Click, PressEnter, Hover, ScrollUp, ScrollDown,
	NewTab, CloseTab, PressHome, PressEnd, PressPageUp, PressPageDown,
	GoBack, GoForward, Terminate, Select, Type, Goto, Memorize, Say, None,
}

var withValue = map[Action]bool{
	Select:   true,
	Type:     true,
	Goto:     true,
	Memorize: true,
	Say:      true,
}

var needsElement = map[Action]bool{
	Click:      true,
	Hover:      true,
	PressEnter: true,
	Type:       true,
	Select:     true,
}

var terminal = map[Action]bool{
	Terminate: true,
	None:      true,
}

// All returns the full vocabulary in a fixed order.
func All() []Action {
	out := make([]Action, len(all))
	copy(out, all)
	return out
}

// DefaultSpace is the action space exposed to the policy when no override is
// configured.
func DefaultSpace() []Action {
	return []Action{
		Click, PressEnter, Hover, ScrollUp, ScrollDown,
		NewTab, CloseTab, GoBack, GoForward, Terminate,
		Select, Type, Goto, Memorize,
	}
}

// Known reports whether a belongs to the vocabulary at all.
func (a Action) Known() bool {
	for _, known := range all {
		if a == known {
			return true
		}
	}
	return false
}

// RequiresValue reports whether the action is value-bearing.
func (a Action) RequiresValue() bool { return withValue[a] }

// RequiresElement reports whether the action needs a resolved target handle.
func (a Action) RequiresElement() bool { return needsElement[a] }

// IsElementFree reports whether the action operates on the page/tab context
// rather than a concrete element.
func (a Action) IsElementFree() bool { return !needsElement[a] }

// IsTerminal reports whether the action is an end-of-decision marker.
func (a Action) IsTerminal() bool { return terminal[a] }

// ParseSpace validates a replacement action space. Every name must be a
// distinct member of the vocabulary and the list must be non-empty; otherwise
// the previous space is meant to be kept by the caller.
func ParseSpace(names []string) ([]Action, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("action space must be a non-empty list of action names")
	}
	seen := make(map[Action]bool, len(names))
	out := make([]Action, 0, len(names))
	for _, name := range names {
		a := Action(strings.ToUpper(strings.TrimSpace(name)))
		if !a.Known() {
			return nil, fmt.Errorf("unknown action %q in action space", name)
		}
		if seen[a] {
			return nil, fmt.Errorf("duplicate action %q in action space", name)
		}
		seen[a] = true
		out = append(out, a)
	}
	return out, nil
}
