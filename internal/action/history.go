package action

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultHistoryFile is the filename used when saving a session's history.
const DefaultHistoryFile = "action_history.txt"

// Record is one immutable history entry describing a single execution
// attempt. Failed attempts are recorded too, with Err set and the error text
// folded into Summary.
type Record struct {
	Action  Action
	Element string
	Value   string
	Summary string
	Err     error
}

// History is the append-only log of execution attempts for one task session.
// It is owned by the Executor; callers read copies via Lines.
type History struct {
	records []Record
}

func (h *History) Append(r Record) {
	h.records = append(h.records, r)
}

func (h *History) Len() int {
	return len(h.records)
}

// Lines returns the record summaries in insertion order.
func (h *History) Lines() []string {
	out := make([]string, len(h.records))
	for i, r := range h.records {
		out[i] = r.Summary
	}
	return out
}

// Clear drops all in-memory records. Anything already saved to disk stays.
func (h *History) Clear() {
	h.records = nil
}

// Save writes the history as plain text, one summary per line, creating dir
// if needed. It returns the written path. Write failures surface to the
// caller: losing the audit trail is the one error not absorbed locally.
func (h *History) Save(dir, filename string) (string, error) {
	if filename == "" {
		filename = DefaultHistoryFile
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create history dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, filename)
	var sb strings.Builder
	for _, line := range h.Lines() {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write history file %s: %w", path, err)
	}
	return path, nil
}
