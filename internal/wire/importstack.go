package wire

import (
	"encoding/json"
	"fmt"
)

// ImportStack is the ordered list of instructions handed back to the SCM
// process to materialize an edited stack. On the wire each instruction is
// a ["commit", {...}] or ["goto", {...}] pair.
type ImportStack []ImportAction

// ImportAction is one instruction; exactly one field is set.
type ImportAction struct {
	Commit *ImportCommit
	Goto   *ImportGoto
}

// ImportCommit creates one commit. Marks (":r<rev>") reference commits
// created earlier in the same instruction list; anything else is an
// existing commit identifier.
type ImportCommit struct {
	Mark    string    `json:"mark"`
	Author  string    `json:"author"`
	Date    DateTuple `json:"date"`
	Text    string    `json:"text"`
	Parents []string  `json:"parents"`
	// Predecessors carries provenance: the original identifiers this
	// commit rewrites.
	Predecessors []string `json:"predecessors,omitempty"`
	// Files maps paths to content; a nil entry deletes the path.
	Files map[string]*ExportedFile `json:"files"`
}

// ImportGoto checks out the given mark or identifier.
type ImportGoto struct {
	Mark string `json:"mark"`
}

// MarshalJSON encodes the action as a [name, payload] pair.
func (a ImportAction) MarshalJSON() ([]byte, error) {
	switch {
	case a.Commit != nil:
		return json.Marshal([2]any{"commit", a.Commit})
	case a.Goto != nil:
		return json.Marshal([2]any{"goto", a.Goto})
	default:
		return nil, fmt.Errorf("empty import action")
	}
}

// UnmarshalJSON decodes a [name, payload] pair.
func (a *ImportAction) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("import action must be a [name, payload] pair")
	}
	var name string
	if err := json.Unmarshal(raw[0], &name); err != nil {
		return err
	}
	switch name {
	case "commit":
		a.Commit = &ImportCommit{}
		return json.Unmarshal(raw[1], a.Commit)
	case "goto":
		a.Goto = &ImportGoto{}
		return json.Unmarshal(raw[1], a.Goto)
	default:
		return fmt.Errorf("unknown import action %q", name)
	}
}
