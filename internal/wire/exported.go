// Package wire defines the JSON payloads exchanged with the external SCM
// process: the exported stack the engine ingests and the import stack it
// emits. The transport carrying these payloads is not part of this module.
package wire

import (
	"encoding/ascii85"
	"encoding/json"
	"fmt"
)

// ExportedStack is an ordered list of commit descriptors, bottom first.
type ExportedStack []ExportedCommit

// ExportedCommit describes one commit of the stack being edited.
type ExportedCommit struct {
	// Node is the immutable original commit identifier.
	Node    string    `json:"node"`
	Parents []string  `json:"parents"`
	Author  string    `json:"author"`
	Date    DateTuple `json:"date"`
	Text    string    `json:"text"`
	// Requested marks commits the user asked to edit. Immutable marks
	// commits (usually the public bottom) that must not change at all.
	Requested bool `json:"requested"`
	Immutable bool `json:"immutable"`
	// Files maps changed paths to their new state. A nil entry means the
	// commit deletes the path.
	Files map[string]*ExportedFile `json:"files,omitempty"`
	// RelevantFiles gives pre-stack content for paths referenced but not
	// modified below this commit. A nil entry means the path does not
	// exist before the stack.
	RelevantFiles map[string]*ExportedFile `json:"relevantFiles,omitempty"`
}

// ExportedFile carries one file's content and metadata. Exactly one of
// Data and DataBase85 is set.
type ExportedFile struct {
	Data       string `json:"data,omitempty"`
	DataBase85 string `json:"dataBase85,omitempty"`
	CopyFrom   string `json:"copyFrom,omitempty"`
	// Flags is "x" (executable), "l" (symlink) or "m" (submodule).
	Flags string `json:"flags,omitempty"`
}

// DateTuple is the wire form of a commit date: [unixSeconds, tzOffsetSeconds].
type DateTuple struct {
	UnixSec     int64
	TZOffsetSec int
}

// MarshalJSON encodes the date as a two-element array.
func (d DateTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{d.UnixSec, int64(d.TZOffsetSec)})
}

// UnmarshalJSON decodes a two-element array, tolerating float seconds.
func (d *DateTuple) UnmarshalJSON(data []byte) error {
	var arr [2]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("invalid date tuple: %w", err)
	}
	d.UnixSec = int64(arr[0])
	d.TZOffsetSec = int(arr[1])
	return nil
}

// EncodeBase85 encodes binary file payloads for the wire.
func EncodeBase85(data []byte) string {
	buf := make([]byte, ascii85.MaxEncodedLen(len(data)))
	n := ascii85.Encode(buf, data)
	return string(buf[:n])
}

// DecodeBase85 decodes a binary file payload.
func DecodeBase85(s string) ([]byte, error) {
	buf := make([]byte, len(s)*4)
	n, _, err := ascii85.Decode(buf, []byte(s), true)
	if err != nil {
		return nil, fmt.Errorf("invalid base85 payload: %w", err)
	}
	return buf[:n], nil
}
