// internal/diff/diff.go
package diff

import (
	"fmt"
)

// LineType indicates whether a line was added, removed, or is context
type LineType int

const (
	Context LineType = iota
	Addition
	Deletion
)

var lineTypeNames = map[LineType]string{
	Context:  "context",
	Addition: "addition",
	Deletion: "deletion",
}

func (t LineType) String() string {
	if name, ok := lineTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LineType(%d)", int(t))
}

// Marker returns the unified-diff prefix character for the line type.
func (t LineType) Marker() string {
	switch t {
	case Addition:
		return "+"
	case Deletion:
		return "-"
	default:
		return " "
	}
}

func (t LineType) MarshalText() ([]byte, error) {
	name, ok := lineTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown line type %d", int(t))
	}
	return []byte(name), nil
}

func (t *LineType) UnmarshalText(text []byte) error {
	for lt, name := range lineTypeNames {
		if name == string(text) {
			*t = lt
			return nil
		}
	}
	return fmt.Errorf("unknown line type %q", string(text))
}

// Status describes how a file changed between the old and new side.
type Status string

const (
	StatusAdded    Status = "added"
	StatusModified Status = "modified"
	StatusDeleted  Status = "deleted"
	StatusRenamed  Status = "renamed"
)

// Glyph returns the single-letter code used in compact listings.
func (s Status) Glyph() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	default:
		return "M"
	}
}

// Line represents a single line in a diff with its type and content.
// OldNum is set for context and deletion lines, NewNum for context and
// addition lines; an unset number is zero.
type Line struct {
	Type    LineType `json:"type"`
	Content string   `json:"content"`
	OldNum  int      `json:"oldLineNumber,omitempty"`
	NewNum  int      `json:"newLineNumber,omitempty"`
}

// Hunk represents a continuous section of changes. The four extents are
// copied from the hunk header as declared.
type Hunk struct {
	OldStart int    `json:"oldStart"`
	OldLines int    `json:"oldLines"`
	NewStart int    `json:"newStart"`
	NewLines int    `json:"newLines"`
	Section  string `json:"section,omitempty"`
	Lines    []Line `json:"lines"`
}

// Header renders the hunk header the way git prints it.
func (h Hunk) Header() string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	if h.Section != "" {
		header += " " + h.Section
	}
	return header
}

// FileDiff is everything a diff says about one file.
type FileDiff struct {
	File      string `json:"file"`
	OldFile   string `json:"oldFile,omitempty"`
	Status    Status `json:"status"`
	Binary    bool   `json:"binary,omitempty"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Hunks     []Hunk `json:"hunks"`
}

// Changes is the number of added plus deleted lines.
func (f FileDiff) Changes() int {
	return f.Additions + f.Deletions
}

// Report is the result of ParseReport: the parsed files plus diagnostics
// about input that was ignored.
type Report struct {
	Files    []FileDiff `json:"files"`
	Warnings []string   `json:"warnings,omitempty"`
}
