package render

import (
	"encoding/json"
	"fmt"
	"io"

	"diffscope/internal/diff"
)

// JSONRenderer writes the complete model as {"files": [...]}. It is the
// lossless view.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, files []diff.FileDiff) error {
	if files == nil {
		files = []diff.FileDiff{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(diff.Report{Files: files}); err != nil {
		return fmt.Errorf("encoding diff: %w", err)
	}
	return nil
}
