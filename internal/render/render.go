// Package render projects parsed diffs into the full, stat and JSON views.
package render

import (
	"fmt"
	"io"

	"diffscope/internal/diff"
)

// Mode selects one of the views.
type Mode string

const (
	ModeFull Mode = "full"
	ModeStat Mode = "stat"
	ModeJSON Mode = "json"
)

const DefaultStatWidth = 40

// Renderer writes one view of a parsed diff. Renderers never modify files.
type Renderer interface {
	Render(w io.Writer, files []diff.FileDiff) error
}

// Options tunes the human-readable views.
type Options struct {
	// Color false forces plain output; true leaves it to terminal detection.
	Color bool
	// Maximum width of the +/- bar in the stat view.
	StatWidth int
}

func DefaultOptions() Options {
	return Options{Color: true, StatWidth: DefaultStatWidth}
}

// New returns the renderer for mode.
func New(mode Mode, opts Options) (Renderer, error) {
	if opts.StatWidth <= 0 {
		opts.StatWidth = DefaultStatWidth
	}
	switch mode {
	case ModeFull, "":
		return newFullRenderer(opts), nil
	case ModeStat:
		return newStatRenderer(opts), nil
	case ModeJSON:
		return JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output mode %q", mode)
	}
}

const noChanges = "No changes"
