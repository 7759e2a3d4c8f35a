package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"diffscope/internal/diff"
)

// FullRenderer prints every file, hunk and line with old/new line
// number gutters. Its output is meant for people and is not re-parseable.
type FullRenderer struct {
	colors palette
}

func newFullRenderer(opts Options) *FullRenderer {
	return &FullRenderer{colors: newPalette(opts.Color)}
}

func (r *FullRenderer) Render(w io.Writer, files []diff.FileDiff) error {
	bw := bufio.NewWriter(w)
	if len(files) == 0 {
		fmt.Fprintln(bw, noChanges)
		return bw.Flush()
	}

	for i, f := range files {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		r.writeFile(bw, f)
	}
	return bw.Flush()
}

func (r *FullRenderer) writeFile(w io.Writer, f diff.FileDiff) {
	r.colors.file.Fprintf(w, "%s (%s)", displayPath(f), f.Status)
	fmt.Fprintf(w, " %s %s\n",
		r.colors.added.Sprintf("+%d", f.Additions),
		r.colors.removed.Sprintf("-%d", f.Deletions))

	if f.Binary {
		r.colors.faint.Fprintln(w, "Binary file")
	}

	width := gutterWidth(f)
	for _, h := range f.Hunks {
		r.colors.header.Fprintln(w, h.Header())
		for _, line := range h.Lines {
			gutter := fmt.Sprintf("%*s %*s ", width, lineNumber(line.OldNum), width, lineNumber(line.NewNum))
			text := line.Type.Marker() + line.Content
			switch line.Type {
			case diff.Addition:
				fmt.Fprint(w, r.colors.faint.Sprint(gutter))
				r.colors.added.Fprintln(w, text)
			case diff.Deletion:
				fmt.Fprint(w, r.colors.faint.Sprint(gutter))
				r.colors.removed.Fprintln(w, text)
			default:
				fmt.Fprint(w, r.colors.faint.Sprint(gutter))
				fmt.Fprintln(w, text)
			}
		}
	}
}

func displayPath(f diff.FileDiff) string {
	if f.Status == diff.StatusRenamed && f.OldFile != "" {
		return f.OldFile + " => " + f.File
	}
	return f.File
}

func lineNumber(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// gutterWidth is the number of digits of the largest line number in f.
func gutterWidth(f diff.FileDiff) int {
	largest := 1
	for _, h := range f.Hunks {
		for _, line := range h.Lines {
			largest = max(largest, line.OldNum, line.NewNum)
		}
	}
	return len(strconv.Itoa(largest))
}
