package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"diffscope/internal/diff"

	"github.com/mattn/go-runewidth"
)

// StatRenderer prints one row per file with a proportional +/- bar and a
// summary row, in the style of git diff --stat.
type StatRenderer struct {
	colors   palette
	maxWidth int
}

func newStatRenderer(opts Options) *StatRenderer {
	return &StatRenderer{colors: newPalette(opts.Color), maxWidth: opts.StatWidth}
}

func (r *StatRenderer) Render(w io.Writer, files []diff.FileDiff) error {
	bw := bufio.NewWriter(w)
	if len(files) == 0 {
		fmt.Fprintln(bw, noChanges)
		return bw.Flush()
	}

	pathWidth, countWidth := 0, 1
	for _, f := range files {
		pathWidth = max(pathWidth, runewidth.StringWidth(displayPath(f)))
		countWidth = max(countWidth, len(changeCount(f)))
	}

	for _, f := range files {
		count := changeCount(f)
		row := fmt.Sprintf(" %s %s | %*s",
			statusGlyph(r.colors, f.Status),
			runewidth.FillRight(displayPath(f), pathWidth),
			countWidth, count)
		if plus, minus := barSegments(f.Additions, f.Deletions, r.maxWidth); plus+minus > 0 {
			row += " " + r.colors.added.Sprint(strings.Repeat("+", plus)) +
				r.colors.removed.Sprint(strings.Repeat("-", minus))
		}
		fmt.Fprintln(bw, row)
	}

	fmt.Fprintln(bw, " "+summaryLine(diff.Totals(files)))
	return bw.Flush()
}

func changeCount(f diff.FileDiff) string {
	if f.Binary && f.Changes() == 0 {
		return "Bin"
	}
	return strconv.Itoa(f.Changes())
}

// barSegments splits a bar of at most maxWidth cells between additions
// and deletions in proportion to their counts. A side with any changes
// keeps at least one cell while the bar has room for both.
func barSegments(additions, deletions, maxWidth int) (plus, minus int) {
	total := additions + deletions
	width := min(total, maxWidth)
	plus = int(math.Round(float64(additions*width) / float64(max(total, 1))))
	if width > 1 {
		if additions > 0 && plus == 0 {
			plus = 1
		}
		if deletions > 0 && plus == width {
			plus = width - 1
		}
	}
	return plus, width - plus
}

func statusGlyph(colors palette, s diff.Status) string {
	switch s {
	case diff.StatusAdded:
		return colors.added.Sprint(s.Glyph())
	case diff.StatusDeleted:
		return colors.removed.Sprint(s.Glyph())
	case diff.StatusRenamed:
		return colors.header.Sprint(s.Glyph())
	default:
		return s.Glyph()
	}
}

func summaryLine(s diff.Summary) string {
	return fmt.Sprintf("%s changed, %s(+), %s(-)",
		plural(s.Files, "file"),
		plural(s.Additions, "insertion"),
		plural(s.Deletions, "deletion"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
