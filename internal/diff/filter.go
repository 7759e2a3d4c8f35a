package diff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidRange = errors.New("invalid line range")

// LineRange is an inclusive range of new-side line numbers.
type LineRange struct {
	Start int
	End   int
}

func (r LineRange) Contains(n int) bool {
	return n >= r.Start && n <= r.End
}

func (r LineRange) String() string {
	return fmt.Sprintf("%d,%d", r.Start, r.End)
}

// ParseRange accepts "start,end", "start,+offset" or a single "line".
func ParseRange(s string) (LineRange, error) {
	s = strings.TrimSpace(s)
	startText, endText, hasEnd := strings.Cut(s, ",")

	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil || start < 1 {
		return LineRange{}, fmt.Errorf("%w %q: start must be a positive line number", ErrInvalidRange, s)
	}
	if !hasEnd {
		return LineRange{Start: start, End: start}, nil
	}

	endText = strings.TrimSpace(endText)
	if offsetText, ok := strings.CutPrefix(endText, "+"); ok {
		offset, err := strconv.Atoi(offsetText)
		if err != nil || offset < 0 {
			return LineRange{}, fmt.Errorf("%w %q: offset must be a non-negative number", ErrInvalidRange, s)
		}
		return LineRange{Start: start, End: start + offset}, nil
	}

	end, err := strconv.Atoi(endText)
	if err != nil {
		return LineRange{}, fmt.Errorf("%w %q: end must be a line number", ErrInvalidRange, s)
	}
	if end < start {
		return LineRange{}, fmt.Errorf("%w %q: end before start", ErrInvalidRange, s)
	}
	return LineRange{Start: start, End: end}, nil
}

// FilterLines keeps the lines whose new-side number falls inside r.
// Deletion lines have no new-side number and are always dropped. Hunks
// and files left empty are dropped and counts are derived again from what
// remains. The input is not modified.
func FilterLines(files []FileDiff, r LineRange) []FileDiff {
	out := make([]FileDiff, 0, len(files))
	for _, f := range files {
		var hunks []Hunk
		for _, h := range f.Hunks {
			var kept []Line
			for _, line := range h.Lines {
				if line.NewNum != 0 && r.Contains(line.NewNum) {
					kept = append(kept, line)
				}
			}
			if len(kept) == 0 {
				continue
			}
			h.Lines = kept
			hunks = append(hunks, h)
		}
		if len(hunks) == 0 {
			continue
		}
		f.Hunks = hunks
		f.Additions, f.Deletions = countLines(hunks)
		out = append(out, f)
	}
	return out
}
