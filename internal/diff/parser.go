// internal/diff/parser.go
package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const fileDelimiter = "diff --git "

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)

// Parse converts unified diff text, as printed by git diff, into one
// FileDiff per changed file. Blocks it cannot make sense of are dropped.
// An empty result means there were no changes.
func Parse(text string) []FileDiff {
	return ParseReport(text).Files
}

// ParseReport parses like Parse and also reports what was ignored.
func ParseReport(text string) Report {
	p := &parser{}
	report := Report{Files: []FileDiff{}}

	preamble, blocks := splitBlocks(text)
	if strings.TrimSpace(strings.Join(preamble, "")) != "" {
		p.warnf("ignored %d line(s) before the first file header", len(preamble))
	}

	for _, block := range blocks {
		if file, ok := p.parseBlock(block); ok {
			report.Files = append(report.Files, file)
		}
	}
	report.Warnings = p.warnings
	return report
}

// parser only collects warnings; all positional state lives in locals.
type parser struct {
	warnings []string
}

func (p *parser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// splitBlocks cuts text into per-file blocks. Every block starts with its
// delimiter line. A block whose delimiter line ends in CR came from a patch
// saved with CRLF line endings, so one trailing CR is removed from each of
// its lines.
func splitBlocks(text string) (preamble []string, blocks [][]string) {
	if text == "" {
		return nil, nil
	}

	var (
		current []string
		crlf    bool
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, fileDelimiter) {
			if current != nil {
				blocks = append(blocks, current)
			}
			crlf = strings.HasSuffix(line, "\r")
			current = []string{strings.TrimSuffix(line, "\r")}
			continue
		}
		if current == nil {
			preamble = append(preamble, line)
			continue
		}
		if crlf {
			line = strings.TrimSuffix(line, "\r")
		}
		current = append(current, line)
	}
	if current != nil {
		blocks = append(blocks, current)
	}
	return preamble, blocks
}

func (p *parser) parseBlock(block []string) (FileDiff, bool) {
	oldPath, newPath, ok := classifyHeader(block[0])
	if !ok {
		p.warnf("dropped file block with unrecognized header %q", block[0])
		return FileDiff{}, false
	}

	spans := scanHunks(block)
	headerEnd := len(block)
	if len(spans) > 0 {
		headerEnd = spans[0].start
	}
	extended := block[1:headerEnd]

	file := FileDiff{
		File:   newPath,
		Status: classifyStatus(extended, oldPath, newPath),
		Binary: isBinary(extended),
		Hunks:  make([]Hunk, 0, len(spans)),
	}
	if file.Status == StatusDeleted {
		file.File = oldPath
	}
	if file.Status == StatusRenamed {
		file.OldFile = oldPath
	}

	for i, span := range spans {
		end := len(block)
		if i+1 < len(spans) {
			end = spans[i+1].start
		}
		hunk := span.hunk
		body := trimSurplusBlank(hunk, block[span.start+1:end])
		hunk.Lines = p.classifyLines(file.File, hunk, body)
		file.Hunks = append(file.Hunks, hunk)
	}

	file.Additions, file.Deletions = countLines(file.Hunks)
	return file, true
}

// classifyHeader extracts the old and new path from a delimiter line of
// the form `diff --git a/<old> b/<new>`, with either side optionally
// C-quoted.
func classifyHeader(line string) (oldPath, newPath string, ok bool) {
	rest := strings.TrimPrefix(line, fileDelimiter)

	if strings.HasPrefix(rest, `"`) || strings.HasSuffix(rest, `"`) {
		return splitQuotedPaths(rest)
	}

	// Unambiguous when both sides name the same file.
	if len(rest)%2 == 1 {
		mid := len(rest) / 2
		left, right := rest[:mid], rest[mid+1:]
		if rest[mid] == ' ' && strings.HasPrefix(left, "a/") && strings.HasPrefix(right, "b/") && left[2:] == right[2:] {
			return left[2:], right[2:], true
		}
	}

	idx := strings.Index(rest, " b/")
	if idx < 0 || !strings.HasPrefix(rest, "a/") {
		return "", "", false
	}
	oldPath, newPath = rest[2:idx], rest[idx+3:]
	if oldPath == "" || newPath == "" {
		return "", "", false
	}
	return oldPath, newPath, true
}

func splitQuotedPaths(rest string) (string, string, bool) {
	first, remainder, ok := nextPath(rest)
	if !ok {
		return "", "", false
	}
	second, remainder, ok := nextPath(strings.TrimPrefix(remainder, " "))
	if !ok || remainder != "" {
		return "", "", false
	}
	if !strings.HasPrefix(first, "a/") || !strings.HasPrefix(second, "b/") {
		return "", "", false
	}
	return first[2:], second[2:], true
}

// nextPath reads one path token, quoted or bare, from the start of s.
func nextPath(s string) (path, remainder string, ok bool) {
	if strings.HasPrefix(s, `"`) {
		quoted, err := strconv.QuotedPrefix(s)
		if err != nil {
			return "", "", false
		}
		unquoted, err := strconv.Unquote(quoted)
		if err != nil {
			return "", "", false
		}
		return unquoted, s[len(quoted):], true
	}
	// A bare token followed by a quoted one; bare paths may not contain
	// ` "` in this form.
	if idx := strings.Index(s, ` "`); idx >= 0 {
		return s[:idx], s[idx:], true
	}
	if s == "" {
		return "", "", false
	}
	return s, "", true
}

// classifyStatus applies the marker lines first so that an added or
// deleted file never reports as renamed.
func classifyStatus(extended []string, oldPath, newPath string) Status {
	for _, line := range extended {
		switch {
		case strings.HasPrefix(line, "new file mode"):
			return StatusAdded
		case strings.HasPrefix(line, "deleted file mode"):
			return StatusDeleted
		}
	}
	if oldPath != newPath {
		return StatusRenamed
	}
	return StatusModified
}

func isBinary(extended []string) bool {
	for _, line := range extended {
		if strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch") {
			return true
		}
	}
	return false
}

type hunkSpan struct {
	start int
	hunk  Hunk
}

// scanHunks returns every hunk header in block, in order, with the index
// of its header line.
func scanHunks(block []string) []hunkSpan {
	var spans []hunkSpan
	for i, line := range block {
		if !strings.HasPrefix(line, "@@ ") {
			continue
		}
		if hunk, ok := parseHunkHeader(line); ok {
			spans = append(spans, hunkSpan{start: i, hunk: hunk})
		}
	}
	return spans
}

func parseHunkHeader(line string) (Hunk, bool) {
	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return Hunk{}, false
	}
	return Hunk{
		OldStart: atoiDefault(m[1], 1),
		OldLines: atoiDefault(m[2], 1),
		NewStart: atoiDefault(m[3], 1),
		NewLines: atoiDefault(m[4], 1),
		Section:  strings.TrimSpace(m[5]),
	}, true
}

// trimSurplusBlank drops trailing empty lines once body already covers the
// hunk's declared extent. They are the newline that ends the text or a blank
// separator before the next block. An empty line inside the extent is a
// context line whose leading space was stripped, and stays.
func trimSurplusBlank(hunk Hunk, body []string) []string {
	var oldSeen, newSeen int
	for _, raw := range body {
		switch {
		case raw == "" || raw[0] == ' ':
			oldSeen++
			newSeen++
		case raw[0] == '-':
			oldSeen++
		case raw[0] == '+':
			newSeen++
		}
	}

	end := len(body)
	for end > 0 && body[end-1] == "" && (oldSeen > hunk.OldLines || newSeen > hunk.NewLines) {
		end--
		oldSeen--
		newSeen--
	}
	return body[:end]
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// classifyLines tags each body line and numbers it from the hunk's own
// declared starts.
func (p *parser) classifyLines(file string, hunk Hunk, body []string) []Line {
	oldNum, newNum := hunk.OldStart, hunk.NewStart
	lines := make([]Line, 0, len(body))

	for _, raw := range body {
		if raw == "" {
			lines = append(lines, Line{Type: Context, OldNum: oldNum, NewNum: newNum})
			oldNum++
			newNum++
			continue
		}

		content := raw[1:]
		switch raw[0] {
		case '+':
			lines = append(lines, Line{Type: Addition, Content: content, NewNum: newNum})
			newNum++
		case '-':
			lines = append(lines, Line{Type: Deletion, Content: content, OldNum: oldNum})
			oldNum++
		case ' ':
			lines = append(lines, Line{Type: Context, Content: content, OldNum: oldNum, NewNum: newNum})
			oldNum++
			newNum++
		case '\\':
			// "\ No newline at end of file"
		default:
			p.warnf("%s: skipped unrecognized line %q in hunk %s", file, raw, hunk.Header())
		}
	}
	return lines
}
