package diff

// Summary aggregates a whole diff for the diffstat footer.
type Summary struct {
	Files     int `json:"files"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// countLines derives addition and deletion counts from classified lines.
// Header-declared extents are never consulted.
func countLines(hunks []Hunk) (additions, deletions int) {
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case Addition:
				additions++
			case Deletion:
				deletions++
			}
		}
	}
	return additions, deletions
}

// Totals sums per-file counts across files.
func Totals(files []FileDiff) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		s.Additions += f.Additions
		s.Deletions += f.Deletions
	}
	return s
}
