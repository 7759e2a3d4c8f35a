// Package cache memoizes parse results by the content hash of the diff
// text, for callers that see the same text repeatedly.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"diffscope/internal/diff"

	lru "github.com/hashicorp/golang-lru/v2"
)

type ParseCache struct {
	reports *lru.Cache[string, diff.Report]
}

func New(size int) (*ParseCache, error) {
	reports, err := lru.New[string, diff.Report](size)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	return &ParseCache{reports: reports}, nil
}

// Key is the hex SHA-256 of text.
func Key(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// Parse returns the report for text, parsing only on a miss. Cached
// reports are shared and must not be modified.
func (c *ParseCache) Parse(text string) (report diff.Report, hit bool) {
	key := Key(text)
	if report, ok := c.reports.Get(key); ok {
		return report, true
	}
	report = diff.ParseReport(text)
	c.reports.Add(key, report)
	return report, false
}

func (c *ParseCache) Len() int {
	return c.reports.Len()
}
