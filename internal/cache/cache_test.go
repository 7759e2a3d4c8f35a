package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCache(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	a := "diff --git a/a b/a\n@@ -1 +1 @@\n-x\n+y\n"
	b := "diff --git a/b b/b\nnew file mode 100644\n@@ -0,0 +1 @@\n+z\n"

	report, hit := c.Parse(a)
	assert.False(t, hit)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "a", report.Files[0].File)

	again, hit := c.Parse(a)
	assert.True(t, hit)
	assert.Equal(t, report, again)

	_, hit = c.Parse(b)
	assert.False(t, hit)
	_, hit = c.Parse("")
	assert.False(t, hit)
	assert.Equal(t, 2, c.Len())

	// a was least recently used and has been evicted
	_, hit = c.Parse(a)
	assert.False(t, hit)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("same"), Key("same"))
	assert.NotEqual(t, Key("a"), Key("b"))
	assert.Len(t, Key(""), 64)
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}
