package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"diffscope/internal/diff"
	"diffscope/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePatch = `diff --git a/f.txt b/f.txt
index 1111111..2222222 100644
--- a/f.txt
+++ b/f.txt
@@ -1,2 +1,3 @@
 a
+b
 c
diff --git a/gone.txt b/gone.txt
deleted file mode 100644
--- a/gone.txt
+++ /dev/null
@@ -1 +0,0 @@
-bye
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DIFFSCOPE_CONFIG", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--no-color", "--log-level", "error"}, args...))

	err := root.Execute()
	return out.String(), err
}

func writePatch(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "change.patch")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestShow_Full(t *testing.T) {
	out, err := execute(t, "", "show", writePatch(t, samplePatch))
	require.NoError(t, err)

	assert.Contains(t, out, "f.txt (modified) +1 -0\n@@ -1,2 +1,3 @@\n1 1  a\n  2 +b\n2 3  c\n")
	assert.Contains(t, out, "gone.txt (deleted) +0 -1\n")
}

func TestShow_StatFromStdin(t *testing.T) {
	out, err := execute(t, samplePatch, "show", "--stat")
	require.NoError(t, err)

	want := " M f.txt    | 1 +\n" +
		" D gone.txt | 1 -\n" +
		" 2 files changed, 1 insertion(+), 1 deletion(-)\n"
	assert.Equal(t, want, out)
}

func TestShow_JSONWithLineRange(t *testing.T) {
	out, err := execute(t, "", "show", "--json", "--lines", "2,+0", writePatch(t, samplePatch))
	require.NoError(t, err)

	var report diff.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 1)
	assert.Equal(t, "f.txt", report.Files[0].File)
	assert.Equal(t, []diff.Line{{Type: diff.Addition, Content: "b", NewNum: 2}}, report.Files[0].Hunks[0].Lines)
}

func TestShow_Empty(t *testing.T) {
	out, err := execute(t, "", "show", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"files": []}`, out)

	out, err = execute(t, "", "show")
	require.NoError(t, err)
	assert.Equal(t, "No changes\n", out)
}

func TestShow_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		in   string
		code int
	}{
		{
			name: "strict with unparsed input",
			args: []string{"show", "--strict"},
			in:   "diff --git x y\n@@ -1 +1 @@\n-a\n+b\n",
			code: errors.ExitValidation,
		},
		{
			name: "bad line range",
			args: []string{"show", "--lines", "9,3"},
			code: errors.ExitValidation,
		},
		{
			name: "missing patch file",
			args: []string{"show", filepath.Join(t.TempDir(), "missing.patch")},
			code: errors.ExitNotFound,
		},
		{
			name: "stat and json together",
			args: []string{"show", "--stat", "--json"},
			code: errors.ExitInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.in, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.ExitCode(err))
		})
	}
}

func TestShow_StrictAcceptsCleanInput(t *testing.T) {
	_, err := execute(t, samplePatch, "show", "--strict", "--stat")
	assert.NoError(t, err)
}

// echoGit is a stand-in git that turns its own arguments into added lines.
func echoGit(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "git")
	body := "#!/bin/sh\necho 'diff --git a/args b/args'\necho '@@ -0,0 +1 @@'\nfor a in \"$@\"; do echo \"+$a\"; done\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))

	config := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(config, []byte(`{"git": {"binary": "`+script+`"}}`), 0644))
	return config
}

func TestDiff_PassesArgumentsToGit(t *testing.T) {
	config := echoGit(t)

	out, err := execute(t, "", "--config", config, "diff", "--cached", "-U", "5", "HEAD~1", "--", "a.go")
	require.NoError(t, err)

	for _, want := range []string{"+diff\n", "+--no-color\n", "+--src-prefix=a/\n", "+--dst-prefix=b/\n", "+--unified=5\n", "+--cached\n", "+HEAD~1\n", "+--\n", "+a.go\n"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "args (modified) +10 -0")
}

func TestDiff_GitFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "git")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'fatal: bad revision' >&2\nexit 128\n"), 0755))
	config := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(config, []byte("[git]\nbinary = \""+script+"\"\n"), 0644))

	_, err := execute(t, "", "--config", config, "diff", "nope")
	require.Error(t, err)
	assert.Equal(t, errors.ExitSource, errors.ExitCode(err))
}

func TestConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stat": {"width": -1}}`), 0644))

	_, err := execute(t, "", "--config", path, "show")
	assert.Equal(t, errors.ExitValidation, errors.ExitCode(err))
}
