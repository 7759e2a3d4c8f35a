package source

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"diffscope/internal/errors"

	"go.uber.org/zap"
)

// DiffRequest selects what git diff compares.
type DiffRequest struct {
	Cached    bool
	Revisions []string
	Paths     []string
}

// Git obtains diff text by running the git binary.
type Git struct {
	Binary       string
	Dir          string
	ContextLines int
	Timeout      time.Duration
	logger       *zap.Logger
}

func NewGit(binary, dir string, contextLines int, timeout time.Duration, logger *zap.Logger) *Git {
	if strings.TrimSpace(binary) == "" {
		binary = "git"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Git{
		Binary:       binary,
		Dir:          dir,
		ContextLines: contextLines,
		Timeout:      timeout,
		logger:       logger,
	}
}

// Args builds the git command line for req. Output is forced to plain
// unified format with a/ and b/ path prefixes regardless of the user's git
// config (diff.noprefix, diff.mnemonicPrefix, color.ui, diff.external).
func (g *Git) Args(req DiffRequest) []string {
	args := []string{
		"diff", "--no-color", "--no-ext-diff",
		"--src-prefix=a/", "--dst-prefix=b/",
		fmt.Sprintf("--unified=%d", g.ContextLines),
	}
	if req.Cached {
		args = append(args, "--cached")
	}
	args = append(args, req.Revisions...)
	if len(req.Paths) > 0 {
		args = append(args, "--")
		args = append(args, req.Paths...)
	}
	return args
}

// Diff runs git diff and returns its output. Empty output means no changes.
func (g *Git) Diff(ctx context.Context, req DiffRequest) (string, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	args := g.Args(req)
	cmd := exec.CommandContext(ctx, g.Binary, args...)
	cmd.Dir = g.Dir

	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	start := time.Now()
	err := cmd.Run()
	g.logger.Debug("ran git",
		zap.Strings("args", args),
		zap.String("dir", g.Dir),
		zap.Int("bytes", out.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	if err == nil {
		return out.String(), nil
	}

	switch {
	case stderrors.Is(err, exec.ErrNotFound), stderrors.Is(err, fs.ErrNotExist):
		return "", errors.NotFound(fmt.Sprintf("git binary %q not found", g.Binary), err)
	case ctx.Err() == context.DeadlineExceeded:
		return "", errors.SourceError(fmt.Sprintf("git diff timed out after %s", g.Timeout), ctx.Err(), nil)
	case ctx.Err() != nil:
		return "", ctx.Err()
	}

	msg := strings.TrimSpace(errb.String())
	if msg == "" {
		msg = err.Error()
	}
	return "", errors.SourceError("git diff failed", err, msg)
}
