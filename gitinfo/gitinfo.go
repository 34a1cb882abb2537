// Package gitinfo reads descriptive facts about the git working tree that
// contains a directory: current branch, HEAD commit and the number of
// modified or untracked files.
//
// Collection is best effort. A missing git binary, a directory outside any
// work tree or a failing query all produce the same absent Metadata value.
package gitinfo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds each git query.
const DefaultTimeout = 10 * time.Second

// Metadata describes the working tree. The zero value means "absent".
type Metadata struct {
	Present       bool
	Branch        string // empty on a detached HEAD
	Commit        string
	UnstagedFiles int // modified tracked files plus untracked files
}

// Runner executes git with args inside dir and returns its stdout.
// A non-zero exit must be reported as an error.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

// Collector queries git for Metadata.
type Collector struct {
	Run     Runner
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewCollector returns a collector that shells out to the git binary on PATH.
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{
		Run:     RunGit,
		Timeout: DefaultTimeout,
		Logger:  logger,
	}
}

// Collect runs the three read-only queries against dir. Any failure makes the
// whole result absent; no error is returned.
func (c *Collector) Collect(ctx context.Context, dir string) Metadata {
	branch, err := c.query(ctx, dir, "branch", "--show-current")
	if err != nil {
		c.logUnavailable(dir, err)
		return Metadata{}
	}
	commit, err := c.query(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		c.logUnavailable(dir, err)
		return Metadata{}
	}
	status, err := c.query(ctx, dir, "status", "--porcelain")
	if err != nil {
		c.logUnavailable(dir, err)
		return Metadata{}
	}

	return Metadata{
		Present:       true,
		Branch:        strings.TrimSpace(branch),
		Commit:        strings.TrimSpace(commit),
		UnstagedFiles: CountUnstaged(status),
	}
}

// CountUnstaged counts porcelain status lines for modified tracked files
// (" M") and untracked files ("??").
func CountUnstaged(status string) int {
	count := 0
	for _, line := range strings.Split(status, "\n") {
		if strings.HasPrefix(line, " M") || strings.HasPrefix(line, "??") {
			count++
		}
	}
	return count
}

// RunGit is the default Runner.
func RunGit(ctx context.Context, dir string, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("locating git: %w", err)
	}

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func (c *Collector) query(ctx context.Context, dir string, args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Run(ctx, dir, args...)
}

func (c *Collector) logUnavailable(dir string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.Debug("git metadata unavailable", "dir", dir, "error", err)
}
