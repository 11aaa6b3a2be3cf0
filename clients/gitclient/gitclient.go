// Package gitclient wraps the git binary for repository mirror operations.
// The CommandRunner seam exists so tests can observe the exact invocations
// without a git installation.
package gitclient

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes external commands and returns their combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execCommandRunner is the default implementation using os/exec.
type execCommandRunner struct{}

func (e *execCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Client performs git mirror clones and pushes.
type Client struct {
	remoteURL string
	runner    CommandRunner
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the command runner. Used in tests.
func WithRunner(r CommandRunner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With("component", "gitclient")
	}
}

// New creates a Client for the given remote clone URL.
func New(remoteURL string, opts ...Option) (*Client, error) {
	if remoteURL == "" {
		return nil, fmt.Errorf("remote URL is required")
	}
	c := &Client{
		remoteURL: remoteURL,
		runner:    &execCommandRunner{},
		logger:    slog.Default().With("component", "gitclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MirrorClone clones the remote into dir as a bare mirror. When dir already
// holds a mirror it is updated in place with fetch --prune instead.
func (c *Client) MirrorClone(ctx context.Context, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		c.logger.Debug("updating existing mirror", "dir", dir)
		return c.git(ctx, "--git-dir", dir, "fetch", "--prune", "origin")
	}

	c.logger.Debug("cloning mirror", "remote", c.remoteURL, "dir", dir)
	return c.git(ctx, "clone", "--mirror", c.remoteURL, dir)
}

// MirrorPush pushes all refs from the mirror in dir to the remote.
func (c *Client) MirrorPush(ctx context.Context, dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("mirror %s does not exist: %w", dir, err)
	}
	c.logger.Debug("pushing mirror", "dir", dir, "remote", c.remoteURL)
	return c.git(ctx, "--git-dir", dir, "push", "--mirror", c.remoteURL)
}

// RefCount returns the number of refs in the mirror at dir.
func (c *Client) RefCount(ctx context.Context, dir string) (int, error) {
	out, err := c.runner.Run(ctx, "git", "--git-dir", dir, "for-each-ref", "--format=%(refname)")
	if err != nil {
		return 0, fmt.Errorf("git for-each-ref: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return 0, nil
	}
	return len(strings.Split(trimmed, "\n")), nil
}

func (c *Client) git(ctx context.Context, args ...string) error {
	out, err := c.runner.Run(ctx, "git", args...)
	if err != nil {
		return fmt.Errorf("git %s: %w (output: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
