package gitclient

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and returns scripted results.
type fakeRunner struct {
	calls  [][]string
	output []byte
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.output, f.err
}

func TestMirrorClone_FreshClone(t *testing.T) {
	runner := &fakeRunner{}
	c, err := New("https://forge.example.com/acme/widgets.git", WithRunner(runner))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "repository.git")
	require.NoError(t, c.MirrorClone(context.Background(), dir))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"git", "clone", "--mirror", "https://forge.example.com/acme/widgets.git", dir}, runner.calls[0])
}

func TestMirrorClone_UpdatesExisting(t *testing.T) {
	runner := &fakeRunner{}
	c, err := New("https://forge.example.com/acme/widgets.git", WithRunner(runner))
	require.NoError(t, err)

	dir := t.TempDir() // exists already
	require.NoError(t, c.MirrorClone(context.Background(), dir))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"git", "--git-dir", dir, "fetch", "--prune", "origin"}, runner.calls[0])
}

func TestMirrorPush_MissingMirror(t *testing.T) {
	c, err := New("https://x", WithRunner(&fakeRunner{}))
	require.NoError(t, err)

	err = c.MirrorPush(context.Background(), filepath.Join(t.TempDir(), "nope.git"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestGit_ErrorIncludesOutput(t *testing.T) {
	runner := &fakeRunner{output: []byte("fatal: repository not found\n"), err: errors.New("exit status 128")}
	c, err := New("https://x", WithRunner(runner))
	require.NoError(t, err)

	err = c.MirrorClone(context.Background(), filepath.Join(t.TempDir(), "missing.git"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository not found")
}

func TestRefCount(t *testing.T) {
	runner := &fakeRunner{output: []byte("refs/heads/main\nrefs/tags/v1\n")}
	c, err := New("https://x", WithRunner(runner))
	require.NoError(t, err)

	n, err := c.RefCount(context.Background(), "some.git")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRefCount_Empty(t *testing.T) {
	runner := &fakeRunner{output: []byte("\n")}
	c, err := New("https://x", WithRunner(runner))
	require.NoError(t, err)

	n, err := c.RefCount(context.Background(), "some.git")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
