package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRoundTrip_Plain(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	in := doc{Name: "labels", Count: 3}
	require.NoError(t, s.WriteDocument("labels", in))

	var out doc
	require.NoError(t, s.ReadDocument("labels", &out))
	assert.Equal(t, in, out)

	_, err = os.Stat(filepath.Join(s.Dir(), "labels.json"))
	assert.NoError(t, err)
}

func TestRoundTrip_Compressed(t *testing.T) {
	s, err := Open(t.TempDir(), WithCompression(true))
	require.NoError(t, err)

	in := doc{Name: "issues", Count: 42}
	require.NoError(t, s.WriteDocument("issues", in))

	var out doc
	require.NoError(t, s.ReadDocument("issues", &out))
	assert.Equal(t, in, out)

	_, err = os.Stat(filepath.Join(s.Dir(), "issues.json.zst"))
	assert.NoError(t, err)
}

func TestRoundTrip_Encrypted(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, WithCompression(true), WithPassphrase("hunter2"))
	require.NoError(t, err)

	in := doc{Name: "milestones", Count: 7}
	require.NoError(t, s.WriteDocument("milestones", in))

	var out doc
	require.NoError(t, s.ReadDocument("milestones", &out))
	assert.Equal(t, in, out)

	// Ciphertext on disk must not contain the plaintext.
	raw, err := os.ReadFile(filepath.Join(dir, "milestones.json.zst.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "milestones")

	// Wrong passphrase fails loudly.
	other, err := Open(dir, WithPassphrase("wrong"))
	require.NoError(t, err)
	err = other.ReadDocument("milestones", &out)
	require.Error(t, err)
}

func TestReadDocument_ProbesPlainFallback(t *testing.T) {
	dir := t.TempDir()

	plain, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, plain.WriteDocument("labels", doc{Name: "old"}))

	// A store configured with compression still reads the plain document.
	s, err := Open(dir, WithCompression(true))
	require.NoError(t, err)

	var out doc
	require.NoError(t, s.ReadDocument("labels", &out))
	assert.Equal(t, "old", out.Name)
}

func TestReadDocument_NotFound(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	var out doc
	err = s.ReadDocument("ghost", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManifest(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	m := Manifest{
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Owner:     "acme",
		Repo:      "widgets",
		Counts:    map[string]int{"labels": 3},
	}
	require.NoError(t, s.WriteManifest(m))

	got, err := s.ReadManifest()
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestWriteDocument_Atomic(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.WriteDocument("labels", doc{Name: "a"}))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "labels.json", entries[0].Name())
}
