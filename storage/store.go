// Package storage persists entity snapshots on disk.
//
// Each entity writes one JSON document into the snapshot directory. Writes
// are atomic (temp file plus rename) so a crashed run never leaves a
// truncated document behind. Documents are optionally zstd-compressed and
// optionally encrypted; the file extension records the encoding, so a store
// can read snapshots written with different settings.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const manifestName = "manifest"

// ErrNotFound is returned when no variant of a document exists.
var ErrNotFound = errors.New("document not found")

// Store reads and writes the documents of one snapshot directory.
type Store struct {
	dir        string
	compress   bool
	passphrase string
	logger     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCompression enables zstd compression for written documents.
func WithCompression(enabled bool) Option {
	return func(s *Store) {
		s.compress = enabled
	}
}

// WithPassphrase enables authenticated encryption of written documents.
func WithPassphrase(passphrase string) Option {
	return func(s *Store) {
		s.passphrase = passphrase
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger.With("component", "storage")
	}
}

// Open creates the snapshot directory if needed and returns a Store for it.
func Open(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	s := &Store{
		dir:    dir,
		logger: slog.Default().With("component", "storage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// RepoDir returns the path reserved for the git repository mirror.
func (s *Store) RepoDir() string {
	return filepath.Join(s.dir, "repository.git")
}

// WriteDocument marshals v and writes it as the document for name.
func (s *Store) WriteDocument(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document %q: %w", name, err)
	}

	if s.compress {
		data = compress(data)
	}
	if s.passphrase != "" {
		data, err = encrypt(data, s.passphrase)
		if err != nil {
			return fmt.Errorf("encrypting document %q: %w", name, err)
		}
	}

	path := filepath.Join(s.dir, name+s.extension())
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %q: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing document %q: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming document %q: %w", name, err)
	}

	s.logger.Debug("document written", "name", name, "path", path, "bytes", len(data))
	return nil
}

// ReadDocument reads the document for name into v. All known encoding
// variants are probed, most specific first, so settings may differ between
// the writing and reading runs. Returns ErrNotFound when no variant exists.
func (s *Store) ReadDocument(name string, v any) error {
	for _, ext := range []string{".json.zst.enc", ".json.enc", ".json.zst", ".json"} {
		path := filepath.Join(s.dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading document %q: %w", name, err)
		}
		return s.decode(name, ext, data, v)
	}
	return fmt.Errorf("document %q: %w", name, ErrNotFound)
}

func (s *Store) decode(name, ext string, data []byte, v any) error {
	var err error
	switch ext {
	case ".json.zst.enc":
		if data, err = decrypt(data, s.passphrase); err != nil {
			return fmt.Errorf("decrypting document %q: %w", name, err)
		}
		if data, err = decompress(data); err != nil {
			return fmt.Errorf("decompressing document %q: %w", name, err)
		}
	case ".json.enc":
		if data, err = decrypt(data, s.passphrase); err != nil {
			return fmt.Errorf("decrypting document %q: %w", name, err)
		}
	case ".json.zst":
		if data, err = decompress(data); err != nil {
			return fmt.Errorf("decompressing document %q: %w", name, err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing document %q: %w", name, err)
	}
	return nil
}

func (s *Store) extension() string {
	ext := ".json"
	if s.compress {
		ext += ".zst"
	}
	if s.passphrase != "" {
		ext += ".enc"
	}
	return ext
}

// Manifest summarizes one completed save run.
type Manifest struct {
	CreatedAt time.Time      `json:"created_at"`
	Owner     string         `json:"owner"`
	Repo      string         `json:"repo"`
	Counts    map[string]int `json:"counts"`
}

// WriteManifest persists the snapshot manifest.
func (s *Store) WriteManifest(m Manifest) error {
	return s.WriteDocument(manifestName, m)
}

// ReadManifest loads the snapshot manifest.
func (s *Store) ReadManifest() (Manifest, error) {
	var m Manifest
	err := s.ReadDocument(manifestName, &m)
	return m, err
}
