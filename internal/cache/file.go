package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DefaultFilePath returns the cache file path used when none is configured:
// a fixed location under the platform temp directory, shared by all processes
// of the same user on the host.
func DefaultFilePath() string {
	return filepath.Join(os.TempDir(), ".tvm-cache.json")
}

// File is a credential cache backed by a single JSON file mapping cache key
// to credential blob. The file is shared: it may hold entries for multiple
// identities and endpoints at once, and may be written by independent
// processes. Writes are a full read-merge-rewrite of the mapping with no
// locking, so two racing writers can lose each other's update to unrelated
// keys. The last write wins; duplicate fetches caused by the race are
// tolerated in exchange for skipping file locking.
type File struct {
	path string
}

// NewFile creates a file-backed credential cache at the given path. The file
// is created lazily on the first successful Set.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("cache file path must not be empty")
	}
	return &File{path: path}, nil
}

// Get loads the cache file and looks up key. A missing file is an empty
// mapping; an unreadable or malformed file degrades to a miss rather than
// failing, as the cache is an optimization only.
func (f *File) Get(_ context.Context, key string) Result {
	entries, err := f.load()
	if err != nil {
		return Degraded(err)
	}

	blob, ok := entries[key]
	if !ok {
		return Miss()
	}

	if !fresh(blob, time.Now()) {
		// stale entries are left in place: they're overwritten by the next
		// Set for the key, never proactively pruned
		return Miss()
	}

	return Hit(blob)
}

// Set merges key -> blob into the current file content and rewrites the whole
// file. A corrupt or unreadable existing file is replaced with a fresh
// single-entry mapping, so one bad write never blocks future caching.
func (f *File) Set(_ context.Context, key string, blob json.RawMessage) error {
	entries, err := f.load()
	if err != nil {
		entries = map[string]json.RawMessage{}
	}

	entries[key] = blob

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("serializing cache entries: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing cache file %s: %w", f.path, err)
	}

	return nil
}

// Close releases any resources held by the cache.
func (f *File) Close() error {
	return nil
}

func (f *File) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache file %s: %w", f.path, err)
	}

	entries := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing cache file %s: %w", f.path, err)
	}

	return entries, nil
}
