// Package cache stores validation reports on disk, addressed by a digest of
// their inputs.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is written into every entry. Entries with another version
// read as misses. Increment it when the stored report shape changes.
const SchemaVersion uint16 = 1

// ErrCorrupt is returned by Get when an entry exists but cannot be decoded.
var ErrCorrupt = errors.New("cache: corrupt entry")

type envelope struct {
	Schema  uint16 `msgpack:"schema"`
	Size    uint32 `msgpack:"size"`
	Payload []byte `msgpack:"payload"`
}

// Store is a directory of msgpack-encoded entries. It is safe for
// concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns the per-user cache directory for puregate.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "puregate"), nil
}

// Open returns a store rooted at dir, creating it if needed. An empty dir
// selects DefaultDir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Key digests parts into a hex key. Each part is length-prefixed so that
// ("ab", "c") and ("a", "bc") differ.
func Key(parts ...string) (string, error) {
	h := sha256.New()
	var prefix [4]byte
	for _, p := range parts {
		n, err := safecast.Conv[uint32](len(p))
		if err != nil {
			return "", fmt.Errorf("cache key part too large: %w", err)
		}
		binary.BigEndian.PutUint32(prefix[:], n)
		h.Write(prefix[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *Store) pathFor(key string) string {
	if len(key) > 2 {
		return filepath.Join(s.dir, key[:2], key+".mp")
	}
	return filepath.Join(s.dir, key+".mp")
}

// Put encodes v and writes it under key, replacing any existing entry.
func (s *Store) Put(key string, v any) error {
	if s == nil {
		return nil
	}
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	size, err := safecast.Conv[uint32](len(payload))
	if err != nil {
		return fmt.Errorf("cache entry too large: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&envelope{Schema: SchemaVersion, Size: size, Payload: payload}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get decodes the entry under key into dst. It reports false with a nil
// error when there is no entry or the entry has another schema version.
func (s *Store) Get(key string, dst any) (bool, error) {
	if s == nil {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var env envelope
	if err := msgpack.NewDecoder(f).Decode(&env); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Schema != SchemaVersion {
		return false, nil
	}
	if n, err := safecast.Conv[uint32](len(env.Payload)); err != nil || n != env.Size {
		return false, fmt.Errorf("%w: payload size mismatch", ErrCorrupt)
	}
	if err := msgpack.Unmarshal(env.Payload, dst); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return true, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
