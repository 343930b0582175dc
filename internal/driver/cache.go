package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"spinet/internal/netlist"
)

// Bump when the Payload layout changes so stale entries read as misses.
const cacheSchemaVersion uint16 = 1

// Cache stores parsed circuits on disk keyed by the sha256 of the root
// deck's normalized content. Safe for concurrent use; ParseAll workers
// share one instance.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the cached form of one parsed deck. Includes carry the path
// and content hash of every file the include resolver read, so a hit can
// be revalidated against the filesystem.
type Payload struct {
	Schema   uint16
	Name     string
	Circuit  *netlist.Circuit
	Includes []IncludeStamp
}

// IncludeStamp records one resolved include for cache validation.
type IncludeStamp struct {
	Path string
	Hash [32]byte
}

// OpenCache initializes the cache under $XDG_CACHE_HOME/<app> (or
// ~/.cache/<app> when unset).
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenCacheAt initializes the cache in an explicit directory. Tests and
// sandboxed runs use this instead of the XDG location.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache's root directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "circuits", hex.EncodeToString(key[:])+".mp")
}

// Put serializes a payload and installs it with an atomic rename, so a
// concurrent reader never sees a torn entry.
func (c *Cache) Put(key [32]byte, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// Gone already after a successful rename.
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. The first result is false when the key is absent.
func (c *Cache) Get(key [32]byte, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll removes the cache directory and everything in it. The rename
// keeps concurrent readers off the entries while they are deleted.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
