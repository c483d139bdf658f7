package fs

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"
)

// fingerprint is the content hash of one watched file.
type fingerprint [sha256.Size]byte

// cache remembers the last seen content of each watched file so that
// saves which leave the bytes untouched do not trigger a run.
type cache struct {
	mu      sync.Mutex
	entries map[string]fingerprint
}

func newCache() *cache {
	return &cache{entries: make(map[string]fingerprint)}
}

// seed records the current content of path. A missing file is not an error:
// its first appearance counts as a change.
func (c *cache) seed(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = sha256.Sum256(data)
	return nil
}

// changed reports whether path differs from the last recorded content and
// records the new content when it does. Unreadable files count as changed
// so the handler can report the failure.
func (c *cache) changed(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	sum := sha256.Sum256(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entries[path]; ok && prev == sum {
		return false
	}
	c.entries[path] = sum
	return true
}

// forget drops the entry for path so the next check reports a change.
func (c *cache) forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}
