package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCache(t *testing.T) {
	t.Run("Seeded Content Is Unchanged", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shop.md")
		if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
			t.Fatal(err)
		}

		c := newCache()
		if err := c.seed(path); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if c.changed(path) {
			t.Error("Expected identical content to be unchanged")
		}

		os.WriteFile(path, []byte("v2"), 0644)
		if !c.changed(path) {
			t.Error("Expected new content to be a change")
		}
		if c.changed(path) {
			t.Error("Expected second check of same content to be unchanged")
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "later.md")

		c := newCache()
		if err := c.seed(path); err != nil {
			t.Fatalf("Expected missing file to be ignored, got %v", err)
		}
		if !c.changed(path) {
			t.Error("Expected unreadable file to count as changed")
		}

		os.WriteFile(path, []byte("v1"), 0644)
		if !c.changed(path) {
			t.Error("Expected first appearance to be a change")
		}
	})

	t.Run("Forget", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shop.md")
		os.WriteFile(path, []byte("v1"), 0644)

		c := newCache()
		c.seed(path)
		c.forget(path)
		if !c.changed(path) {
			t.Error("Expected forgotten entry to count as changed")
		}
	})
}
