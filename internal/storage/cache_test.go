package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestInMemoryReader(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryReader()
	r.Put("acme/repo", "main", "/OWNERS", []byte("alice@example.com\n"))
	r.MarkProjectMissing("gone/repo")
	r.MarkProjectUnreadable("secret/repo")

	content, err := r.ReadFile(ctx, "acme/repo", "main", "/OWNERS", "")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "alice@example.com\n" {
		t.Fatalf("unexpected content: %q", content)
	}

	if _, err := r.ReadFile(ctx, "acme/repo", "main", "/missing", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := r.ReadFile(ctx, "acme/repo", "other", "/OWNERS", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other branch: want ErrNotFound, got %v", err)
	}
	if _, err := r.ReadFile(ctx, "gone/repo", "main", "/OWNERS", ""); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("want ErrProjectNotFound, got %v", err)
	}
	if _, err := r.ReadFile(ctx, "secret/repo", "main", "/OWNERS", ""); !errors.Is(err, ErrProjectUnreadable) {
		t.Fatalf("want ErrProjectUnreadable, got %v", err)
	}
}

// countingReader counts how many reads reach the underlying storage.
type countingReader struct {
	inner RevisionReader
	reads atomic.Int64
}

func (c *countingReader) ReadFile(ctx context.Context, project, branch, path, revision string) ([]byte, error) {
	c.reads.Add(1)
	return c.inner.ReadFile(ctx, project, branch, path, revision)
}

func TestCachedReaderCachesContent(t *testing.T) {
	ctx := context.Background()
	mem := NewInMemoryReader()
	mem.Put("acme/repo", "main", "/OWNERS", []byte("a@example.com\n"))
	counting := &countingReader{inner: mem}
	c := NewCachedReader(counting)

	for i := 0; i < 3; i++ {
		content, err := c.ReadFile(ctx, "acme/repo", "main", "/OWNERS", "abc123")
		if err != nil {
			t.Fatalf("ReadFile #%d: %v", i, err)
		}
		if string(content) != "a@example.com\n" {
			t.Fatalf("unexpected content: %q", content)
		}
	}
	if got := counting.reads.Load(); got != 1 {
		t.Fatalf("want 1 underlying read, got %d", got)
	}
}

func TestCachedReaderCachesNotFound(t *testing.T) {
	ctx := context.Background()
	counting := &countingReader{inner: NewInMemoryReader()}
	c := NewCachedReader(counting)

	for i := 0; i < 3; i++ {
		if _, err := c.ReadFile(ctx, "acme/repo", "main", "/missing", ""); !errors.Is(err, ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	}
	if got := counting.reads.Load(); got != 1 {
		t.Fatalf("not-found should be cached: want 1 underlying read, got %d", got)
	}
}

func TestCachedReaderDoesNotCacheTransientErrors(t *testing.T) {
	ctx := context.Background()
	mem := NewInMemoryReader()
	mem.MarkProjectUnreadable("secret/repo")
	counting := &countingReader{inner: mem}
	c := NewCachedReader(counting)

	for i := 0; i < 2; i++ {
		if _, err := c.ReadFile(ctx, "secret/repo", "main", "/OWNERS", ""); !errors.Is(err, ErrProjectUnreadable) {
			t.Fatalf("want ErrProjectUnreadable, got %v", err)
		}
	}
	if got := counting.reads.Load(); got != 2 {
		t.Fatalf("transient errors must not be cached: want 2 reads, got %d", got)
	}
}

func TestCachedReaderKeysIncludeRevision(t *testing.T) {
	ctx := context.Background()
	mem := NewInMemoryReader()
	mem.Put("acme/repo", "main", "/OWNERS", []byte("x\n"))
	counting := &countingReader{inner: mem}
	c := NewCachedReader(counting)

	if _, err := c.ReadFile(ctx, "acme/repo", "main", "/OWNERS", "rev1"); err != nil {
		t.Fatalf("ReadFile rev1: %v", err)
	}
	if _, err := c.ReadFile(ctx, "acme/repo", "main", "/OWNERS", "rev2"); err != nil {
		t.Fatalf("ReadFile rev2: %v", err)
	}
	if got := counting.reads.Load(); got != 2 {
		t.Fatalf("distinct revisions must not share entries: want 2 reads, got %d", got)
	}
}

func TestCachedReaderConcurrentReads(t *testing.T) {
	ctx := context.Background()
	mem := NewInMemoryReader()
	mem.Put("acme/repo", "main", "/OWNERS", []byte("x\n"))
	c := NewCachedReader(&countingReader{inner: mem})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.ReadFile(ctx, "acme/repo", "main", "/OWNERS", ""); err != nil {
				t.Errorf("concurrent ReadFile: %v", err)
			}
		}()
	}
	wg.Wait()
}
