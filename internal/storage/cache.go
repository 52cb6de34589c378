package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedReader is a read-through cache in front of a RevisionReader.
//
// Entries are keyed by (project, branch, revision, path) and are write-once:
// content at a fixed revision never changes, so entries need no invalidation
// and no locking beyond the write-once store. Concurrent identical reads are
// deduplicated with singleflight.
//
// Not-found results are cached as well; a missing file at a revision is as
// immutable as a present one. Transient errors are not cached.
type CachedReader struct {
	inner RevisionReader
	data  sync.Map // key -> cacheEntry
	group singleflight.Group
}

type cacheEntry struct {
	content  []byte
	notFound bool
}

func NewCachedReader(inner RevisionReader) *CachedReader {
	return &CachedReader{inner: inner}
}

func (c *CachedReader) ReadFile(ctx context.Context, project, branch, path, revision string) ([]byte, error) {
	key := cacheKey(project, branch, path, revision)

	if v, ok := c.data.Load(key); ok {
		return entryResult(v.(cacheEntry))
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		content, err := c.inner.ReadFile(ctx, project, branch, path, revision)
		if err != nil {
			return nil, err
		}
		return content, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.data.LoadOrStore(key, cacheEntry{notFound: true})
		}
		return nil, err
	}

	entry := cacheEntry{content: v.([]byte)}
	c.data.LoadOrStore(key, entry)
	return entryResult(entry)
}

func entryResult(e cacheEntry) ([]byte, error) {
	if e.notFound {
		return nil, ErrNotFound
	}
	return e.content, nil
}

func cacheKey(project, branch, path, revision string) string {
	return strings.Join([]string{project, branch, revision, path}, "\x00")
}
