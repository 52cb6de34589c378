package storage

import (
	"context"
	"strings"
	"sync"
)

// InMemoryReader is a RevisionReader backed by a map. It is used by tests
// and by offline evaluation of declaration content.
//
// Content is keyed by (project, branch, path); the revision argument is
// accepted but ignored, matching the write-once view a fixed revision gives.
type InMemoryReader struct {
	mu         sync.RWMutex
	files      map[string][]byte
	missing    map[string]bool // projects that do not exist
	unreadable map[string]bool // projects the actor cannot read
}

func NewInMemoryReader() *InMemoryReader {
	return &InMemoryReader{
		files:      make(map[string][]byte),
		missing:    make(map[string]bool),
		unreadable: make(map[string]bool),
	}
}

// Put stores file content for (project, branch, path).
func (r *InMemoryReader) Put(project, branch, path string, content []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[fileKey(project, branch, path)] = content
}

// MarkProjectMissing makes every read in the project fail with
// ErrProjectNotFound.
func (r *InMemoryReader) MarkProjectMissing(project string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[project] = true
}

// MarkProjectUnreadable makes every read in the project fail with
// ErrProjectUnreadable.
func (r *InMemoryReader) MarkProjectUnreadable(project string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unreadable[project] = true
}

func (r *InMemoryReader) ReadFile(ctx context.Context, project, branch, path, revision string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.missing[project] {
		return nil, ErrProjectNotFound
	}
	if r.unreadable[project] {
		return nil, ErrProjectUnreadable
	}
	content, ok := r.files[fileKey(project, branch, path)]
	if !ok {
		return nil, ErrNotFound
	}
	return content, nil
}

func fileKey(project, branch, path string) string {
	return strings.Join([]string{project, branch, path}, "\x00")
}
