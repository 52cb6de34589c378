// Package storage abstracts reading file content out of versioned storage.
//
// The resolution engine only ever needs one operation: read the bytes of a
// file at a (project, branch, revision). Failures are classified with
// sentinel errors so the engine can map them onto typed unresolved-import
// reasons.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the file does not exist at the requested revision.
	ErrNotFound = errors.New("file not found")

	// ErrProjectNotFound means the project itself does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectUnreadable means the project exists but is not readable by
	// the current actor.
	ErrProjectUnreadable = errors.New("project not readable")
)

// RevisionReader reads file content at a revision.
//
// Revision may be empty, in which case the head of the branch is read.
// Implementations block on I/O and must honor context cancellation.
type RevisionReader interface {
	ReadFile(ctx context.Context, project, branch, path, revision string) ([]byte, error)
}
