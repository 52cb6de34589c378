// Package review is the review-workflow collaborator: the engine consumes
// reviewers, votes and changed files of a change, and never mutates review
// state.
package review

import (
	"context"

	"whoowns/internal/identity"
)

// Change identifies a change under review (a pull request).
type Change struct {
	Project string // owner/repo
	Number  int
}

// Reader exposes the review-side data the status and suggestion views need.
type Reader interface {
	// ChangeOwner returns the account that created the change (the
	// uploader).
	ChangeOwner(ctx context.Context, change Change) (identity.Account, error)

	// ListChangedFiles returns the repository-relative paths touched by the
	// change.
	ListChangedFiles(ctx context.Context, change Change) ([]string, error)

	// ListReviewers returns the change's current reviewers.
	ListReviewers(ctx context.Context, change Change) ([]identity.Account, error)

	// ListVotes returns the current votes on the given label, keyed by
	// account ID. Positive values approve.
	ListVotes(ctx context.Context, change Change, label string) (map[int64]int, error)
}

// ApprovalLabel is the label status computation evaluates.
const ApprovalLabel = "Code-Review"
