package review

import (
	"context"
	"fmt"
	"sync"

	"whoowns/internal/identity"
)

// InMemoryReader is a Reader backed by maps, used by tests.
type InMemoryReader struct {
	mu        sync.RWMutex
	owners    map[changeKey]identity.Account
	files     map[changeKey][]string
	reviewers map[changeKey][]identity.Account
	votes     map[changeKey]map[int64]int
}

type changeKey struct {
	project string
	number  int
}

func NewInMemoryReader() *InMemoryReader {
	return &InMemoryReader{
		owners:    make(map[changeKey]identity.Account),
		files:     make(map[changeKey][]string),
		reviewers: make(map[changeKey][]identity.Account),
		votes:     make(map[changeKey]map[int64]int),
	}
}

// PutChange registers a change with its owner and changed files.
func (r *InMemoryReader) PutChange(change Change, owner identity.Account, files []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(change)
	r.owners[k] = owner
	r.files[k] = files
}

// AddReviewer adds a reviewer to a change.
func (r *InMemoryReader) AddReviewer(change Change, reviewer identity.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(change)
	r.reviewers[k] = append(r.reviewers[k], reviewer)
}

// SetVote records a vote by account ID.
func (r *InMemoryReader) SetVote(change Change, accountID int64, vote int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(change)
	if r.votes[k] == nil {
		r.votes[k] = make(map[int64]int)
	}
	r.votes[k][accountID] = vote
}

func (r *InMemoryReader) ChangeOwner(ctx context.Context, change Change) (identity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[key(change)]
	if !ok {
		return identity.Account{}, fmt.Errorf("unknown change %s#%d", change.Project, change.Number)
	}
	return owner, nil
}

func (r *InMemoryReader) ListChangedFiles(ctx context.Context, change Change) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	files, ok := r.files[key(change)]
	if !ok {
		return nil, fmt.Errorf("unknown change %s#%d", change.Project, change.Number)
	}
	return append([]string(nil), files...), nil
}

func (r *InMemoryReader) ListReviewers(ctx context.Context, change Change) ([]identity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]identity.Account(nil), r.reviewers[key(change)]...), nil
}

func (r *InMemoryReader) ListVotes(ctx context.Context, change Change, label string) (map[int64]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int, len(r.votes[key(change)]))
	for id, v := range r.votes[key(change)] {
		out[id] = v
	}
	return out, nil
}

func key(c Change) changeKey {
	return changeKey{project: c.Project, number: c.Number}
}
