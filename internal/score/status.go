package score

import "whoowns/internal/resolve"

// Status classifies one changed path's code-owner approval state.
//
// For a single path the status only ever moves
// INSUFFICIENT_REVIEWERS -> PENDING -> APPROVED, and only in response to
// external review actions (adding a qualifying reviewer, then a qualifying
// vote). The engine is stateless: every call recomputes from current inputs.
type Status string

const (
	StatusApproved              Status = "APPROVED"
	StatusPending               Status = "PENDING"
	StatusInsufficientReviewers Status = "INSUFFICIENT_REVIEWERS"
)

// PathStatusResult pairs a path with its status.
type PathStatusResult struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// PathStatus computes the approval status of one resolved path.
//
// Reviewers maps account IDs of the change's current reviewers; approvals
// maps account IDs that have cast a qualifying vote. The suggestion-side
// filters (service accounts, never-suggest) deliberately do not apply here.
func PathStatus(res *resolve.PathResult, reviewers, approvals map[int64]bool) PathStatusResult {
	out := PathStatusResult{Path: res.Path}

	if res.AllUsers {
		// Every account is an owner: any reviewer qualifies.
		for id := range approvals {
			if reviewers[id] {
				out.Status = StatusApproved
				out.Reason = "approved by a reviewer (path is owned by all users)"
				return out
			}
		}
		if len(reviewers) > 0 {
			out.Status = StatusPending
			out.Reason = "a reviewer is an owner but has not voted yet"
			return out
		}
		out.Status = StatusInsufficientReviewers
		out.Reason = "no owner is currently a reviewer"
		return out
	}

	pending := false
	for _, o := range res.Owners {
		if !reviewers[o.Account.ID] {
			continue
		}
		if approvals[o.Account.ID] {
			out.Status = StatusApproved
			out.Reason = "approved by code owner " + o.Account.Username
			return out
		}
		pending = true
	}
	if pending {
		out.Status = StatusPending
		out.Reason = "a code owner is a reviewer but has not voted yet"
		return out
	}
	out.Status = StatusInsufficientReviewers
	out.Reason = "no code owner is currently a reviewer"
	return out
}
