package score

import (
	"testing"

	"whoowns/internal/identity"
	"whoowns/internal/resolve"
)

func pathResult(allUsers bool, ownerIDs ...int64) *resolve.PathResult {
	res := &resolve.PathResult{Path: "/file.go", AllUsers: allUsers}
	for _, id := range ownerIDs {
		res.Owners = append(res.Owners, resolve.Owner{
			Account: identity.Account{ID: id, Username: "u", Active: true},
		})
	}
	return res
}

func TestPathStatus(t *testing.T) {
	tests := []struct {
		name      string
		res       *resolve.PathResult
		reviewers map[int64]bool
		approvals map[int64]bool
		want      Status
	}{
		{"approved by owner reviewer", pathResult(false, 1, 2), map[int64]bool{2: true}, map[int64]bool{2: true}, StatusApproved},
		{"owner reviewer no vote", pathResult(false, 1, 2), map[int64]bool{2: true}, nil, StatusPending},
		{"no owner among reviewers", pathResult(false, 1), map[int64]bool{9: true}, map[int64]bool{9: true}, StatusInsufficientReviewers},
		{"no reviewers at all", pathResult(false, 1), nil, nil, StatusInsufficientReviewers},
		{"approval without reviewer does not count", pathResult(false, 1), nil, map[int64]bool{1: true}, StatusInsufficientReviewers},
		{"all users approved", pathResult(true), map[int64]bool{9: true}, map[int64]bool{9: true}, StatusApproved},
		{"all users pending", pathResult(true), map[int64]bool{9: true}, nil, StatusPending},
		{"all users no reviewers", pathResult(true), nil, nil, StatusInsufficientReviewers},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PathStatus(tc.res, tc.reviewers, tc.approvals)
			if got.Status != tc.want {
				t.Fatalf("want %v, got %v (%s)", tc.want, got.Status, got.Reason)
			}
			if got.Path != tc.res.Path {
				t.Fatalf("want path %q, got %q", tc.res.Path, got.Path)
			}
			if got.Reason == "" {
				t.Fatalf("every status carries a reason")
			}
		})
	}
}

// Adding a qualifying reviewer and then a qualifying vote only ever moves a
// path forward: INSUFFICIENT_REVIEWERS, then PENDING, then APPROVED.
func TestPathStatusProgression(t *testing.T) {
	res := pathResult(false, 1)

	st := PathStatus(res, nil, nil)
	if st.Status != StatusInsufficientReviewers {
		t.Fatalf("step 1: want INSUFFICIENT_REVIEWERS, got %v", st.Status)
	}

	reviewers := map[int64]bool{1: true}
	st = PathStatus(res, reviewers, nil)
	if st.Status != StatusPending {
		t.Fatalf("step 2: want PENDING, got %v", st.Status)
	}

	st = PathStatus(res, reviewers, map[int64]bool{1: true})
	if st.Status != StatusApproved {
		t.Fatalf("step 3: want APPROVED, got %v", st.Status)
	}
}
