// Package score ranks resolved owners for reviewer suggestions and builds
// the read-only status and consistency reporting views.
package score

import (
	"hash/fnv"
	"sort"

	"whoowns/internal/resolve"
)

// SuggestOptions configures suggestion ranking and filtering.
type SuggestOptions struct {
	// Reviewers holds the account IDs of the change's current reviewers.
	Reviewers map[int64]bool

	// ChangeOwner is the account ID of the requester/change owner, always
	// excluded from suggestions. Zero means unknown.
	ChangeOwner int64

	// ServiceAccounts excludes accounts by username.
	ServiceAccounts map[string]bool

	// Limit caps the number of suggestions. Zero means no cap.
	Limit int
}

// Suggest filters and ranks resolved owners for reviewer suggestion.
//
// Dropped before ranking: the change owner, service accounts, and owners
// annotated NEVER_SUGGEST through every provenance. If the never-suggest
// filter would leave the result empty, that filter (only) is relaxed.
//
// The sort is stable across repeated calls with the same inputs: current
// reviewers first, then ascending folder distance, then a deterministic
// tie-break on the account identity.
func Suggest(owners []resolve.Owner, opts SuggestOptions) []resolve.Owner {
	var kept, neverSuggest []resolve.Owner
	for _, o := range owners {
		if opts.ChangeOwner != 0 && o.Account.ID == opts.ChangeOwner {
			continue
		}
		if opts.ServiceAccounts[o.Account.Username] {
			continue
		}
		if o.NeverSuggest {
			neverSuggest = append(neverSuggest, o)
			continue
		}
		kept = append(kept, o)
	}
	if len(kept) == 0 {
		// Dropping never-suggest owners would empty the result; relax that
		// filter only.
		kept = neverSuggest
	}

	sort.SliceStable(kept, func(i, j int) bool {
		oi, oj := kept[i], kept[j]
		ri, rj := opts.Reviewers[oi.Account.ID], opts.Reviewers[oj.Account.ID]
		if ri != rj {
			return ri
		}
		if oi.Distance != oj.Distance {
			return oi.Distance < oj.Distance
		}
		hi, hj := accountHash(oi.Account.Username), accountHash(oj.Account.Username)
		if hi != hj {
			return hi < hj
		}
		return oi.Account.Username < oj.Account.Username
	})

	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}
	return kept
}

// accountHash is the suggestion tie-break. The exact order is unspecified to
// callers; what matters is that it is a deterministic function of the
// account identity, never map iteration order.
func accountHash(username string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(username))
	return h.Sum64()
}
