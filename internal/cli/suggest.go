package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"whoowns/internal/flags"
	"whoowns/internal/identity"
	"whoowns/internal/output"
	"whoowns/internal/resolve"
	"whoowns/internal/review"
	"whoowns/internal/score"
)

var (
	suggestPR    int
	suggestLimit int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest code-owner reviewers for a pull request",
	Long: `Suggest reviewers for a pull request, ranked by code ownership.

The owners of every changed file are resolved from the pull request author's
perspective, merged, and ranked: current reviewers first, then owners whose
declaration sits closest to the changed files. The PR author, service
accounts and owners annotated NEVER_SUGGEST are excluded (the never-suggest
exclusion is relaxed if it would leave nothing to suggest).

The ranking is deterministic: the same pull request state always yields the
same suggestion order.

Examples:
  whoowns suggest --repo org/repo --pr 42
  whoowns suggest --repo org/repo --pr 42 --limit 3 --format json
`,
	Run: func(cmd *cobra.Command, args []string) {
		if suggestPR <= 0 {
			fatal(errors.New("--pr is required"))
		}
		eng, client, err := buildEngine(cmd.Context())
		if err != nil {
			fatal(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Runtime.Timeout)
		defer cancel()

		rd := review.NewGitHubReader(client)
		change := review.Change{Project: cfg.Target.Repo, Number: suggestPR}

		owner, err := rd.ChangeOwner(ctx, change)
		if err != nil {
			fatal(err)
		}
		files, err := rd.ListChangedFiles(ctx, change)
		if err != nil {
			fatal(err)
		}
		if len(files) == 0 {
			fatal(errors.New("pull request has no changed files"))
		}
		reviewers, err := rd.ListReviewers(ctx, change)
		if err != nil {
			fatal(err)
		}

		results, err := eng.ResolvePaths(ctx, baseQuery(owner.Username), files, cfg.Runtime.Concurrency, traceSink())
		if err != nil {
			fatal(err)
		}

		suggestions := score.Suggest(mergeOwners(results), score.SuggestOptions{
			Reviewers:       accountIDSet(reviewers),
			ChangeOwner:     owner.ID,
			ServiceAccounts: usernameSet(cfg.Policy.ServiceAccounts),
			Limit:           suggestLimit,
		})

		if err := output.PrintSuggestions(cmd.OutOrStdout(), cfg.Output.Format, suggestions); err != nil {
			fatal(err)
		}
		os.Exit(exitForResults(results))
	},
}

// mergeOwners unions per-path owners into one candidate list. An account is
// kept once, at its smallest distance across paths; it stays never-suggest
// only if it is never-suggest on every path it owns.
func mergeOwners(results []*resolve.PathResult) []resolve.Owner {
	var merged []resolve.Owner
	index := make(map[int64]int)
	for _, res := range results {
		for _, o := range res.Owners {
			i, seen := index[o.Account.ID]
			if !seen {
				index[o.Account.ID] = len(merged)
				merged = append(merged, o)
				continue
			}
			if o.Distance < merged[i].Distance {
				merged[i].Distance = o.Distance
			}
			merged[i].NeverSuggest = merged[i].NeverSuggest && o.NeverSuggest
			for _, f := range o.FoundIn {
				merged[i].FoundIn = appendUniqueString(merged[i].FoundIn, f)
			}
		}
	}
	return merged
}

func accountIDSet(accounts []identity.Account) map[int64]bool {
	out := make(map[int64]bool, len(accounts))
	for _, a := range accounts {
		out[a.ID] = true
	}
	return out
}

func usernameSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func appendUniqueString(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	addTargetFlags(suggestCmd)
	suggestCmd.Flags().IntVar(&suggestPR, flags.FlagPR, 0, "Pull request number")
	suggestCmd.Flags().IntVar(&suggestLimit, flags.FlagLimit, 0, "Suggest at most N reviewers (0 = unlimited)")
	addPolicyFlags(suggestCmd)
	addFormatFlag(suggestCmd)
	addRuntimeFlags(suggestCmd)
}
