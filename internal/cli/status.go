package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"whoowns/internal/flags"
	"whoowns/internal/output"
	"whoowns/internal/review"
	"whoowns/internal/score"
)

var (
	statusPR    int
	statusStart int
	statusLimit int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-file code-owner approval status of a pull request",
	Long: `Show the code-owner approval status of every file changed by a pull
request.

Each file is one of:
	APPROVED                a code owner of the file has cast an approving vote
	PENDING                 a code owner is a reviewer but has not approved yet
	INSUFFICIENT_REVIEWERS  no code owner of the file is a reviewer

The status is recomputed from the current pull request state on every call;
nothing is stored.

Exit codes:
	0 = every file is APPROVED or PENDING
	1 = at least one file has INSUFFICIENT_REVIEWERS
	3 = fatal error

Examples:
  whoowns status --repo org/repo --pr 42
  whoowns status --repo org/repo --pr 42 --start 0 --limit 100
`,
	Run: func(cmd *cobra.Command, args []string) {
		if statusPR <= 0 {
			fatal(errors.New("--pr is required"))
		}
		eng, client, err := buildEngine(cmd.Context())
		if err != nil {
			fatal(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Runtime.Timeout)
		defer cancel()

		rd := review.NewGitHubReader(client)
		change := review.Change{Project: cfg.Target.Repo, Number: statusPR}

		owner, err := rd.ChangeOwner(ctx, change)
		if err != nil {
			fatal(err)
		}
		files, err := rd.ListChangedFiles(ctx, change)
		if err != nil {
			fatal(err)
		}
		files, err = score.Paginate(files, statusStart, statusLimit)
		if err != nil {
			fatal(err)
		}
		if len(files) == 0 {
			fatal(errors.New("pull request has no changed files"))
		}
		reviewerAccounts, err := rd.ListReviewers(ctx, change)
		if err != nil {
			fatal(err)
		}
		votes, err := rd.ListVotes(ctx, change, review.ApprovalLabel)
		if err != nil {
			fatal(err)
		}

		reviewers := accountIDSet(reviewerAccounts)
		approvals := make(map[int64]bool)
		for id, v := range votes {
			if v > 0 {
				approvals[id] = true
			}
		}

		results, err := eng.ResolvePaths(ctx, baseQuery(owner.Username), files, cfg.Runtime.Concurrency, traceSink())
		if err != nil {
			fatal(err)
		}

		statuses := make([]score.PathStatusResult, 0, len(results))
		insufficient := false
		for _, res := range results {
			st := score.PathStatus(res, reviewers, approvals)
			if st.Status == score.StatusInsufficientReviewers {
				insufficient = true
			}
			statuses = append(statuses, st)
		}

		if err := output.PrintStatuses(cmd.OutOrStdout(), cfg.Output.Format, statuses); err != nil {
			fatal(err)
		}
		if insufficient {
			os.Exit(exitFindings)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	addTargetFlags(statusCmd)
	statusCmd.Flags().IntVar(&statusPR, flags.FlagPR, 0, "Pull request number")
	statusCmd.Flags().IntVar(&statusStart, flags.FlagStart, 0, "Skip the first N changed files")
	statusCmd.Flags().IntVar(&statusLimit, flags.FlagLimit, 0, "Evaluate at most N changed files (0 = unlimited)")
	addPolicyFlags(statusCmd)
	addFormatFlag(statusCmd)
	addRuntimeFlags(statusCmd)
}
