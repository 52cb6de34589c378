package cli

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"whoowns/internal/flags"
	"whoowns/internal/model"
	"whoowns/internal/output"
	"whoowns/internal/score"
)

var (
	checkPaths []string
	checkUser  string
	checkStart int
	checkLimit int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the declaration files applicable to paths",
	Long: `Validate the declaration files applicable to one or more paths.

Each path is resolved as "owners" would resolve it, and the consistency
issues found along the way are reported per path: unparseable declaration
files (FATAL), unresolvable imports, unreadable files and owner emails that
do not resolve to an account (ERROR).

Exit codes:
	0 = no issues at or above --min-severity
	1 = issues found
	3 = fatal error (check did not run)

Examples:
  whoowns check --repo org/repo --path src/main.go
  whoowns check --repo org/repo --path a.go --path b.go --min-severity error
  whoowns check --repo org/repo --path src/main.go --start 0 --limit 50
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(checkPaths) == 0 {
			fatal(errors.New("--path is required"))
		}
		eng, client, err := buildEngine(cmd.Context())
		if err != nil {
			fatal(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Runtime.Timeout)
		defer cancel()

		user := checkUser
		if user == "" {
			user, err = authenticatedUser(ctx, client)
			if err != nil {
				fatal(err)
			}
		}

		issues, err := eng.CheckPaths(ctx, baseQuery(user), checkPaths, cfg.Runtime.Concurrency, traceSink())
		if err != nil {
			fatal(err)
		}

		min, err := model.ParseSeverity(cfg.Output.MinSeverity)
		if err != nil {
			fatal(err)
		}
		found := false
		for p, list := range issues {
			list = model.FilterIssues(list, min)
			list, err = score.Paginate(list, checkStart, checkLimit)
			if err != nil {
				fatal(err)
			}
			issues[p] = list
			if len(list) > 0 {
				found = true
			}
		}
		sortIssues(issues)

		if err := output.PrintIssues(cmd.OutOrStdout(), cfg.Output.Format, cfg.Target.Branch, issues); err != nil {
			fatal(err)
		}
		if found {
			os.Exit(exitFindings)
		}
	},
}

// sortIssues orders each path's issues most severe first, stably.
func sortIssues(issues map[string][]model.ConsistencyIssue) {
	for _, list := range issues {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Severity > list[j].Severity
		})
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)

	addTargetFlags(checkCmd)
	checkCmd.Flags().StringSliceVar(&checkPaths, flags.FlagPath, nil, "File path to check (repeatable; comma-separated accepted)")
	checkCmd.Flags().StringVar(&cfg.Output.MinSeverity, flags.FlagMinSeverity, cfg.Output.MinSeverity, "Lowest severity to report: fatal|error|warning")
	checkCmd.Flags().IntVar(&checkStart, flags.FlagStart, 0, "Skip the first N issues per path")
	checkCmd.Flags().IntVar(&checkLimit, flags.FlagLimit, 0, "Report at most N issues per path (0 = unlimited)")
	checkCmd.Flags().StringVar(&checkUser, flags.FlagUser, "", "Acting user account visibility is evaluated against (default: authenticated user)")
	addPolicyFlags(checkCmd)
	addFormatFlag(checkCmd)
	addRuntimeFlags(checkCmd)
}
