package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"whoowns/internal/flags"
	"whoowns/internal/model"
	"whoowns/internal/output"
	"whoowns/internal/resolve"
)

const ownersHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	Whoowns authenticates to GitHub using an access token.

	Sources (in order):
	1) GITHUB_TOKEN environment variable
	2) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

  Examples:
    # macOS/Linux
    export GITHUB_TOKEN="<your_token>"
    whoowns owners --repo org/repo --path docs/config.md

		# GitHub CLI auth
		gh auth login
		whoowns owners --repo org/repo --path docs/config.md
`

var (
	ownersPaths []string
	ownersUser  string
)

var ownersCmd = &cobra.Command{
	Use:   "owners",
	Short: "Resolve the code owners of one or more paths",
	Long: `Resolve the code owners of one or more paths.

For each path, the resolution walks the folder hierarchy from the file's
folder up to the repository root, merging declaration files along the way.
Owners are listed closest declaration first; an account appears at most once.

A declaration can short-circuit the walk ("set noparent"), pull in owners
from another file or project ("include", "file:"), or hand ownership to all
users ("*").

Exit codes:
	0 = owners resolved, no consistency issues
	1 = consistency issues found (unresolvable emails, broken imports)
	2 = a declaration file could not be parsed, owner lists are incomplete
	3 = fatal error (query did not run)

Examples:
  whoowns owners --repo org/repo --path docs/config.md
  whoowns owners --repo org/repo --branch release-1.2 --path a.go --path b.go
  whoowns owners --repo org/repo --path docs/config.md --format json --trace
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(ownersPaths) == 0 {
			fatal(errors.New("--path is required"))
		}
		eng, client, err := buildEngine(cmd.Context())
		if err != nil {
			fatal(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Runtime.Timeout)
		defer cancel()

		user := ownersUser
		if user == "" {
			user, err = authenticatedUser(ctx, client)
			if err != nil {
				fatal(err)
			}
		}

		results, err := eng.ResolvePaths(ctx, baseQuery(user), ownersPaths, cfg.Runtime.Concurrency, traceSink())
		if err != nil {
			fatal(err)
		}

		if err := output.PrintOwners(cmd.OutOrStdout(), cfg.Output.Format, results); err != nil {
			fatal(err)
		}
		os.Exit(exitForResults(results))
	},
}

// exitForResults maps resolved path results to the process exit code. A
// fatal issue means the path's declaration chain could not be fully
// evaluated, so the owner list is degraded rather than merely annotated.
func exitForResults(results []*resolve.PathResult) int {
	code := exitClean
	for _, res := range results {
		for _, iss := range res.Issues {
			if iss.Severity >= model.SeverityFatal {
				return exitPartial
			}
			code = exitFindings
		}
	}
	return code
}

func init() {
	rootCmd.AddCommand(ownersCmd)
	ownersCmd.SetHelpTemplate(ownersHelpTemplate)

	addTargetFlags(ownersCmd)
	ownersCmd.Flags().StringSliceVar(&ownersPaths, flags.FlagPath, nil, "File path to resolve (repeatable; comma-separated accepted)")
	ownersCmd.Flags().StringVar(&ownersUser, flags.FlagUser, "", "Acting user account visibility is evaluated against (default: authenticated user)")
	addPolicyFlags(ownersCmd)
	addFormatFlag(ownersCmd)
	addRuntimeFlags(ownersCmd)
}
