package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"whoowns/internal/backend"
	"whoowns/internal/flags"
	gh "whoowns/internal/github"
	"whoowns/internal/identity"
	"whoowns/internal/resolve"
	"whoowns/internal/storage"
	"whoowns/internal/trace"
)

// Exit codes shared by all commands.
const (
	exitClean    = 0
	exitFindings = 1
	exitPartial  = 2
	exitFatal    = 3
)

// buildEngine validates the config and wires the resolution engine against
// the GitHub API: token, client, cached file reader, identity directory and
// declaration backend.
func buildEngine(ctx context.Context) (*resolve.Engine, *gh.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	b, err := backend.Get(cfg.Policy.Backend)
	if err != nil {
		return nil, nil, err
	}

	token, _, err := gh.ResolveAuthToken(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve GitHub auth token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, nil, fmt.Errorf("GitHub auth token is required (set GITHUB_TOKEN or run 'gh auth login')")
	}

	client, err := gh.NewClient(ctx, token, gh.WithVerbose(cfg.Runtime.Verbose, nil))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	eng := &resolve.Engine{
		Reader:   storage.NewCachedReader(storage.NewGitHubReader(client)),
		Backend:  b,
		Identity: identity.NewResolver(identity.NewGitHubDirectory(client), cfg.Policy.AllowedEmailDomains),
		Opts: resolve.Options{
			DefaultsBranch: cfg.Policy.DefaultsBranch,
			GlobalOwners:   cfg.Policy.GlobalOwners,
			FallbackOwners: cfg.Policy.FallbackOwners,
		},
	}
	return eng, client, nil
}

// authenticatedUser returns the username the token belongs to. It is the
// acting identity when the caller did not name one.
func authenticatedUser(ctx context.Context, client *gh.Client) (string, error) {
	u, _, err := client.REST.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to look up the authenticated user: %w", err)
	}
	return u.GetLogin(), nil
}

// traceSink returns the sink resolution decisions are logged to.
func traceSink() trace.Sink {
	if cfg.Output.Trace {
		return trace.NewWriter(os.Stderr)
	}
	return trace.Nop()
}

// baseQuery builds the common query fields; Path is filled per path.
func baseQuery(actingUser string) resolve.Query {
	return resolve.Query{
		Project:    cfg.Target.Repo,
		Branch:     cfg.Target.Branch,
		Revision:   cfg.Target.Revision,
		ActingUser: actingUser,
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitFatal)
}

// Shared flag groups. Every resolving command targets one repo and carries
// the same policy knobs; keeping the wiring in one place avoids drift.

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Target.Repo, flags.FlagRepo, "", "Repository to query as OWNER/REPO")
	cmd.Flags().StringVar(&cfg.Target.Branch, flags.FlagBranch, cfg.Target.Branch, "Branch to resolve against")
	cmd.Flags().StringVar(&cfg.Target.Revision, flags.FlagRev, "", "Pin the branch content to this commit (default: branch head)")
}

func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Policy.Backend, flags.FlagBackend, cfg.Policy.Backend, "Declaration grammar (see 'whoowns backends list')")
	cmd.Flags().StringVar(&cfg.Policy.DefaultsBranch, flags.FlagDefaultsBranch, "", "Branch holding the project-wide default declaration (empty = disabled)")
	cmd.Flags().StringSliceVar(&cfg.Policy.GlobalOwners, flags.FlagGlobalOwners, nil, "Process-wide owner emails, or \"*\" (repeatable; comma-separated accepted)")
	cmd.Flags().StringVar(&cfg.Policy.FallbackOwners, flags.FlagFallbackOwners, cfg.Policy.FallbackOwners, "Fallback when nothing else owns a path: none|all-users")
	cmd.Flags().StringSliceVar(&cfg.Policy.AllowedEmailDomains, flags.FlagAllowedDomains, nil, "Email domains allowed to own code (empty = all)")
	cmd.Flags().StringSliceVar(&cfg.Policy.ServiceAccounts, flags.FlagServiceAccounts, nil, "Usernames excluded from reviewer suggestions")
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Output.Format, flags.FlagFormat, cfg.Output.Format, "Output format: text|json")
}

func addRuntimeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Concurrent path resolutions")
	cmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout")
}
