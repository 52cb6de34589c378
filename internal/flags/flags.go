package flags

// Package flags defines canonical CLI flag names shared across the CLI.
// Keeping these as constants helps avoid drift between Cobra flag wiring and
// other code paths that need to reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Target
	FlagRepo   = "repo"
	FlagBranch = "branch"
	FlagRev    = "rev"
	FlagPath   = "path"
	FlagPR     = "pr"
	FlagUser   = "user"

	// Policy
	FlagBackend         = "backend"
	FlagDefaultsBranch  = "defaults-branch"
	FlagGlobalOwners    = "global-owners"
	FlagFallbackOwners  = "fallback-owners"
	FlagAllowedDomains  = "allowed-email-domains"
	FlagServiceAccounts = "service-accounts"

	// Output
	FlagFormat      = "format"
	FlagMinSeverity = "min-severity"
	FlagTrace       = "trace"
	FlagLogFile     = "log-file"
	FlagStart       = "start"
	FlagLimit       = "limit"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagConfig      = "config"
)
