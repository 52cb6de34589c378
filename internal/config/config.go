package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep the CLI
	// flags in internal/cli and the viper keys in file.go in sync.
	Target  Target
	Policy  Policy
	Output  Output
	Runtime Runtime
}

type Target struct {
	// Repo is the repository to query as OWNER/REPO (see --repo).
	Repo string

	// Branch the resolution runs against (see --branch).
	Branch string

	// Revision pins the branch content to a commit (see --rev). Empty means
	// the branch head.
	Revision string
}

type Policy struct {
	// Backend selects the declaration grammar (see --backend).
	Backend string

	// DefaultsBranch names the branch holding the project-wide default
	// declaration. Empty disables the defaults tier.
	DefaultsBranch string

	// GlobalOwners are statically configured process-wide owners (emails or
	// "*"), consulted after every folder and the defaults tier.
	GlobalOwners []string

	// FallbackOwners is consulted only when nothing else produced an owner.
	// Allowed values: none, all-users.
	FallbackOwners string

	// AllowedEmailDomains restricts which email domains may own code.
	// Empty allows every domain.
	AllowedEmailDomains []string

	// ServiceAccounts lists usernames excluded from reviewer suggestions.
	ServiceAccounts []string
}

type Output struct {
	// Format controls the console output format (see --format).
	// Allowed values: text, json.
	Format string

	// MinSeverity filters check results (see --min-severity).
	// Allowed values: fatal, error, warning.
	MinSeverity string

	// Trace prints the resolution trace to stderr (see --trace).
	Trace bool

	// LogFile appends diagnostics to a rotating log file (see --log-file).
	LogFile string
}

type Runtime struct {
	// Concurrency bounds parallel path resolutions (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// Timeout is the global deadline for a command (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// Verbose prints every GitHub API call and full error details.
	Verbose bool
}

func New() *Config {
	return &Config{
		Target: Target{
			Branch: "main",
		},
		Policy: Policy{
			Backend:        "find-owners",
			FallbackOwners: "none",
		},
		Output: Output{
			Format:      "text",
			MinSeverity: "warning",
		},
		Runtime: Runtime{
			Concurrency: 5,
			Timeout:     5 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Policy.GlobalOwners = splitCommaList(c.Policy.GlobalOwners)
	c.Policy.AllowedEmailDomains = splitCommaList(c.Policy.AllowedEmailDomains)
	c.Policy.ServiceAccounts = splitCommaList(c.Policy.ServiceAccounts)

	// Target validation
	if c.Target.Repo == "" {
		return errors.New("--repo is required")
	}
	owner, name, ok := strings.Cut(c.Target.Repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid --repo value %q (expected OWNER/REPO)", c.Target.Repo)
	}
	if c.Target.Branch == "" {
		return errors.New("--branch must not be empty")
	}

	// Policy validation
	c.Policy.Backend = normalizeEnumValue(c.Policy.Backend)
	if c.Policy.Backend == "" {
		return errors.New("--backend must not be empty")
	}

	c.Policy.FallbackOwners = normalizeEnumValue(c.Policy.FallbackOwners)
	if c.Policy.FallbackOwners == "" {
		c.Policy.FallbackOwners = "none"
	}
	if c.Policy.FallbackOwners != "none" && c.Policy.FallbackOwners != "all-users" {
		return fmt.Errorf("unsupported fallback owners: %s (must be one of: none, all-users)", c.Policy.FallbackOwners)
	}

	for _, o := range c.Policy.GlobalOwners {
		if o != "*" && !strings.Contains(o, "@") {
			return fmt.Errorf("invalid global owner %q (expected an email or \"*\")", o)
		}
	}

	// Output validation
	c.Output.Format = normalizeEnumValue(c.Output.Format)
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("unsupported --format: %s (must be one of: text, json)", c.Output.Format)
	}

	c.Output.MinSeverity = normalizeEnumValue(c.Output.MinSeverity)
	if c.Output.MinSeverity == "" {
		c.Output.MinSeverity = "warning"
	}
	if c.Output.MinSeverity != "fatal" && c.Output.MinSeverity != "error" && c.Output.MinSeverity != "warning" {
		return fmt.Errorf("unsupported --min-severity: %s (must be one of: fatal, error, warning)", c.Output.MinSeverity)
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
