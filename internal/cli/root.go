package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"whoowns/internal/config"
	"whoowns/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var cfg = config.New()
var configFile string

var rootCmd = &cobra.Command{
	Use:   "whoowns",
	Short: "Resolve code owners from per-folder declaration files",
	Long: `Whoowns resolves the code owners of files in a GitHub repository from
per-folder declaration files (OWNERS, OWNERS.yaml).

The resolution walks the folder hierarchy from the queried file up to the
repository root, merges each folder's declaration (including its imports),
and resolves the declared emails against GitHub accounts. Results are
deterministic and explainable: the same query always yields the same owner
ordering, and --trace shows every decision.

Examples:
	# Who owns a file?
	whoowns owners --repo org/repo --path docs/config.md

	# Validate declaration files along a path
	whoowns check --repo org/repo --path src/main.go

	# Suggest reviewers for a pull request
	whoowns suggest --repo org/repo --pr 42

	# List declaration grammars
	whoowns backends list

Output:
	By default, commands write human-readable output to stdout.
	Pass --format json for machine-readable output.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}
		// Flags already parsed at this point win over file and env values.
		fileCfg := *cfg
		fileCfg.Apply(v)
		applyUnlessFlagged(cmd, &fileCfg)
		setupLogging(cfg.Output.LogFile, cfg.Runtime.Verbose)
		return nil
	},
}

// applyUnlessFlagged copies file/env values into cfg for every setting whose
// flag was not given explicitly on the command line.
func applyUnlessFlagged(cmd *cobra.Command, fileCfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if !changed(flags.FlagRepo) {
		cfg.Target.Repo = fileCfg.Target.Repo
	}
	if !changed(flags.FlagBranch) {
		cfg.Target.Branch = fileCfg.Target.Branch
	}
	if !changed(flags.FlagRev) {
		cfg.Target.Revision = fileCfg.Target.Revision
	}
	if !changed(flags.FlagBackend) {
		cfg.Policy.Backend = fileCfg.Policy.Backend
	}
	if !changed(flags.FlagDefaultsBranch) {
		cfg.Policy.DefaultsBranch = fileCfg.Policy.DefaultsBranch
	}
	if !changed(flags.FlagGlobalOwners) {
		cfg.Policy.GlobalOwners = fileCfg.Policy.GlobalOwners
	}
	if !changed(flags.FlagFallbackOwners) {
		cfg.Policy.FallbackOwners = fileCfg.Policy.FallbackOwners
	}
	if !changed(flags.FlagAllowedDomains) {
		cfg.Policy.AllowedEmailDomains = fileCfg.Policy.AllowedEmailDomains
	}
	if !changed(flags.FlagServiceAccounts) {
		cfg.Policy.ServiceAccounts = fileCfg.Policy.ServiceAccounts
	}
	if !changed(flags.FlagFormat) {
		cfg.Output.Format = fileCfg.Output.Format
	}
	if !changed(flags.FlagMinSeverity) {
		cfg.Output.MinSeverity = fileCfg.Output.MinSeverity
	}
	if !changed(flags.FlagLogFile) {
		cfg.Output.LogFile = fileCfg.Output.LogFile
	}
	if !changed(flags.FlagConcurrency) {
		cfg.Runtime.Concurrency = fileCfg.Runtime.Concurrency
	}
	if !changed(flags.FlagTimeout) {
		cfg.Runtime.Timeout = fileCfg.Runtime.Timeout
	}
}

// setupLogging points slog at the rotating log file when one is configured,
// otherwise discards debug output (verbose API logging goes to stderr via
// the HTTP transport, not slog).
func setupLogging(logFile string, verbose bool) {
	var w io.Writer = io.Discard
	if logFile != "" {
		w = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every GitHub API call and full error details)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Output.Trace, flags.FlagTrace, false, "Print the resolution trace to stderr")
	rootCmd.PersistentFlags().StringVar(&cfg.Output.LogFile, flags.FlagLogFile, "", "Append diagnostics to this rotating log file")
	rootCmd.PersistentFlags().StringVar(&configFile, flags.FlagConfig, "", "Config file (default: whoowns.yaml in the working directory)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
