package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configBaseName = "whoowns"
	envPrefix      = "WHOOWNS"
)

// Viper keys mirror the Config sections.
const (
	keyTargetRepo     = "target.repo"
	keyTargetBranch   = "target.branch"
	keyTargetRevision = "target.revision"

	keyPolicyBackend         = "policy.backend"
	keyPolicyDefaultsBranch  = "policy.defaults_branch"
	keyPolicyGlobalOwners    = "policy.global_owners"
	keyPolicyFallbackOwners  = "policy.fallback_owners"
	keyPolicyAllowedDomains  = "policy.allowed_email_domains"
	keyPolicyServiceAccounts = "policy.service_accounts"

	keyOutputFormat      = "output.format"
	keyOutputMinSeverity = "output.min_severity"
	keyOutputLogFile     = "output.log_file"

	keyRuntimeConcurrency = "runtime.concurrency"
	keyRuntimeTimeout     = "runtime.timeout"
)

// LoadFile reads an optional whoowns.yaml config file and the WHOOWNS_*
// environment. A missing file is not an error unless the path was given
// explicitly.
func LoadFile(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		return v, nil
	}

	v.SetConfigName(configBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return v, nil
}

// Apply copies the values present in v into the config. Flags bind after
// this, so explicit flags win over file and environment values.
func (c *Config) Apply(v *viper.Viper) {
	if v.IsSet(keyTargetRepo) {
		c.Target.Repo = v.GetString(keyTargetRepo)
	}
	if v.IsSet(keyTargetBranch) {
		c.Target.Branch = v.GetString(keyTargetBranch)
	}
	if v.IsSet(keyTargetRevision) {
		c.Target.Revision = v.GetString(keyTargetRevision)
	}
	if v.IsSet(keyPolicyBackend) {
		c.Policy.Backend = v.GetString(keyPolicyBackend)
	}
	if v.IsSet(keyPolicyDefaultsBranch) {
		c.Policy.DefaultsBranch = v.GetString(keyPolicyDefaultsBranch)
	}
	if v.IsSet(keyPolicyGlobalOwners) {
		c.Policy.GlobalOwners = v.GetStringSlice(keyPolicyGlobalOwners)
	}
	if v.IsSet(keyPolicyFallbackOwners) {
		c.Policy.FallbackOwners = v.GetString(keyPolicyFallbackOwners)
	}
	if v.IsSet(keyPolicyAllowedDomains) {
		c.Policy.AllowedEmailDomains = v.GetStringSlice(keyPolicyAllowedDomains)
	}
	if v.IsSet(keyPolicyServiceAccounts) {
		c.Policy.ServiceAccounts = v.GetStringSlice(keyPolicyServiceAccounts)
	}
	if v.IsSet(keyOutputFormat) {
		c.Output.Format = v.GetString(keyOutputFormat)
	}
	if v.IsSet(keyOutputMinSeverity) {
		c.Output.MinSeverity = v.GetString(keyOutputMinSeverity)
	}
	if v.IsSet(keyOutputLogFile) {
		c.Output.LogFile = v.GetString(keyOutputLogFile)
	}
	if v.IsSet(keyRuntimeConcurrency) {
		c.Runtime.Concurrency = v.GetInt(keyRuntimeConcurrency)
	}
	if v.IsSet(keyRuntimeTimeout) {
		c.Runtime.Timeout = v.GetDuration(keyRuntimeTimeout)
	}
}
