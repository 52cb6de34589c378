package config

import (
	"reflect"
	"strings"
	"testing"
)

func validConfig() *Config {
	c := New()
	c.Target.Repo = "acme/repo"
	return c
}

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.Target.Branch != "main" {
		t.Fatalf("want branch main, got %q", c.Target.Branch)
	}
	if c.Policy.Backend != "find-owners" {
		t.Fatalf("want backend find-owners, got %q", c.Policy.Backend)
	}
	if c.Policy.FallbackOwners != "none" {
		t.Fatalf("want fallback none, got %q", c.Policy.FallbackOwners)
	}
	if c.Output.Format != "text" || c.Output.MinSeverity != "warning" {
		t.Fatalf("output defaults: %+v", c.Output)
	}
	if c.Runtime.Concurrency != 5 {
		t.Fatalf("want concurrency 5, got %d", c.Runtime.Concurrency)
	}
}

func TestValidate_AcceptsValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
}

func TestValidate_NormalizesCommaDelimitedLists(t *testing.T) {
	c := validConfig()
	c.Policy.GlobalOwners = []string{"a@x.com, b@x.com", "c@x.com", ",,"}
	c.Policy.AllowedEmailDomains = []string{"x.com,y.org"}
	c.Policy.ServiceAccounts = []string{" bot1 , bot2 "}

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	if want := []string{"a@x.com", "b@x.com", "c@x.com"}; !reflect.DeepEqual(c.Policy.GlobalOwners, want) {
		t.Fatalf("GlobalOwners: want %v, got %v", want, c.Policy.GlobalOwners)
	}
	if want := []string{"x.com", "y.org"}; !reflect.DeepEqual(c.Policy.AllowedEmailDomains, want) {
		t.Fatalf("AllowedEmailDomains: want %v, got %v", want, c.Policy.AllowedEmailDomains)
	}
	if want := []string{"bot1", "bot2"}; !reflect.DeepEqual(c.Policy.ServiceAccounts, want) {
		t.Fatalf("ServiceAccounts: want %v, got %v", want, c.Policy.ServiceAccounts)
	}
}

func TestValidate_NormalizesEnums(t *testing.T) {
	c := validConfig()
	c.Policy.FallbackOwners = " All-Users "
	c.Output.Format = "JSON"
	c.Output.MinSeverity = "Error"

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if c.Policy.FallbackOwners != "all-users" {
		t.Fatalf("fallback: got %q", c.Policy.FallbackOwners)
	}
	if c.Output.Format != "json" || c.Output.MinSeverity != "error" {
		t.Fatalf("output: %+v", c.Output)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantIn string
	}{
		{"missing repo", func(c *Config) { c.Target.Repo = "" }, "--repo is required"},
		{"malformed repo", func(c *Config) { c.Target.Repo = "just-a-name" }, "expected OWNER/REPO"},
		{"repo with extra slash", func(c *Config) { c.Target.Repo = "a/b/c" }, "expected OWNER/REPO"},
		{"empty branch", func(c *Config) { c.Target.Branch = "" }, "--branch must not be empty"},
		{"bad fallback", func(c *Config) { c.Policy.FallbackOwners = "everyone" }, "unsupported fallback owners"},
		{"bad global owner", func(c *Config) { c.Policy.GlobalOwners = []string{"not-an-email"} }, "invalid global owner"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "unsupported --format"},
		{"bad min severity", func(c *Config) { c.Output.MinSeverity = "critical" }, "unsupported --min-severity"},
		{"zero concurrency", func(c *Config) { c.Runtime.Concurrency = 0 }, "--concurrency must be >= 1"},
		{"zero timeout", func(c *Config) { c.Runtime.Timeout = 0 }, "--timeout must be > 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantIn) {
				t.Fatalf("want error containing %q, got %v", tc.wantIn, err)
			}
		})
	}
}

func TestValidate_GlobalOwnerAllUsers(t *testing.T) {
	c := validConfig()
	c.Policy.GlobalOwners = []string{"*"}
	if err := c.Validate(); err != nil {
		t.Fatalf("* must be a valid global owner: %v", err)
	}
}
