package model

import (
	"fmt"
	"strings"
)

// Severity grades a consistency issue. Higher values are more severe.
type Severity int

const (
	// SeverityWarning is reserved for future use.
	SeverityWarning Severity = iota

	// SeverityError marks a usable declaration with a resolvable-but-invalid
	// reference (bad import, unresolvable email).
	SeverityError

	// SeverityFatal marks a declaration file that is unusable (parse failure).
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ParseSeverity parses a severity name (case-insensitive).
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "WARNING":
		return SeverityWarning, nil
	case "ERROR":
		return SeverityError, nil
	case "FATAL":
		return SeverityFatal, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (must be one of: fatal, error, warning)", raw)
	}
}

// ConsistencyIssue is a finding about one declaration file.
type ConsistencyIssue struct {
	// Path is the declaration file the issue was found in.
	Path string `json:"path"`

	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// MarshalText renders the severity by name so JSON output is readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	sev, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// FilterIssues returns the issues at or above the given minimum severity,
// preserving order.
func FilterIssues(issues []ConsistencyIssue, min Severity) []ConsistencyIssue {
	var out []ConsistencyIssue
	for _, is := range issues {
		if is.Severity >= min {
			out = append(out, is)
		}
	}
	return out
}
