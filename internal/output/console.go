// Package output renders engine results for the console, in a
// human-readable text form or as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"whoowns/internal/model"
	"whoowns/internal/resolve"
	"whoowns/internal/score"
)

// PrintOwners renders per-path owner query results.
func PrintOwners(w io.Writer, format string, results []*resolve.PathResult) error {
	if format == "json" {
		return encodeJSON(w, results)
	}

	bold := color.New(color.Bold)
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		bold.Fprintf(w, "%s\n", res.Path)
		if res.AllUsers {
			fmt.Fprintln(w, "  owned by all users")
		}
		if len(res.Owners) == 0 && !res.AllUsers {
			fmt.Fprintln(w, "  no code owners")
			continue
		}
		for n, o := range res.Owners {
			line := fmt.Sprintf("  %d. %s", n+1, o.Account.Username)
			if o.Account.Email != "" {
				line += fmt.Sprintf(" <%s>", o.Account.Email)
			}
			line += fmt.Sprintf("  (distance %d, found in %s)", o.Distance, strings.Join(o.FoundIn, ", "))
			if len(o.Annotations) > 0 {
				line += fmt.Sprintf("  [%s]", strings.Join(o.Annotations, ", "))
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// PrintIssues renders check results: per declaration file, the consistency
// issues found, most severe first within a file.
func PrintIssues(w io.Writer, format, branch string, issues map[string][]model.ConsistencyIssue) error {
	if format == "json" {
		return encodeJSON(w, map[string]map[string][]model.ConsistencyIssue{branch: issues})
	}

	paths := make([]string, 0, len(issues))
	for p := range issues {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	total := 0
	bold := color.New(color.Bold)
	for _, p := range paths {
		if len(issues[p]) == 0 {
			continue
		}
		bold.Fprintf(w, "%s\n", p)
		for _, is := range issues[p] {
			fmt.Fprintf(w, "  %s %s\n", severityLabel(is.Severity), is.Message)
			total++
		}
	}
	if total == 0 {
		fmt.Fprintln(w, "no issues found")
	}
	return nil
}

// PrintSuggestions renders ranked reviewer suggestions.
func PrintSuggestions(w io.Writer, format string, owners []resolve.Owner) error {
	if format == "json" {
		return encodeJSON(w, owners)
	}

	if len(owners) == 0 {
		fmt.Fprintln(w, "no reviewers to suggest")
		return nil
	}
	for n, o := range owners {
		line := fmt.Sprintf("%d. %s", n+1, o.Account.Username)
		if o.Account.Email != "" {
			line += fmt.Sprintf(" <%s>", o.Account.Email)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// PrintStatuses renders per-path approval status as a table.
func PrintStatuses(w io.Writer, format string, statuses []score.PathStatusResult) error {
	if format == "json" {
		return encodeJSON(w, statuses)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Path", "Status", "Reason"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, s := range statuses {
		table.Append([]string{s.Path, statusLabel(s.Status), s.Reason})
	}
	table.Render()
	return nil
}

func severityLabel(s model.Severity) string {
	switch s {
	case model.SeverityFatal:
		return color.New(color.FgRed, color.Bold).Sprint("FATAL")
	case model.SeverityError:
		return color.New(color.FgRed).Sprint("ERROR")
	default:
		return color.New(color.FgYellow).Sprint("WARNING")
	}
}

func statusLabel(s score.Status) string {
	switch s {
	case score.StatusApproved:
		return color.New(color.FgGreen).Sprint(string(s))
	case score.StatusPending:
		return color.New(color.FgYellow).Sprint(string(s))
	default:
		return color.New(color.FgRed).Sprint(string(s))
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
