package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"whoowns/internal/identity"
	"whoowns/internal/model"
	"whoowns/internal/resolve"
	"whoowns/internal/score"
)

func sampleResults() []*resolve.PathResult {
	return []*resolve.PathResult{
		{
			Path: "/docs/config.md",
			Owners: []resolve.Owner{
				{
					Account:     identity.Account{ID: 1, Username: "alice", Email: "alice@example.com", Active: true},
					Distance:    0,
					FoundIn:     []string{"/docs/OWNERS"},
					Annotations: []string{"LAST_RESORT"},
				},
			},
		},
		{Path: "/orphan.go"},
	}
}

func TestPrintOwnersText(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintOwners(&buf, "text", sampleResults()); err != nil {
		t.Fatalf("PrintOwners: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"/docs/config.md",
		"1. alice <alice@example.com>",
		"distance 0",
		"found in /docs/OWNERS",
		"[LAST_RESORT]",
		"no code owners",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintOwnersJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintOwners(&buf, "json", sampleResults()); err != nil {
		t.Fatalf("PrintOwners: %v", err)
	}

	var decoded []resolve.PathResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[0].Path != "/docs/config.md" {
		t.Fatalf("unexpected decoded results: %+v", decoded)
	}
	if decoded[0].Owners[0].Account.Username != "alice" {
		t.Fatalf("owner lost in JSON round trip: %+v", decoded[0].Owners)
	}
}

func TestPrintIssuesText(t *testing.T) {
	issues := map[string][]model.ConsistencyIssue{
		"/b/file.go": {
			{Path: "/b/OWNERS", Severity: model.SeverityFatal, Message: "invalid code owner config file '/b/OWNERS': line 1: bad"},
		},
		"/a/file.go": {
			{Path: "/a/OWNERS", Severity: model.SeverityError, Message: "broken import"},
		},
	}

	var buf bytes.Buffer
	if err := PrintIssues(&buf, "text", "main", issues); err != nil {
		t.Fatalf("PrintIssues: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FATAL", "ERROR", "broken import", "/a/file.go", "/b/file.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Paths are reported in sorted order.
	if strings.Index(out, "/a/file.go") > strings.Index(out, "/b/file.go") {
		t.Errorf("paths not sorted:\n%s", out)
	}
}

func TestPrintIssuesTextClean(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintIssues(&buf, "text", "main", nil); err != nil {
		t.Fatalf("PrintIssues: %v", err)
	}
	if !strings.Contains(buf.String(), "no issues found") {
		t.Fatalf("want clean message, got:\n%s", buf.String())
	}
}

func TestPrintSuggestionsText(t *testing.T) {
	owners := []resolve.Owner{
		{Account: identity.Account{ID: 2, Username: "bob", Email: "bob@example.com", Active: true}},
	}

	var buf bytes.Buffer
	if err := PrintSuggestions(&buf, "text", owners); err != nil {
		t.Fatalf("PrintSuggestions: %v", err)
	}
	if !strings.Contains(buf.String(), "1. bob <bob@example.com>") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	if err := PrintSuggestions(&buf, "text", nil); err != nil {
		t.Fatalf("PrintSuggestions: %v", err)
	}
	if !strings.Contains(buf.String(), "no reviewers to suggest") {
		t.Fatalf("unexpected empty output:\n%s", buf.String())
	}
}

func TestPrintStatuses(t *testing.T) {
	statuses := []score.PathStatusResult{
		{Path: "/a.go", Status: score.StatusApproved, Reason: "approved by code owner alice"},
		{Path: "/b.go", Status: score.StatusInsufficientReviewers, Reason: "no code owner is currently a reviewer"},
	}

	var buf bytes.Buffer
	if err := PrintStatuses(&buf, "text", statuses); err != nil {
		t.Fatalf("PrintStatuses: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"/a.go", "APPROVED", "/b.go", "INSUFFICIENT_REVIEWERS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := PrintStatuses(&buf, "json", statuses); err != nil {
		t.Fatalf("PrintStatuses json: %v", err)
	}
	var decoded []score.PathStatusResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Status != score.StatusInsufficientReviewers {
		t.Fatalf("unexpected decoded statuses: %+v", decoded)
	}
}
