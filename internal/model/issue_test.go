package model

import (
	"reflect"
	"testing"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityWarning, "WARNING"},
		{SeverityError, "ERROR"},
		{SeverityFatal, "FATAL"},
		{Severity(42), "Severity(42)"},
	}
	for _, tc := range tests {
		if got := tc.sev.String(); got != tc.want {
			t.Errorf("String(): want %q, got %q", tc.want, got)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"warning", SeverityWarning, false},
		{"ERROR", SeverityError, false},
		{" Fatal ", SeverityFatal, false},
		{"critical", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseSeverity(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSeverity(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSeverity(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSeverity(%q): want %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityWarning < SeverityError && SeverityError < SeverityFatal) {
		t.Fatalf("severity ordering broken: %d %d %d", SeverityWarning, SeverityError, SeverityFatal)
	}
}

func TestFilterIssues(t *testing.T) {
	issues := []ConsistencyIssue{
		{Path: "/OWNERS", Severity: SeverityWarning, Message: "w"},
		{Path: "/OWNERS", Severity: SeverityError, Message: "e"},
		{Path: "/OWNERS", Severity: SeverityFatal, Message: "f"},
	}

	got := FilterIssues(issues, SeverityError)
	want := []ConsistencyIssue{issues[1], issues[2]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterIssues: want %v, got %v", want, got)
	}

	if got := FilterIssues(issues, SeverityWarning); len(got) != 3 {
		t.Fatalf("FilterIssues at warning: want 3 issues, got %d", len(got))
	}
	if got := FilterIssues(nil, SeverityWarning); got != nil {
		t.Fatalf("FilterIssues(nil): want nil, got %v", got)
	}
}

func TestSeverityMarshalText(t *testing.T) {
	b, err := SeverityError.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(b) != "ERROR" {
		t.Fatalf("MarshalText: want ERROR, got %q", b)
	}

	var s Severity
	if err := s.UnmarshalText([]byte("fatal")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if s != SeverityFatal {
		t.Fatalf("UnmarshalText: want %v, got %v", SeverityFatal, s)
	}
	if err := s.UnmarshalText([]byte("nope")); err == nil {
		t.Fatalf("UnmarshalText: expected error for unknown severity")
	}
}
