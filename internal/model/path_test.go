package model

import (
	"reflect"
	"testing"
)

func TestNormalizeFilePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"docs/config.md", "/docs/config.md"},
		{"/docs/config.md", "/docs/config.md"},
		{"//docs//config.md", "/docs/config.md"},
		{"docs/../README.md", "/README.md"},
		{"/", "/"},
		{"", "/"},
	}
	for _, tc := range tests {
		if got := NormalizeFilePath(tc.in); got != tc.want {
			t.Errorf("NormalizeFilePath(%q): want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeFolder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"docs", "/docs/"},
		{"/docs/", "/docs/"},
		{"/", "/"},
		{"", "/"},
		{"a/b", "/a/b/"},
	}
	for _, tc := range tests {
		if got := NormalizeFolder(tc.in); got != tc.want {
			t.Errorf("NormalizeFolder(%q): want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParentFolders(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/foo/bar/baz.md", []string{"/foo/bar/", "/foo/", "/"}},
		{"/README.md", []string{"/"}},
		{"foo/file.go", []string{"/foo/", "/"}},
	}
	for _, tc := range tests {
		if got := ParentFolders(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParentFolders(%q): want %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		file   string
		folder string
		want   string
		ok     bool
	}{
		{"/foo/bar/baz.md", "/foo/", "bar/baz.md", true},
		{"/foo/bar/baz.md", "/foo/bar/", "baz.md", true},
		{"/foo/bar/baz.md", "/", "foo/bar/baz.md", true},
		{"/foo/bar/baz.md", "/other/", "", false},
		{"/foobar/x.md", "/foo/", "", false},
	}
	for _, tc := range tests {
		got, ok := RelativeTo(tc.file, tc.folder)
		if ok != tc.ok || got != tc.want {
			t.Errorf("RelativeTo(%q, %q): want (%q, %v), got (%q, %v)", tc.file, tc.folder, tc.want, tc.ok, got, ok)
		}
	}
}

func TestMatchPathExprs(t *testing.T) {
	tests := []struct {
		name  string
		exprs []string
		rel   string
		want  bool
	}{
		{"exact name", []string{"BUILD"}, "BUILD", true},
		{"star within segment", []string{"*.md"}, "notes.md", true},
		{"star does not cross segments", []string{"*.md"}, "docs/notes.md", false},
		{"double star crosses segments", []string{"**/*.md"}, "docs/sub/notes.md", true},
		{"any of several", []string{"*.go", "*.md"}, "main.go", true},
		{"none match", []string{"*.go"}, "main.rs", false},
		{"bad pattern matches nothing", []string{"[unterminated"}, "x", false},
		{"empty expressions", nil, "anything", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchPathExprs(tc.exprs, tc.rel); got != tc.want {
				t.Fatalf("MatchPathExprs(%v, %q): want %v, got %v", tc.exprs, tc.rel, tc.want, got)
			}
		})
	}
}
