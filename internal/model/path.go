package model

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NormalizeFilePath cleans a repository-relative file path to "/"-prefixed
// form without a trailing slash.
func NormalizeFilePath(p string) string {
	p = path.Clean("/" + strings.TrimPrefix(p, "/"))
	return p
}

// NormalizeFolder cleans a repository-relative folder path to "/"-prefixed,
// "/"-suffixed form. The repository root is "/".
func NormalizeFolder(p string) string {
	p = NormalizeFilePath(p)
	if p == "/" {
		return p
	}
	return p + "/"
}

// ParentFolders returns the ancestor folders of a file path, closest first,
// ending with the repository root "/".
//
//	ParentFolders("/foo/bar/baz.md") == ["/foo/bar/", "/foo/", "/"]
func ParentFolders(filePath string) []string {
	filePath = NormalizeFilePath(filePath)
	var folders []string
	dir := path.Dir(filePath)
	for {
		folders = append(folders, NormalizeFolder(dir))
		if dir == "/" {
			return folders
		}
		dir = path.Dir(dir)
	}
}

// RelativeTo returns the path of file relative to folder, without a leading
// slash. It returns false if folder is not an ancestor of file.
func RelativeTo(filePath, folder string) (string, bool) {
	filePath = NormalizeFilePath(filePath)
	folder = NormalizeFolder(folder)
	if folder == "/" {
		return strings.TrimPrefix(filePath, "/"), true
	}
	if !strings.HasPrefix(filePath, folder) {
		return "", false
	}
	return strings.TrimPrefix(filePath, folder), true
}

// MatchPathExprs reports whether the relative path matches at least one of
// the given glob expressions.
//
// Matching follows standard glob semantics: '*' matches within a path
// segment, '**' matches across segments, and plain names match exactly.
// An expression that fails to compile matches nothing.
func MatchPathExprs(exprs []string, rel string) bool {
	for _, expr := range exprs {
		ok, err := doublestar.Match(expr, rel)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
