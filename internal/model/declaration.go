// Package model holds the canonical in-memory shape of ownership
// declarations, independent of the grammar they were parsed from.
//
// A Declaration is the parsed ownership rules for one folder of a branch.
// Declarations are immutable once parsed: a new revision produces a new
// instance, never a mutation of an old one.
package model

import "strings"

// Key identifies a declaration by the folder it governs.
//
// Folder is repository-relative, starts with "/" and always ends with "/"
// (the repository root is "/"). A declaration's folder is always an ancestor
// of, or equal to, any path it governs.
type Key struct {
	Project string
	Branch  string
	Folder  string
}

func (k Key) String() string {
	return k.Project + ":" + k.Branch + ":" + k.Folder
}

// ImportMode controls which owner sets an import pulls in.
type ImportMode int

const (
	// ImportAll imports every owner set of the target declaration.
	ImportAll ImportMode = iota

	// ImportGlobalSetsOnly imports only globally-scoped owner sets (those
	// without path expressions). This is the mode used when an import is
	// nested inside a per-file owner set: the per-file rule borrows the
	// blanket owners of the target, not its per-file rules.
	ImportGlobalSetsOnly
)

func (m ImportMode) String() string {
	switch m {
	case ImportAll:
		return "all"
	case ImportGlobalSetsOnly:
		return "global-sets-only"
	default:
		return "unknown"
	}
}

// ImportRef is a reference from one declaration to another declaration file.
// Project and Branch default to the importing declaration's own when empty.
type ImportRef struct {
	Project string
	Branch  string
	Path    string // repository-relative file path, "/" prefixed
	Mode    ImportMode
}

// Display renders the reference the way it is shown in messages and traces.
// Project and branch are included only when they were specified explicitly.
func (r ImportRef) Display() string {
	var b strings.Builder
	if r.Project != "" {
		b.WriteString(r.Project)
		b.WriteString(":")
		if r.Branch != "" {
			b.WriteString(r.Branch)
			b.WriteString(":")
		}
	}
	b.WriteString(r.Path)
	return b.String()
}

// OwnerSet is a group of owners, optionally scoped to path expressions.
//
// A set without path expressions is "global": it applies to every file under
// the declaration's folder. A set with path expressions is "per-file" and
// applies only to files matching at least one expression.
type OwnerSet struct {
	// PathExprs scopes this set to matching files. Empty means global.
	PathExprs []string

	// Owners are the raw owner references of this set, in declaration order.
	Owners []AnnotatedRef

	// IgnoreParent makes a matching set terminal: parent folders and global
	// sets in the same file are not consulted for the matched path. On a
	// global set it stops the hierarchy walk for every path under the folder.
	IgnoreParent bool

	// IgnoreGlobal drops global sets in the same file for matched paths
	// without stopping the walk at parent folders.
	IgnoreGlobal bool

	// Imports are import references scoped to this set's path expressions.
	// They always import in ImportGlobalSetsOnly mode.
	Imports []ImportRef
}

// Global reports whether the set applies to every file under the folder.
func (s OwnerSet) Global() bool {
	return len(s.PathExprs) == 0
}

// Declaration is the parsed ownership rules for one folder.
type Declaration struct {
	Key  Key
	Path string // file path the declaration was parsed from

	// Sets holds the owner sets in declaration order.
	Sets []OwnerSet

	// Imports holds the declaration-level import references in order.
	Imports []ImportRef
}
