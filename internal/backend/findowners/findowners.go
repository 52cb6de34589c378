// Package findowners implements the textual OWNERS grammar.
//
// Grammar, one directive per line ('#' starts a comment, except in
// annotation blocks):
//
//	alice@example.com                      owner of every file under the folder
//	bob@example.com #{NEVER_SUGGEST}       owner with annotations
//	*                                      every account is an owner
//	set noparent                           ignore parent folders
//	include [project[:branch]:]/path       import every owner set of the target
//	file:[project[:branch]:]/path          import only the target's global sets
//	per-file <globs> = <owners>            owners scoped to matching files
//	per-file <globs> = set noparent        matching files ignore parent and global owners
//	per-file <globs> = file:/path          matching files borrow the target's global owners
package findowners

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"whoowns/internal/backend"
	"whoowns/internal/model"
)

type findOwners struct{}

func (findOwners) Name() string {
	return "find-owners"
}

func (findOwners) FileName() string {
	return "OWNERS"
}

func (findOwners) Parse(path string, content []byte) (*model.Declaration, error) {
	var (
		global  model.OwnerSet
		perFile []model.OwnerSet
		imports []model.ImportRef
	)

	sc := bufio.NewScanner(bytes.NewReader(content))
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(stripComment(sc.Text()))
		if line == "" {
			continue
		}

		switch {
		case line == "set noparent":
			global.IgnoreParent = true

		case strings.HasPrefix(line, "include "):
			ref, err := parseTarget(strings.TrimSpace(strings.TrimPrefix(line, "include ")), model.ImportAll)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", ln, err)
			}
			imports = append(imports, ref)

		case strings.HasPrefix(line, "file:"):
			ref, err := parseTarget(strings.TrimSpace(strings.TrimPrefix(line, "file:")), model.ImportGlobalSetsOnly)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", ln, err)
			}
			imports = append(imports, ref)

		case strings.HasPrefix(line, "per-file "):
			set, err := parsePerFile(strings.TrimSpace(strings.TrimPrefix(line, "per-file ")))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", ln, err)
			}
			perFile = append(perFile, set)

		default:
			ref, err := parseOwner(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", ln, err)
			}
			global.Owners = append(global.Owners, ref)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	decl := &model.Declaration{Imports: imports}
	if len(global.Owners) > 0 || global.IgnoreParent {
		decl.Sets = append(decl.Sets, global)
	}
	decl.Sets = append(decl.Sets, perFile...)
	return decl, nil
}

// stripComment removes a trailing comment. A '#' opens a comment unless it is
// the start of an annotation block "#{".
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			continue
		}
		if i+1 < len(line) && line[i+1] == '{' {
			continue
		}
		return line[:i]
	}
	return line
}

// parseOwner parses an owner token followed by optional annotation blocks,
// e.g. "bob@example.com #{NEVER_SUGGEST}".
func parseOwner(s string) (model.AnnotatedRef, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return model.AnnotatedRef{}, fmt.Errorf("empty owner reference")
	}

	ref := fields[0]
	if ref != model.AllUsers && !strings.Contains(ref, "@") {
		return model.AnnotatedRef{}, fmt.Errorf("invalid owner reference %q (expected an email or %q)", ref, model.AllUsers)
	}

	var annotations []string
	for _, f := range fields[1:] {
		if !strings.HasPrefix(f, "#{") || !strings.HasSuffix(f, "}") {
			return model.AnnotatedRef{}, fmt.Errorf("invalid annotation %q (expected #{KEY})", f)
		}
		key := f[2 : len(f)-1]
		if key == "" {
			return model.AnnotatedRef{}, fmt.Errorf("empty annotation key in %q", f)
		}
		annotations = append(annotations, key)
	}

	return model.AnnotatedRef{Ref: model.OwnerRef(ref), Annotations: annotations}, nil
}

// parseTarget parses an import target of the form
// "[project[:branch]:]/path".
func parseTarget(s string, mode model.ImportMode) (model.ImportRef, error) {
	if s == "" {
		return model.ImportRef{}, fmt.Errorf("empty import target")
	}
	parts := strings.Split(s, ":")
	ref := model.ImportRef{Mode: mode}
	switch len(parts) {
	case 1:
		ref.Path = parts[0]
	case 2:
		ref.Project, ref.Path = parts[0], parts[1]
	case 3:
		ref.Project, ref.Branch, ref.Path = parts[0], parts[1], parts[2]
	default:
		return model.ImportRef{}, fmt.Errorf("invalid import target %q (expected [project[:branch]:]/path)", s)
	}
	if ref.Path == "" {
		return model.ImportRef{}, fmt.Errorf("invalid import target %q: empty path", s)
	}
	ref.Path = model.NormalizeFilePath(ref.Path)
	return ref, nil
}

// parsePerFile parses the remainder of a "per-file" directive:
// "<globs> = <owners>|set noparent|file:<target>".
func parsePerFile(s string) (model.OwnerSet, error) {
	left, right, ok := strings.Cut(s, "=")
	if !ok {
		return model.OwnerSet{}, fmt.Errorf("invalid per-file directive %q (expected globs = owners)", s)
	}

	var exprs []string
	for _, e := range strings.Split(left, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 0 {
		return model.OwnerSet{}, fmt.Errorf("per-file directive %q has no path expressions", s)
	}

	set := model.OwnerSet{PathExprs: exprs}

	right = strings.TrimSpace(right)
	switch {
	case right == "set noparent":
		set.IgnoreParent = true
	case strings.HasPrefix(right, "file:"):
		ref, err := parseTarget(strings.TrimSpace(strings.TrimPrefix(right, "file:")), model.ImportGlobalSetsOnly)
		if err != nil {
			return model.OwnerSet{}, err
		}
		set.Imports = append(set.Imports, ref)
	case right == "":
		return model.OwnerSet{}, fmt.Errorf("per-file directive %q has no owners", s)
	default:
		for _, tok := range strings.Split(right, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			ref, err := parseOwner(tok)
			if err != nil {
				return model.OwnerSet{}, err
			}
			set.Owners = append(set.Owners, ref)
		}
	}

	return set, nil
}

func init() {
	backend.Register(findOwners{})
}
