package resolve

import (
	"context"

	"whoowns/internal/model"
)

// setWithSource is an owner set together with the declaration file it came
// from, kept for provenance in traces, issues and owner output.
type setWithSource struct {
	set    model.OwnerSet
	source string
}

// effectiveSets merges a declaration's own owner sets with the sets pulled
// in by its imports, transitively.
//
// The visited set is keyed by (project, branch, file path) and seeded with
// the declaration itself, so mutually importing files are visited at most
// once per resolution pass: a revisit contributes nothing and is never
// re-descended into. Failed imports yield ERROR issues on the importing file
// and do not abort the merge.
func (p *pass) effectiveSets(ctx context.Context, decl *model.Declaration) []setWithSource {
	project, branch := decl.Key.Project, decl.Key.Branch
	self := fileKey{project, branch, decl.Path}
	visited := map[fileKey]bool{self: true}

	source := p.sourceDisplay(project, branch, decl.Path)
	var out []setWithSource
	for _, s := range decl.Sets {
		out = append(out, setWithSource{set: s, source: source})
	}

	for _, ref := range decl.Imports {
		p.mergeImport(ctx, visited, &out, project, branch, decl.Path, ref, nil, false)
	}
	for _, s := range decl.Sets {
		for _, ref := range s.Imports {
			// Imports nested in a per-file set borrow only the target's
			// global sets, re-scoped to the set's path expressions.
			p.mergeImport(ctx, visited, &out, project, branch, decl.Path, ref, s.PathExprs, true)
		}
	}
	return out
}

func (p *pass) mergeImport(ctx context.Context, visited map[fileKey]bool, out *[]setWithSource,
	fromProject, fromBranch, fromFile string, ref model.ImportRef, scope []string, forceGlobalOnly bool) {

	project := ref.Project
	if project == "" {
		project = fromProject
	}
	branch := ref.Branch
	if branch == "" {
		branch = fromBranch
	}

	mode := ref.Mode
	if forceGlobalOnly {
		mode = model.ImportGlobalSetsOnly
	}

	key := fileKey{project, branch, ref.Path}
	if visited[key] {
		p.tr.Logf("import %s from %s skipped: already visited in this pass", ref.Display(), fromFile)
		return
	}
	visited[key] = true

	res := p.loadFile(ctx, project, branch, ref.Path)
	if reason, failed := importFailure(res); failed {
		p.tr.Logf("import %s from %s failed: %s", ref.Display(), fromFile, reason)
		p.issue(fromFile, model.SeverityError, "%s cannot be resolved: %s", ref.Display(), reason)
		return
	}

	p.tr.Logf("import %s (mode=%s) merged into %s", ref.Display(), mode, fromFile)

	target := res.decl
	source := p.sourceDisplay(project, branch, ref.Path)
	for _, s := range target.Sets {
		if mode == model.ImportGlobalSetsOnly && !s.Global() {
			continue
		}
		merged := s
		if len(scope) > 0 {
			// Borrow the owners only: the importing per-file set controls
			// scoping and parent/global handling.
			merged = model.OwnerSet{PathExprs: scope, Owners: s.Owners}
		}
		*out = append(*out, setWithSource{set: merged, source: source})
	}

	// Transitive imports. A global-sets-only import narrows everything
	// imported through it to global sets as well.
	transitiveGlobalOnly := forceGlobalOnly || mode == model.ImportGlobalSetsOnly
	for _, next := range target.Imports {
		p.mergeImport(ctx, visited, out, project, branch, ref.Path, next, scope, transitiveGlobalOnly)
	}
	if mode == model.ImportAll {
		for _, s := range target.Sets {
			for _, next := range s.Imports {
				p.mergeImport(ctx, visited, out, project, branch, ref.Path, next, s.PathExprs, true)
			}
		}
	}
}

// importFailure classifies a load result into one of the typed
// unresolved-import reasons. The message text is part of the observable
// contract of the check view.
func importFailure(res *loadResult) (reason string, failed bool) {
	switch {
	case res.missing:
		return "code owner config does not exist", true
	case res.parseErr != nil:
		return "code owner config is not parseable", true
	case res.readErr != nil:
		return importReadFailureReason(res.readErr), true
	default:
		return "", false
	}
}
