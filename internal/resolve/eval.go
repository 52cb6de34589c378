package resolve

import (
	"whoowns/internal/model"
)

// refWithSource is a raw owner reference plus the declaration file it was
// found in.
type refWithSource struct {
	ref    model.AnnotatedRef
	source string
}

// contribution is the output of evaluating one folder's effective owner sets
// against the queried path.
type contribution struct {
	folder   string
	distance int
	refs     []refWithSource

	// terminal stops the hierarchy walk: the matched result is final and
	// parent folders, the default declaration, global owners and fallback
	// tiers are not consulted.
	terminal bool
}

// evaluateSets determines which of a folder's effective owner sets apply to
// the queried path and extracts their owner references.
//
// Rules:
//   - Global sets apply to every file under the folder.
//   - Per-file sets apply when a path expression matches the path relative
//     to the folder; non-matching per-file sets are skipped entirely.
//   - A matching per-file set with IgnoreParent is terminal for the path and
//     drops global sets in the same file. Sibling matching per-file sets are
//     kept.
//   - A matching per-file set with IgnoreGlobal drops the same file's global
//     sets without stopping the walk.
//   - A global set with IgnoreParent is terminal but keeps global sets.
func (p *pass) evaluateSets(sets []setWithSource, folder, filePath string, distance int) contribution {
	c := contribution{folder: folder, distance: distance}

	rel, ok := model.RelativeTo(filePath, folder)
	if !ok {
		p.tr.Logf("folder %s does not govern %s", folder, filePath)
		return c
	}

	dropGlobals := false
	var matched []setWithSource
	for _, sw := range sets {
		if sw.set.Global() {
			matched = append(matched, sw)
			if sw.set.IgnoreParent {
				p.tr.Logf("global set in %s ignores parent code owners", sw.source)
				c.terminal = true
			}
			continue
		}
		if !model.MatchPathExprs(sw.set.PathExprs, rel) {
			p.tr.Logf("per-file set %v in %s does not match %s", sw.set.PathExprs, sw.source, rel)
			continue
		}
		p.tr.Logf("per-file set %v in %s matches %s", sw.set.PathExprs, sw.source, rel)
		matched = append(matched, sw)
		if sw.set.IgnoreParent {
			p.tr.Logf("per-file set %v in %s ignores parent and global code owners", sw.set.PathExprs, sw.source)
			c.terminal = true
			dropGlobals = true
		}
		if sw.set.IgnoreGlobal {
			dropGlobals = true
		}
	}

	for _, sw := range matched {
		if dropGlobals && sw.set.Global() {
			p.tr.Logf("global set in %s dropped for %s", sw.source, rel)
			continue
		}
		for _, ref := range sw.set.Owners {
			c.refs = append(c.refs, refWithSource{ref: ref, source: sw.source})
		}
	}
	return c
}
