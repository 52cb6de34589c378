package resolve

import (
	"context"
	"errors"
	"fmt"

	"whoowns/internal/model"
	"whoowns/internal/storage"
	"whoowns/internal/trace"
)

// fileKey identifies a declaration file within one resolution pass.
type fileKey struct {
	project string
	branch  string
	path    string
}

// loadResult is the memoized outcome of loading one declaration file.
type loadResult struct {
	decl     *model.Declaration
	missing  bool  // file does not exist at the revision
	parseErr error // file exists but is not parseable
	readErr  error // storage-level failure (project missing/unreadable, I/O)
}

// pass holds the per-resolution state of one path query.
//
// The memo table is mandatory: it bounds cost on diamond and transitive
// imports. It is scoped to the pass and never shared across revisions;
// revision-scoped content caching happens below, in storage.CachedReader.
type pass struct {
	eng *Engine
	q   Query
	tr  trace.Sink

	memo   map[fileKey]*loadResult
	issues []model.ConsistencyIssue
}

func newPass(eng *Engine, q Query, tr trace.Sink) *pass {
	if tr == nil {
		tr = trace.Nop()
	}
	return &pass{
		eng:  eng,
		q:    q,
		tr:   tr,
		memo: make(map[fileKey]*loadResult),
	}
}

// loadFile reads and parses one declaration file, memoized per pass.
func (p *pass) loadFile(ctx context.Context, project, branch, path string) *loadResult {
	key := fileKey{project, branch, path}
	if res, ok := p.memo[key]; ok {
		return res
	}

	res := &loadResult{}
	p.memo[key] = res

	// The query revision pins only the queried branch; declarations imported
	// from other projects or branches are read at the branch head.
	revision := ""
	if project == p.q.Project && branch == p.q.Branch {
		revision = p.q.Revision
	}

	content, err := p.eng.Reader.ReadFile(ctx, project, branch, path, revision)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			res.missing = true
			return res
		}
		res.readErr = err
		return res
	}

	decl, err := p.eng.Backend.Parse(path, content)
	if err != nil {
		res.parseErr = err
		return res
	}

	decl.Key = model.Key{Project: project, Branch: branch, Folder: model.NormalizeFolder(parentOf(path))}
	decl.Path = path
	res.decl = decl
	return res
}

func (p *pass) issue(path string, severity model.Severity, format string, args ...any) {
	p.issues = append(p.issues, model.ConsistencyIssue{
		Path:     path,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

// sourceDisplay renders a declaration file reference for provenance and
// messages: the bare path for the queried project/branch, a prefixed form
// otherwise.
func (p *pass) sourceDisplay(project, branch, path string) string {
	if project == p.q.Project && branch == p.q.Branch {
		return path
	}
	return project + ":" + branch + ":" + path
}

func parentOf(filePath string) string {
	folders := model.ParentFolders(filePath)
	return folders[0]
}
