// Package resolve implements the ownership resolution engine: the hierarchy
// walk over ancestor folders, import resolution, owner set evaluation and
// identity resolution, producing deterministic, explainable per-path owner
// results.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"whoowns/internal/backend"
	"whoowns/internal/identity"
	"whoowns/internal/model"
	"whoowns/internal/storage"
	"whoowns/internal/trace"
)

// Options is the static policy of an Engine.
type Options struct {
	// DefaultsBranch names the branch holding the project-wide default
	// declaration (a declaration file at the repository root of that
	// branch). Empty disables the defaults tier.
	DefaultsBranch string

	// GlobalOwners are statically configured process-wide owners, consulted
	// after every folder and the defaults tier.
	GlobalOwners []string

	// FallbackOwners is consulted only when no declaration-based owner
	// exists and no terminal set fired: "none" or "all-users".
	FallbackOwners string
}

// Engine resolves code ownership. It is a pure function of its inputs: it
// holds no per-query state and many queries may run concurrently.
type Engine struct {
	Reader   storage.RevisionReader
	Backend  backend.Backend
	Identity *identity.Resolver
	Opts     Options
}

// Query asks for the owners of one path at one revision.
type Query struct {
	Project  string
	Branch   string
	Revision string // empty means the branch head
	Path     string // repository-relative file path

	// ActingUser is the identity account visibility is evaluated against:
	// the uploader for review-validation checks, the caller for lookups.
	ActingUser string
}

// Validate rejects caller-input errors before any resolution work begins.
func (q Query) Validate() error {
	if q.Project == "" {
		return errors.New("project is required")
	}
	if q.Branch == "" {
		return errors.New("branch is required")
	}
	if strings.TrimSpace(q.Path) == "" {
		return errors.New("path is required")
	}
	return nil
}

// Owner is one resolved code owner of a path.
type Owner struct {
	Account identity.Account `json:"account"`

	// Distance ranks the declaration the owner was found in: 0 is the
	// folder closest to the path; the defaults and global tiers follow the
	// repository root.
	Distance int `json:"distance"`

	// Annotations holds the interpreted annotation keys that apply to this
	// owner, sorted. Unknown keys are dropped.
	Annotations []string `json:"annotations,omitempty"`

	// FoundIn lists the declaration files the owner was found in, closest
	// first.
	FoundIn []string `json:"found_in"`

	// NeverSuggest is set when the owner is annotated NEVER_SUGGEST through
	// every provenance it was found in.
	NeverSuggest bool `json:"-"`
}

// PathResult is the outcome of one per-path owner query.
type PathResult struct {
	Path string `json:"path"`

	// Owners lists resolved owners, closest declaration first. An account
	// appears at most once.
	Owners []Owner `json:"owners"`

	// AllUsers is set when the all-users sentinel was found anywhere in the
	// applicable chain (or the fallback tier supplied it): every existing,
	// active, visible account is an owner.
	AllUsers bool `json:"is_owned_by_all_users"`

	// Issues are the consistency findings collected while resolving.
	Issues []model.ConsistencyIssue `json:"issues,omitempty"`
}

// OwnersForPath resolves the owners of one path.
//
// The resolution is synchronous and deterministic: resolving the same
// (path, revision) twice yields identical ordering and identical account
// sets. The trace sink, when non-nil, receives one line per decision.
func (e *Engine) OwnersForPath(ctx context.Context, q Query, tr trace.Sink) (*PathResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.Path = model.NormalizeFilePath(q.Path)

	p := newPass(e, q, tr)
	contribs, terminated, err := p.walk(ctx)
	if err != nil {
		return nil, err
	}

	res := &PathResult{Path: q.Path}
	e.collectOwners(ctx, p, contribs, res)

	if !terminated && len(res.Owners) == 0 && !res.AllUsers && e.Opts.FallbackOwners == "all-users" {
		p.tr.Logf("no code owners found for %s: falling back to all users", q.Path)
		res.AllUsers = true
	}

	res.Issues = p.issues
	return res, nil
}

// walk visits the declaration at each ancestor folder, closest first, then
// the defaults and global tiers.
func (p *pass) walk(ctx context.Context) (contribs []contribution, terminated bool, err error) {
	distance := 0
	for _, folder := range model.ParentFolders(p.q.Path) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		declPath := declarationPath(folder, p.eng.Backend)
		res := p.loadFile(ctx, p.q.Project, p.q.Branch, declPath)
		switch {
		case res.missing:
			p.tr.Logf("no declaration at %s", folder)
			continue
		case res.readErr != nil:
			// A storage failure on the path's own chain fails the query.
			return nil, false, fmt.Errorf("load declaration at %s: %w", folder, res.readErr)
		case res.parseErr != nil:
			p.tr.Logf("declaration at %s is not parseable", folder)
			p.issue(declPath, model.SeverityFatal, "invalid code owner config file '%s': %s", declPath, res.parseErr)
			continue
		}

		sets := p.effectiveSets(ctx, res.decl)
		c := p.evaluateSets(sets, folder, p.q.Path, distance)
		distance++
		if len(c.refs) > 0 || c.terminal {
			contribs = append(contribs, c)
		}
		if c.terminal {
			p.tr.Logf("declaration at %s is final for %s: parent folders not consulted", folder, p.q.Path)
			return contribs, true, nil
		}
	}

	if branch := p.eng.Opts.DefaultsBranch; branch != "" {
		c, terminal := p.defaultsTier(ctx, branch, distance)
		distance++
		if len(c.refs) > 0 || terminal {
			contribs = append(contribs, c)
		}
		if terminal {
			p.tr.Logf("default declaration on %s is final for %s", branch, p.q.Path)
			return contribs, true, nil
		}
	}

	if owners := p.eng.Opts.GlobalOwners; len(owners) > 0 {
		c := contribution{folder: "/", distance: distance}
		for _, o := range owners {
			c.refs = append(c.refs, refWithSource{
				ref:    model.AnnotatedRef{Ref: model.OwnerRef(o)},
				source: "<global>",
			})
		}
		p.tr.Logf("adding %d global code owners", len(owners))
		contribs = append(contribs, c)
	}

	return contribs, false, nil
}

// defaultsTier evaluates the project-wide default declaration stored at a
// fixed branch.
func (p *pass) defaultsTier(ctx context.Context, branch string, distance int) (contribution, bool) {
	declPath := declarationPath("/", p.eng.Backend)
	res := p.loadFile(ctx, p.q.Project, branch, declPath)
	switch {
	case res.missing:
		p.tr.Logf("no default declaration on %s", branch)
		return contribution{}, false
	case res.readErr != nil:
		p.issue(p.sourceDisplay(p.q.Project, branch, declPath), model.SeverityError,
			"default code owner config cannot be read: %v", res.readErr)
		return contribution{}, false
	case res.parseErr != nil:
		src := p.sourceDisplay(p.q.Project, branch, declPath)
		p.issue(src, model.SeverityFatal, "invalid code owner config file '%s': %s", src, res.parseErr)
		return contribution{}, false
	}

	sets := p.effectiveSets(ctx, res.decl)
	c := p.evaluateSets(sets, "/", p.q.Path, distance)
	return c, c.terminal
}

// collectOwners resolves the raw references of the walk's contributions into
// accounts and collapses duplicate accounts across provenances.
func (e *Engine) collectOwners(ctx context.Context, p *pass, contribs []contribution, res *PathResult) {
	byID := make(map[int64]int) // account ID -> index into res.Owners
	resolutions := make(map[model.OwnerRef]identity.Resolution)

	for _, c := range contribs {
		for _, rw := range c.refs {
			if rw.ref.Ref.IsAllUsers() {
				p.tr.Logf("all-users owner found in %s", rw.source)
				res.AllUsers = true
				continue
			}

			r, ok := resolutions[rw.ref.Ref]
			if !ok {
				var err error
				r, err = e.Identity.Resolve(ctx, rw.ref.Ref, p.q.ActingUser, p.tr)
				if err != nil {
					// Identity-collaborator unavailability is scoped to this
					// reference, not the whole resolution.
					r = identity.Resolution{Reason: err.Error()}
				}
				resolutions[rw.ref.Ref] = r
			}
			if !r.Resolved {
				p.issue(rw.source, model.SeverityError,
					"code owner email '%s' in '%s' cannot be resolved for %s: %s",
					rw.ref.Ref, rw.source, p.q.ActingUser, r.Reason)
				continue
			}

			neverHere := rw.ref.HasAnnotation(model.AnnotationNeverSuggest)
			if idx, seen := byID[r.Account.ID]; seen {
				o := &res.Owners[idx]
				o.Annotations = mergeAnnotations(o.Annotations, rw.ref.KnownAnnotations())
				o.NeverSuggest = o.NeverSuggest && neverHere
				o.FoundIn = appendUnique(o.FoundIn, rw.source)
				continue
			}

			byID[r.Account.ID] = len(res.Owners)
			res.Owners = append(res.Owners, Owner{
				Account:      r.Account,
				Distance:     c.distance,
				Annotations:  rw.ref.KnownAnnotations(),
				FoundIn:      []string{rw.source},
				NeverSuggest: neverHere,
			})
		}
	}
}

// CheckPaths resolves a set of paths concurrently and reports the
// consistency issues found for each, keyed by path. Each path gets its own
// resolution pass; the passes share the engine's revision-scoped content
// cache. Results are merged deterministically.
func (e *Engine) CheckPaths(ctx context.Context, base Query, paths []string, concurrency int, tr trace.Sink) (map[string][]model.ConsistencyIssue, error) {
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	if len(paths) == 0 {
		return nil, errors.New("at least one path is required")
	}

	var mu sync.Mutex
	out := make(map[string][]model.ConsistencyIssue, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, path := range paths {
		g.Go(func() error {
			q := base
			q.Path = path
			res, err := e.OwnersForPath(gctx, q, tr)
			if err != nil {
				return fmt.Errorf("check %s: %w", path, err)
			}
			mu.Lock()
			out[model.NormalizeFilePath(path)] = res.Issues
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolvePaths resolves owners for several paths concurrently, returning
// results in the input path order.
func (e *Engine) ResolvePaths(ctx context.Context, base Query, paths []string, concurrency int, tr trace.Sink) ([]*PathResult, error) {
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}

	results := make([]*PathResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			q := base
			q.Path = path
			res, err := e.OwnersForPath(gctx, q, tr)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func declarationPath(folder string, b backend.Backend) string {
	if folder == "/" {
		return "/" + b.FileName()
	}
	return folder + b.FileName()
}

// importReadFailureReason maps storage failures onto the typed
// unresolved-import reasons.
func importReadFailureReason(err error) string {
	switch {
	case errors.Is(err, storage.ErrProjectNotFound):
		return "project does not exist"
	case errors.Is(err, storage.ErrProjectUnreadable):
		return "project is not readable"
	default:
		return err.Error()
	}
}

func mergeAnnotations(existing, more []string) []string {
	for _, k := range more {
		existing = appendUnique(existing, k)
	}
	sort.Strings(existing)
	return existing
}

func appendUnique(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}
