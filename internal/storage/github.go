package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/go-github/v81/github"

	gh "whoowns/internal/github"
)

// GitHubReader reads file content from GitHub. A project is an
// "owner/repo" pair; branches and revisions map onto git refs.
type GitHubReader struct {
	client *gh.Client

	// repoKnown caches per-project existence probes so a tree with many
	// missing declaration files doesn't re-classify the project on every 404.
	repoKnown sync.Map // project -> bool
}

func NewGitHubReader(client *gh.Client) *GitHubReader {
	return &GitHubReader{client: client}
}

func (r *GitHubReader) ReadFile(ctx context.Context, project, branch, path, revision string) ([]byte, error) {
	owner, name, ok := strings.Cut(project, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid project %q (expected owner/repo): %w", project, ErrProjectNotFound)
	}

	ref := revision
	if ref == "" {
		ref = branch
	}

	file, _, resp, err := r.client.REST.Repositories.GetContents(ctx, owner, name,
		strings.TrimPrefix(path, "/"), &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		switch {
		case resp != nil && resp.StatusCode == http.StatusNotFound:
			if r.projectExists(ctx, owner, name) {
				return nil, ErrNotFound
			}
			return nil, ErrProjectNotFound
		case resp != nil && (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized):
			return nil, ErrProjectUnreadable
		default:
			return nil, fmt.Errorf("read %s:%s:%s@%s: %w", project, branch, path, ref, err)
		}
	}
	if file == nil {
		// GetContents returns a directory listing when pointed at a folder.
		return nil, ErrNotFound
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s:%s:%s@%s: %w", project, branch, path, ref, err)
	}
	return []byte(content), nil
}

func (r *GitHubReader) projectExists(ctx context.Context, owner, name string) bool {
	project := owner + "/" + name
	if v, ok := r.repoKnown.Load(project); ok {
		return v.(bool)
	}
	_, resp, err := r.client.REST.Repositories.Get(ctx, owner, name)
	exists := err == nil || resp == nil || resp.StatusCode != http.StatusNotFound
	r.repoKnown.Store(project, exists)
	return exists
}
