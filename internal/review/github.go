package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v81/github"

	gh "whoowns/internal/github"
	"whoowns/internal/identity"
	"whoowns/internal/model"
)

// GitHubReader reads review state from pull requests.
type GitHubReader struct {
	client *gh.Client
}

func NewGitHubReader(client *gh.Client) *GitHubReader {
	return &GitHubReader{client: client}
}

func (r *GitHubReader) ChangeOwner(ctx context.Context, change Change) (identity.Account, error) {
	owner, name, err := splitProject(change.Project)
	if err != nil {
		return identity.Account{}, err
	}
	pr, _, err := r.client.REST.PullRequests.Get(ctx, owner, name, change.Number)
	if err != nil {
		return identity.Account{}, fmt.Errorf("get pull request %s#%d: %w", change.Project, change.Number, err)
	}
	return accountFromUser(pr.GetUser()), nil
}

func (r *GitHubReader) ListChangedFiles(ctx context.Context, change Change) ([]string, error) {
	owner, name, err := splitProject(change.Project)
	if err != nil {
		return nil, err
	}

	var paths []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := r.client.REST.PullRequests.ListFiles(ctx, owner, name, change.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("list files of %s#%d: %w", change.Project, change.Number, err)
		}
		for _, f := range files {
			paths = append(paths, model.NormalizeFilePath(f.GetFilename()))
		}
		if resp.NextPage == 0 {
			return paths, nil
		}
		opts.Page = resp.NextPage
	}
}

func (r *GitHubReader) ListReviewers(ctx context.Context, change Change) ([]identity.Account, error) {
	owner, name, err := splitProject(change.Project)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var out []identity.Account

	// Requested reviewers have not reviewed yet; reviewers that already
	// voted only appear on the reviews themselves.
	reviewers, _, err := r.client.REST.PullRequests.ListReviewers(ctx, owner, name, change.Number, nil)
	if err != nil {
		return nil, fmt.Errorf("list reviewers of %s#%d: %w", change.Project, change.Number, err)
	}
	for _, u := range reviewers.Users {
		if a := accountFromUser(u); !seen[a.ID] {
			seen[a.ID] = true
			out = append(out, a)
		}
	}

	reviews, _, err := r.client.REST.PullRequests.ListReviews(ctx, owner, name, change.Number, nil)
	if err != nil {
		return nil, fmt.Errorf("list reviews of %s#%d: %w", change.Project, change.Number, err)
	}
	for _, rev := range reviews {
		if a := accountFromUser(rev.GetUser()); a.ID != 0 && !seen[a.ID] {
			seen[a.ID] = true
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *GitHubReader) ListVotes(ctx context.Context, change Change, label string) (map[int64]int, error) {
	owner, name, err := splitProject(change.Project)
	if err != nil {
		return nil, err
	}

	reviews, _, err := r.client.REST.PullRequests.ListReviews(ctx, owner, name, change.Number, nil)
	if err != nil {
		return nil, fmt.Errorf("list reviews of %s#%d: %w", change.Project, change.Number, err)
	}

	// Reviews arrive oldest first; the last vote per account wins.
	votes := make(map[int64]int)
	for _, rev := range reviews {
		id := rev.GetUser().GetID()
		if id == 0 {
			continue
		}
		switch rev.GetState() {
		case "APPROVED":
			votes[id] = 2
		case "CHANGES_REQUESTED":
			votes[id] = -2
		case "COMMENTED":
			// A comment does not overwrite an earlier vote.
			if _, ok := votes[id]; !ok {
				votes[id] = 0
			}
		}
	}
	return votes, nil
}

func accountFromUser(u *github.User) identity.Account {
	return identity.Account{
		ID:       u.GetID(),
		Username: u.GetLogin(),
		Email:    u.GetEmail(),
		Active:   u.SuspendedAt == nil,
	}
}

func splitProject(project string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(project, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid project %q (expected owner/repo)", project)
	}
	return owner, name, nil
}
