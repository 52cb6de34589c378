package identity

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	gh "whoowns/internal/github"
)

// GitHubDirectory resolves emails against GitHub user search.
//
// GitHub only indexes public profile emails, so accounts that hide their
// email resolve to zero matches, which the Resolver reports as "no account
// with this email". Secondary emails are never exposed by the API, so
// CanSeeSecondaryEmails is always false for GitHub-backed resolution.
type GitHubDirectory struct {
	client *gh.Client
}

func NewGitHubDirectory(client *gh.Client) *GitHubDirectory {
	return &GitHubDirectory{client: client}
}

func (d *GitHubDirectory) LookupEmail(ctx context.Context, email string) ([]Account, error) {
	query := fmt.Sprintf("%s in:email", email)
	res, _, err := d.client.REST.Search.Users(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 10},
	})
	if err != nil {
		return nil, fmt.Errorf("search users by email: %w", err)
	}

	var out []Account
	for _, u := range res.Users {
		// The search endpoint returns partial users; fetch the full record
		// for the suspension flag.
		full, _, err := d.client.REST.Users.Get(ctx, u.GetLogin())
		if err != nil {
			return nil, fmt.Errorf("get user %q: %w", u.GetLogin(), err)
		}
		out = append(out, Account{
			ID:       full.GetID(),
			Username: full.GetLogin(),
			Email:    full.GetEmail(),
			Active:   full.SuspendedAt == nil,
		})
	}
	return out, nil
}

func (d *GitHubDirectory) CanSee(ctx context.Context, viewer string, account Account) (bool, error) {
	// Public GitHub profiles are visible to everyone; a user that cannot be
	// fetched is treated as not visible.
	_, resp, err := d.client.REST.Users.Get(ctx, account.Username)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return false, nil
		}
		return false, fmt.Errorf("get user %q: %w", account.Username, err)
	}
	return true, nil
}

func (d *GitHubDirectory) CanSeeSecondaryEmails(ctx context.Context, viewer string) (bool, error) {
	return false, nil
}
