package identity

import (
	"context"
	"errors"
	"testing"

	"whoowns/internal/model"
	"whoowns/internal/trace"
)

func TestResolveAllUsers(t *testing.T) {
	r := NewResolver(NewInMemoryDirectory(), nil)
	res, err := r.Resolve(context.Background(), "*", "viewer", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.AllUsers || !res.Resolved {
		t.Fatalf("want all-users resolution, got %+v", res)
	}
}

func TestResolveReasons(t *testing.T) {
	dir := NewInMemoryDirectory()
	dir.Add(Account{ID: 1, Username: "alice", Email: "alice@example.com", Active: true})
	dir.Add(Account{ID: 2, Username: "bob", Email: "bob@example.com", Active: false})
	dir.Add(Account{ID: 3, Username: "carol", Email: "carol@other.org", Active: true})
	dir.Add(Account{ID: 4, Username: "dave", Email: "dave@example.com", SecondaryEmails: []string{"d@alt.net"}, Active: true})
	dir.Add(Account{ID: 5, Username: "eve1", Email: "shared@example.com", Active: true})
	dir.Add(Account{ID: 6, Username: "eve2", Email: "shared@example.com", Active: true})
	dir.Add(Account{ID: 7, Username: "frank", Email: "frank@example.com", Active: true})
	dir.HideFrom("viewer", 7)
	dir.DenySecondaryEmails("restricted")

	r := NewResolver(dir, []string{"example.com", "alt.net"})

	tests := []struct {
		name       string
		email      string
		actingUser string
		wantReason string
		wantUser   string
	}{
		{"resolves", "alice@example.com", "viewer", "", "alice"},
		{"no account", "ghost@example.com", "viewer", ReasonNoAccount, ""},
		{"ambiguous", "shared@example.com", "viewer", ReasonAmbiguous, ""},
		{"inactive", "bob@example.com", "viewer", ReasonInactive, ""},
		{"domain not allowed", "carol@other.org", "viewer", ReasonDomainNotAllowed, ""},
		{"not visible", "frank@example.com", "viewer", ReasonNotVisible, ""},
		{"secondary email visible", "d@alt.net", "viewer", "", "dave"},
		{"secondary email not visible", "d@alt.net", "restricted", ReasonSecondaryNotVisible, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := r.Resolve(context.Background(), model.OwnerRef(tc.email), tc.actingUser, trace.Nop())
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if tc.wantReason != "" {
				if res.Resolved {
					t.Fatalf("want rejection %q, got resolved %+v", tc.wantReason, res)
				}
				if res.Reason != tc.wantReason {
					t.Fatalf("want reason %q, got %q", tc.wantReason, res.Reason)
				}
				return
			}
			if !res.Resolved {
				t.Fatalf("want resolved, got rejection %q", res.Reason)
			}
			if res.Account.Username != tc.wantUser {
				t.Fatalf("want account %q, got %q", tc.wantUser, res.Account.Username)
			}
		})
	}
}

func TestResolveEmptyDomainAllowlistAllowsAll(t *testing.T) {
	dir := NewInMemoryDirectory()
	dir.Add(Account{ID: 1, Username: "carol", Email: "carol@other.org", Active: true})

	r := NewResolver(dir, nil)
	res, err := r.Resolve(context.Background(), "carol@other.org", "viewer", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Resolved {
		t.Fatalf("want resolved, got %+v", res)
	}
}

type failingDirectory struct{ Directory }

func (failingDirectory) LookupEmail(ctx context.Context, email string) ([]Account, error) {
	return nil, errors.New("directory down")
}

func TestResolveCollaboratorErrorPropagates(t *testing.T) {
	r := NewResolver(failingDirectory{}, nil)
	_, err := r.Resolve(context.Background(), "someone@example.com", "viewer", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
}
