// Package identity maps raw owner references onto concrete accounts.
//
// The Directory interface is the account-storage collaborator; the Resolver
// on top of it applies the engine's policy: ambiguity, activity, email-domain
// allowlist, and visibility (including secondary-email visibility). Every
// rejection carries a distinct, human-readable reason, which is part of the
// observable contract of the trace and check views.
package identity

import (
	"context"
	"fmt"
	"strings"

	"whoowns/internal/model"
	"whoowns/internal/trace"
)

// Account is a concrete account identity.
type Account struct {
	ID              int64
	Username        string
	Email           string // primary email
	SecondaryEmails []string
	Active          bool
}

// Directory is the account-storage collaborator.
type Directory interface {
	// LookupEmail returns every account matching the email, whether via the
	// primary or a secondary email. Zero matches is not an error.
	LookupEmail(ctx context.Context, email string) ([]Account, error)

	// CanSee reports whether the viewer is allowed to see the account.
	CanSee(ctx context.Context, viewer string, account Account) (bool, error)

	// CanSeeSecondaryEmails reports whether the viewer may resolve accounts
	// through secondary emails.
	CanSeeSecondaryEmails(ctx context.Context, viewer string) (bool, error)
}

// Rejection reasons. Each policy branch produces exactly one of these.
const (
	ReasonNoAccount           = "no account with this email"
	ReasonAmbiguous           = "email is ambiguous"
	ReasonInactive            = "account is inactive"
	ReasonDomainNotAllowed    = "domain not allowed"
	ReasonNotVisible          = "account is not visible"
	ReasonSecondaryNotVisible = "secondary email is not visible"
)

// Resolution is the outcome of resolving one raw owner reference.
type Resolution struct {
	// AllUsers is set when the reference was the all-users sentinel; no
	// account lookup happens in that case.
	AllUsers bool

	// Resolved is set when the reference maps to exactly one usable account.
	Resolved bool
	Account  Account

	// Reason explains an unresolved reference.
	Reason string
}

// Resolver resolves owner references for a fixed acting identity context.
type Resolver struct {
	dir Directory

	// allowedDomains restricts which email domains may own code. Empty
	// means every domain is allowed.
	allowedDomains []string
}

func NewResolver(dir Directory, allowedDomains []string) *Resolver {
	return &Resolver{dir: dir, allowedDomains: allowedDomains}
}

// Resolve maps a raw owner reference to an account.
//
// The acting user is the identity visibility is evaluated against: the
// uploader for review-validation checks, the caller for plain lookups.
// Collaborator failures are returned as errors; policy rejections are
// returned as unresolved Resolutions with a reason.
func (r *Resolver) Resolve(ctx context.Context, ref model.OwnerRef, actingUser string, tr trace.Sink) (Resolution, error) {
	if tr == nil {
		tr = trace.Nop()
	}

	if ref.IsAllUsers() {
		tr.Logf("owner %q resolves to all users", ref)
		return Resolution{AllUsers: true, Resolved: true}, nil
	}

	email := string(ref)
	accounts, err := r.dir.LookupEmail(ctx, email)
	if err != nil {
		return Resolution{}, fmt.Errorf("lookup %q: %w", email, err)
	}

	switch len(accounts) {
	case 0:
		return r.reject(tr, email, ReasonNoAccount), nil
	case 1:
		// fall through
	default:
		return r.reject(tr, email, ReasonAmbiguous), nil
	}

	account := accounts[0]
	if !account.Active {
		return r.reject(tr, email, ReasonInactive), nil
	}

	if !r.domainAllowed(email) {
		return r.reject(tr, email, ReasonDomainNotAllowed), nil
	}

	if secondaryEmailMatch(account, email) {
		ok, err := r.dir.CanSeeSecondaryEmails(ctx, actingUser)
		if err != nil {
			return Resolution{}, fmt.Errorf("secondary email visibility for %q: %w", actingUser, err)
		}
		if !ok {
			return r.reject(tr, email, ReasonSecondaryNotVisible), nil
		}
	}

	visible, err := r.dir.CanSee(ctx, actingUser, account)
	if err != nil {
		return Resolution{}, fmt.Errorf("visibility of %q for %q: %w", email, actingUser, err)
	}
	if !visible {
		return r.reject(tr, email, ReasonNotVisible), nil
	}

	tr.Logf("email %q resolved to account %s", email, account.Username)
	return Resolution{Resolved: true, Account: account}, nil
}

func (r *Resolver) reject(tr trace.Sink, email, reason string) Resolution {
	tr.Logf("email %q rejected: %s", email, reason)
	return Resolution{Reason: reason}
}

func (r *Resolver) domainAllowed(email string) bool {
	if len(r.allowedDomains) == 0 {
		return true
	}
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	for _, d := range r.allowedDomains {
		if strings.EqualFold(d, domain) {
			return true
		}
	}
	return false
}

func secondaryEmailMatch(account Account, email string) bool {
	if strings.EqualFold(account.Email, email) {
		return false
	}
	for _, e := range account.SecondaryEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}
