package identity

import (
	"context"
	"strings"
	"sync"
)

// InMemoryDirectory is a Directory backed by maps. It is used by tests.
//
// Visibility defaults to open: every account is visible to every viewer and
// secondary emails are viewable, unless restricted explicitly.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	accounts []Account

	hiddenFrom        map[string]map[int64]bool // viewer -> account IDs hidden from them
	noSecondaryAccess map[string]bool           // viewers without secondary-email access
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		hiddenFrom:        make(map[string]map[int64]bool),
		noSecondaryAccess: make(map[string]bool),
	}
}

// Add registers an account.
func (d *InMemoryDirectory) Add(a Account) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts = append(d.accounts, a)
}

// HideFrom makes the account invisible to the given viewer.
func (d *InMemoryDirectory) HideFrom(viewer string, accountID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hiddenFrom[viewer] == nil {
		d.hiddenFrom[viewer] = make(map[int64]bool)
	}
	d.hiddenFrom[viewer][accountID] = true
}

// DenySecondaryEmails revokes the viewer's secondary-email access.
func (d *InMemoryDirectory) DenySecondaryEmails(viewer string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.noSecondaryAccess[viewer] = true
}

func (d *InMemoryDirectory) LookupEmail(ctx context.Context, email string) ([]Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Account
	for _, a := range d.accounts {
		if strings.EqualFold(a.Email, email) {
			out = append(out, a)
			continue
		}
		for _, e := range a.SecondaryEmails {
			if strings.EqualFold(e, email) {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

func (d *InMemoryDirectory) CanSee(ctx context.Context, viewer string, account Account) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.hiddenFrom[viewer][account.ID], nil
}

func (d *InMemoryDirectory) CanSeeSecondaryEmails(ctx context.Context, viewer string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.noSecondaryAccess[viewer], nil
}
