package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

// CredentialResolver maps a bearer token to an account id.
type CredentialResolver interface {
	Resolve(token string) (uuid.UUID, error)
}

// AccountReader is the slice of the store the gate needs.
type AccountReader interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// IdentityGate resolves a credential to an account and enforces bans.
// Read-only state is not checked here; see RequireWritable.
type IdentityGate struct {
	resolver CredentialResolver
	accounts AccountReader
	now      func() time.Time
}

func NewIdentityGate(resolver CredentialResolver, accounts AccountReader) *IdentityGate {
	return &IdentityGate{resolver: resolver, accounts: accounts, now: time.Now}
}

// Authenticate returns the account behind token.
//
// A permanent ban fails with ErrAccountBanned. A ban expiry in the future fails
// with *TemporarilyBannedError; an expired one is ignored, so temporary bans
// lift themselves without any sweeper.
func (g *IdentityGate) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	id, err := g.resolver.Resolve(token)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	account, err := g.accounts.GetAccount(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if account.IsBanned {
		return nil, ErrAccountBanned
	}
	if account.TemporarilyBannedAt(g.now()) {
		return nil, &TemporarilyBannedError{Until: *account.BanExpiresAt}
	}
	return account, nil
}

// RequireWritable rejects read-only accounts on mutation paths.
func RequireWritable(a *models.Account) error {
	if a.IsReadOnly {
		return ErrReadOnlyAccount
	}
	return nil
}

// RequireAdmin rejects accounts without the admin role.
func RequireAdmin(a *models.Account) error {
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
