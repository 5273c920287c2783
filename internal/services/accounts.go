package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
	"github.com/AnshRaj112/safespace-backend/pkg/utils"
)

const minAdminPasswordLength = 8

// Session is a freshly issued bearer token.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *models.Account `json:"user"`
}

// AccountService creates anonymous and admin identities and signs them in.
type AccountService struct {
	store  store.Store
	tokens *TokenIssuer
}

func NewAccountService(s store.Store, tokens *TokenIssuer) *AccountService {
	return &AccountService{store: s, tokens: tokens}
}

// EnterAnonymously creates a fresh account with a generated display name.
func (s *AccountService) EnterAnonymously(ctx context.Context) (*Session, error) {
	account := &models.Account{
		ID:       uuid.New(),
		AnonID:   uuid.NewString(),
		Username: utils.GenerateAnonUsername(),
		Role:     models.RoleUser,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	log.Info().Str("account_id", account.ID.String()).Msg("✅ anonymous account created")
	return s.issue(account)
}

// AdminSignIn checks an admin credential and issues a token.
// Banned admins are rejected the same way IdentityGate would reject them.
func (s *AccountService) AdminSignIn(ctx context.Context, username, password string) (*Session, error) {
	if username == "" {
		return nil, missingField("username")
	}
	if password == "" {
		return nil, missingField("password")
	}

	cred, err := s.store.GetAdminCredential(ctx, utils.NormalizeUsername(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	ok, err := utils.VerifyPassword(password, cred.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	account, err := s.store.GetAccount(ctx, cred.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if err := RequireAdmin(account); err != nil {
		return nil, err
	}
	if account.IsBanned {
		return nil, ErrAccountBanned
	}
	if account.TemporarilyBannedAt(time.Now()) {
		return nil, &TemporarilyBannedError{Until: *account.BanExpiresAt}
	}
	return s.issue(account)
}

// CreateAdmin provisions an admin account with a password credential.
func (s *AccountService) CreateAdmin(ctx context.Context, username, password string) (*models.Account, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	if len(password) < minAdminPasswordLength {
		return nil, invalidField("password", fmt.Sprintf("Password must be at least %d characters", minAdminPasswordLength))
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{
		ID:       uuid.New(),
		AnonID:   uuid.NewString(),
		Username: username,
		Role:     models.RoleAdmin,
	}
	err = s.store.WithTx(ctx, func(q store.Queries) error {
		if err := q.CreateAccount(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return q.CreateAdminCredential(ctx, &models.AdminCredential{
			AccountID:    account.ID,
			Username:     utils.NormalizeUsername(username),
			PasswordHash: hash,
		})
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, invalidField("username", "Username is already taken")
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) issue(account *models.Account) (*Session, error) {
	token, expires, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, Account: account}, nil
}
