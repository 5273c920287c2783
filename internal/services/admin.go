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
)

const defaultViolationListLimit = 50

// maxTempBanDays keeps the expiry well inside time.Time arithmetic.
const maxTempBanDays = 3650

// AdminService is the moderator surface. Account actions here bypass strike
// accounting and write the account fields directly.
type AdminService struct {
	store      store.Store
	violations ViolationRecorder
	now        func() time.Time
}

func NewAdminService(s store.Store, violations ViolationRecorder) *AdminService {
	if violations == nil {
		violations = NopViolationRecorder{}
	}
	return &AdminService{store: s, violations: violations, now: time.Now}
}

// ListHidden returns hidden content of one kind, newest first.
func (s *AdminService) ListHidden(ctx context.Context, kind models.ContentKind, c models.Cursor) ([]models.HiddenContent, error) {
	out := []models.HiddenContent{}
	switch kind {
	case models.KindPost:
		posts, err := s.store.ListPosts(ctx, models.PostFilter{Cursor: c, Visibility: models.Hidden})
		if err != nil {
			return nil, fmt.Errorf("list hidden posts: %w", err)
		}
		for _, p := range posts {
			h := hiddenContent(p.Content)
			h.MoodTag = p.MoodTag
			out = append(out, h)
		}
	case models.KindComment:
		comments, err := s.store.ListComments(ctx, models.CommentFilter{Cursor: c, Visibility: models.Hidden})
		if err != nil {
			return nil, fmt.Errorf("list hidden comments: %w", err)
		}
		for _, cm := range comments {
			h := hiddenContent(cm.Content)
			h.PostID = cm.PostID
			out = append(out, h)
		}
	default:
		return nil, invalidField("type", "Invalid content type")
	}
	return out, nil
}

func hiddenContent(c models.Content) models.HiddenContent {
	return models.HiddenContent{
		ID:          c.Ref.ID,
		Kind:        c.Ref.Kind,
		AuthorID:    c.AuthorID.String(),
		Content:     c.Body,
		ReportCount: c.ReportCount,
		CreatedAt:   c.CreatedAt,
	}
}

// Restore makes content visible again, zeroes its report counter and drops its
// reports, all in one transaction.
func (s *AdminService) Restore(ctx context.Context, ref models.ContentRef) error {
	if !ref.Kind.Valid() {
		return invalidField("type", "Invalid content type")
	}
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		content, err := q.GetContent(ctx, ref)
		if err != nil {
			return err
		}
		if err := q.SetVisibility(ctx, ref, content.Visibility.Restore(), true); err != nil {
			return err
		}
		return q.DeleteReports(ctx, ref)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrTargetNotFound
	}
	if err != nil {
		return fmt.Errorf("restore content: %w", err)
	}
	log.Info().Str("kind", string(ref.Kind)).Int64("content_id", ref.ID).Msg("✅ content restored")
	return nil
}

// Delete removes content with its reports and reactions, and a post's comments.
func (s *AdminService) Delete(ctx context.Context, ref models.ContentRef) error {
	if !ref.Kind.Valid() {
		return invalidField("type", "Invalid content type")
	}
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		return q.DeleteContent(ctx, ref)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrTargetNotFound
	}
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	log.Info().Str("kind", string(ref.Kind)).Int64("content_id", ref.ID).Msg("🗑️ content deleted")
	return nil
}

// updateAccount applies mutate to the locked account row.
func (s *AdminService) updateAccount(ctx context.Context, id uuid.UUID, action string, mutate func(a *models.Account)) (*models.Account, error) {
	var account *models.Account
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		var err error
		account, err = q.GetAccountForUpdate(ctx, id)
		if err != nil {
			return err
		}
		mutate(account)
		return q.UpdateAccountModeration(ctx, account)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	log.Info().Str("account_id", id.String()).Str("action", action).Msg("admin account action")
	return account, nil
}

// Ban sets the permanent ban flag.
func (s *AdminService) Ban(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.updateAccount(ctx, id, "ban", func(a *models.Account) {
		a.IsBanned = true
	})
}

// Unban lifts both the permanent and the temporary ban.
func (s *AdminService) Unban(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.updateAccount(ctx, id, "unban", func(a *models.Account) {
		a.IsBanned = false
		a.BanExpiresAt = nil
	})
}

// TempBan bans the account for the given number of days from now.
func (s *AdminService) TempBan(ctx context.Context, id uuid.UUID, days int) (*models.Account, error) {
	if days <= 0 {
		return nil, invalidField("days", "Days must be a positive number")
	}
	if days > maxTempBanDays {
		return nil, invalidField("days", fmt.Sprintf("Days must be at most %d; use a permanent ban instead", maxTempBanDays))
	}
	until := s.now().AddDate(0, 0, days).UTC()
	account, err := s.updateAccount(ctx, id, "temp_ban", func(a *models.Account) {
		a.BanExpiresAt = &until
	})
	if err != nil {
		return nil, err
	}
	recordViolation(ctx, s.violations, models.Violation{
		AccountID:   id.String(),
		Type:        models.ViolationTempBan,
		ActionTaken: "temp_ban",
		Message:     fmt.Sprintf("admin temp ban for %d days", days),
	})
	return account, nil
}

// SetReadOnly toggles read-only mode.
func (s *AdminService) SetReadOnly(ctx context.Context, id uuid.UUID, readOnly bool) (*models.Account, error) {
	action := "readonly"
	if !readOnly {
		action = "remove_readonly"
	}
	return s.updateAccount(ctx, id, action, func(a *models.Account) {
		a.IsReadOnly = readOnly
	})
}

// RecentViolations returns the newest audit log entries.
func (s *AdminService) RecentViolations(ctx context.Context, limit int) ([]models.Violation, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultViolationListLimit
	}
	return s.violations.Recent(ctx, limit)
}
