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

// ContentHidden is emitted exactly once per Visible -> Hidden transition.
type ContentHidden struct {
	AuthorID uuid.UUID
	Content  models.ContentRef
}

// Escalator consumes ContentHidden events.
type Escalator interface {
	Escalate(ctx context.Context, event ContentHidden) error
}

// ModerationEscalator turns hide events into strikes, temporary bans and a notification.
type ModerationEscalator struct {
	store         store.Store
	notifications *NotificationService
	violations    ViolationRecorder
	strikeLimit   int
	banDuration   time.Duration
	now           func() time.Time
}

func NewModerationEscalator(s store.Store, notifications *NotificationService, violations ViolationRecorder, strikeLimit int, banDuration time.Duration) *ModerationEscalator {
	if violations == nil {
		violations = NopViolationRecorder{}
	}
	return &ModerationEscalator{
		store:         s,
		notifications: notifications,
		violations:    violations,
		strikeLimit:   strikeLimit,
		banDuration:   banDuration,
		now:           time.Now,
	}
}

func strikeMessage(kind models.ContentKind) string {
	noun := "posts"
	if kind == models.KindComment {
		noun = "comments"
	}
	return fmt.Sprintf("One of your %s violated guidelines and received a strike.", noun)
}

// Escalate adds a strike to the author. Reaching the strike limit issues a
// temporary ban and resets the strike count. One notification is always sent.
// A missing author is skipped silently.
func (e *ModerationEscalator) Escalate(ctx context.Context, event ContentHidden) error {
	var (
		skipped      bool
		banned       bool
		strikes      int
		notification *models.Notification
	)

	err := e.store.WithTx(ctx, func(q store.Queries) error {
		author, err := q.GetAccountForUpdate(ctx, event.AuthorID)
		if errors.Is(err, store.ErrNotFound) {
			skipped = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("load author: %w", err)
		}

		author.StrikeCount++
		message := strikeMessage(event.Content.Kind)
		if author.StrikeCount >= e.strikeLimit {
			until := e.now().Add(e.banDuration).UTC()
			author.BanExpiresAt = &until
			author.StrikeCount = 0
			banned = true
			message += fmt.Sprintf(" Your account is temporarily banned until %s.", until.Format(time.RFC1123))
		}
		strikes = author.StrikeCount

		if err := q.UpdateAccountModeration(ctx, author); err != nil {
			return fmt.Errorf("save author: %w", err)
		}
		notification, err = e.notifications.Create(ctx, q, author.ID, message)
		return err
	})
	if err != nil {
		return err
	}

	logger := log.With().
		Str("author_id", event.AuthorID.String()).
		Str("kind", string(event.Content.Kind)).
		Int64("content_id", event.Content.ID).
		Logger()

	if skipped {
		logger.Info().Msg("author not found; escalation skipped")
		return nil
	}

	strikesIssued.Inc()
	recordViolation(ctx, e.violations, models.Violation{
		AccountID:   event.AuthorID.String(),
		Type:        models.ViolationStrike,
		ContentKind: event.Content.Kind,
		ContentID:   event.Content.ID,
		ActionTaken: "strike",
	})
	if banned {
		tempBansIssued.Inc()
		recordViolation(ctx, e.violations, models.Violation{
			AccountID:   event.AuthorID.String(),
			Type:        models.ViolationTempBan,
			ContentKind: event.Content.Kind,
			ContentID:   event.Content.ID,
			ActionTaken: "temp_ban",
		})
		logger.Warn().Dur("duration", e.banDuration).Msg("🚫 temporary ban issued")
	} else {
		logger.Info().Int("strike_count", strikes).Msg("⚠️ strike issued")
	}

	e.notifications.Push(ctx, notification)
	return nil
}
