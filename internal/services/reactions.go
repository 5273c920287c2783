package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

// ReactionLedger keeps at most one reaction per (content, account).
type ReactionLedger struct {
	store store.Store
}

func NewReactionLedger(s store.Store) *ReactionLedger {
	return &ReactionLedger{store: s}
}

// ApplyReaction toggles or replaces the account's reaction on target:
// absent creates it, the same type removes it, another type overwrites it.
// The target must exist and be visible; it is checked inside the transaction
// so a concurrent delete cannot leave an orphaned reaction. A unique-constraint
// race on create is retried as an update.
func (l *ReactionLedger) ApplyReaction(ctx context.Context, target models.ContentRef, accountID uuid.UUID, t models.ReactionType) (models.ReactionResult, error) {
	if !t.Valid() {
		return models.ReactionResult{}, ErrInvalidReactionType
	}

	var result models.ReactionResult
	err := l.store.WithTx(ctx, func(q store.Queries) error {
		if err := lockVisibleTarget(ctx, q, target); err != nil {
			return err
		}
		var err error
		result, err = applyReaction(ctx, q, target, accountID, t)
		return err
	})
	if errors.Is(err, store.ErrConflict) {
		// A concurrent call created the row first; the transaction was
		// rolled back, so retry with the row now present.
		err = l.store.WithTx(ctx, func(q store.Queries) error {
			if err := lockVisibleTarget(ctx, q, target); err != nil {
				return err
			}
			var err error
			result, err = overwriteReaction(ctx, q, target, accountID, t)
			return err
		})
	}
	if errors.Is(err, ErrTargetNotFound) || errors.Is(err, store.ErrNotFound) {
		return models.ReactionResult{}, ErrTargetNotFound
	}
	if err != nil {
		return models.ReactionResult{}, fmt.Errorf("apply reaction: %w", err)
	}

	reactionOutcomes.WithLabelValues(string(result.Action)).Inc()
	return result, nil
}

// lockVisibleTarget holds the target for the rest of the transaction. Hidden
// content takes no new reactions, the same as it takes no new comments.
func lockVisibleTarget(ctx context.Context, q store.Queries, target models.ContentRef) error {
	content, err := q.LockContent(ctx, target)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTargetNotFound
	}
	if err != nil {
		return fmt.Errorf("load target: %w", err)
	}
	if content.Visibility.IsHidden() {
		return ErrTargetNotFound
	}
	return nil
}

func applyReaction(ctx context.Context, q store.Queries, target models.ContentRef, accountID uuid.UUID, t models.ReactionType) (models.ReactionResult, error) {
	existing, err := q.GetReaction(ctx, target, accountID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		r := &models.Reaction{Target: target, AccountID: accountID, Type: t}
		if err := q.InsertReaction(ctx, r); err != nil {
			return models.ReactionResult{}, err
		}
		return models.ReactionResult{Action: models.ReactionCreated, Type: t}, nil
	case err != nil:
		return models.ReactionResult{}, err
	case existing.Type == t:
		if err := q.DeleteReaction(ctx, target, accountID); err != nil {
			return models.ReactionResult{}, err
		}
		return models.ReactionResult{Action: models.ReactionRemoved}, nil
	default:
		if err := q.UpdateReactionType(ctx, target, accountID, t); err != nil {
			return models.ReactionResult{}, err
		}
		return models.ReactionResult{Action: models.ReactionUpdated, Type: t}, nil
	}
}

// overwriteReaction is the conflict path: the row exists, so store t on it.
// If it vanished meanwhile, fall back to the full state machine.
func overwriteReaction(ctx context.Context, q store.Queries, target models.ContentRef, accountID uuid.UUID, t models.ReactionType) (models.ReactionResult, error) {
	err := q.UpdateReactionType(ctx, target, accountID, t)
	if errors.Is(err, store.ErrNotFound) {
		return applyReaction(ctx, q, target, accountID, t)
	}
	if err != nil {
		return models.ReactionResult{}, err
	}
	return models.ReactionResult{Action: models.ReactionUpdated, Type: t}, nil
}
