package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

const escalationTimeout = 5 * time.Second

// ReportLedger records community reports and drives the auto-hide latch.
type ReportLedger struct {
	store         store.Store
	escalator     Escalator
	hideThreshold int
}

func NewReportLedger(s store.Store, escalator Escalator, hideThreshold int) *ReportLedger {
	return &ReportLedger{store: s, escalator: escalator, hideThreshold: hideThreshold}
}

// FileReport stores one report per (target, reporter) and bumps the target's
// report counter in the same transaction. When the counter reaches the hide
// threshold on visible content, the content is hidden in that transaction and
// the author is escalated after commit. Escalation errors never fail the report.
func (l *ReportLedger) FileReport(ctx context.Context, reporterID uuid.UUID, kind models.ContentKind, targetID int64, reason string) (*models.ReportOutcome, error) {
	reason = strings.TrimSpace(reason)
	switch {
	case kind == "":
		return nil, missingField("type")
	case !kind.Valid():
		return nil, invalidField("type", "Invalid report type")
	case targetID <= 0:
		return nil, missingField("targetId")
	case reason == "":
		return nil, missingField("reason")
	}

	ref := models.ContentRef{Kind: kind, ID: targetID}
	var outcome models.ReportOutcome

	err := l.store.WithTx(ctx, func(q store.Queries) error {
		report := &models.Report{Target: ref, ReporterID: reporterID, Reason: reason}
		if err := q.InsertReport(ctx, report); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrDuplicateReport
			}
			return fmt.Errorf("insert report: %w", err)
		}

		content, err := q.IncrementReportCount(ctx, ref)
		if errors.Is(err, store.ErrNotFound) {
			return ErrTargetNotFound
		}
		if err != nil {
			return fmt.Errorf("increment report count: %w", err)
		}

		next, hides := content.Visibility.AfterReport(content.ReportCount, l.hideThreshold)
		if hides {
			if err := q.SetVisibility(ctx, ref, next, false); err != nil {
				return fmt.Errorf("hide content: %w", err)
			}
		}

		outcome = models.ReportOutcome{
			Target:      ref,
			ReportCount: content.ReportCount,
			Hidden:      next.IsHidden(),
			JustHidden:  hides,
			AuthorID:    content.AuthorID,
		}
		return nil
	})
	if err != nil {
		reportsFiled.WithLabelValues(string(kind), reportOutcomeLabel(err)).Inc()
		return nil, err
	}
	reportsFiled.WithLabelValues(string(kind), "accepted").Inc()

	if outcome.JustHidden {
		contentHidden.WithLabelValues(string(kind)).Inc()
		l.escalate(ctx, ContentHidden{AuthorID: outcome.AuthorID, Content: ref})
	}
	return &outcome, nil
}

func (l *ReportLedger) escalate(ctx context.Context, event ContentHidden) {
	if l.escalator == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), escalationTimeout)
	defer cancel()

	if err := l.escalator.Escalate(ctx, event); err != nil {
		escalationFailures.Inc()
		log.Error().Err(err).
			Str("author_id", event.AuthorID.String()).
			Str("kind", string(event.Content.Kind)).
			Int64("content_id", event.Content.ID).
			Msg("escalation failed")
	}
}

func reportOutcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateReport):
		return "duplicate"
	case errors.Is(err, ErrTargetNotFound):
		return "target_not_found"
	default:
		return "error"
	}
}
