package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

func TestFiveReportsHideAndStrikeOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)
	post := f.post(t, author)

	for i := 1; i <= 5; i++ {
		out, err := f.reports.FileReport(ctx, f.account(t).ID, models.KindPost, post.Ref.ID, "Spam")
		require.NoError(t, err)
		assert.Equal(t, i, out.ReportCount)
		assert.Equal(t, i == 5, out.Hidden)
	}

	c := f.content(t, post.Ref)
	assert.Equal(t, models.Hidden, c.Visibility)
	assert.Equal(t, 5, c.ReportCount)
	assert.Equal(t, 1, f.reload(t, author).StrikeCount)
	notes := f.notificationsFor(t, author)
	require.Len(t, notes, 1)
	assert.Equal(t, "One of your posts violated guidelines and received a strike.", notes[0].Message)

	// A sixth reporter counts but does not escalate again.
	out, err := f.reports.FileReport(ctx, f.account(t).ID, models.KindPost, post.Ref.ID, "Spam")
	require.NoError(t, err)
	assert.Equal(t, 6, out.ReportCount)
	assert.True(t, out.Hidden)
	assert.Equal(t, 6, f.content(t, post.Ref).ReportCount)
	assert.Len(t, f.notificationsFor(t, author), 1)
	assert.Equal(t, 1, f.reload(t, author).StrikeCount)
}

func TestDuplicateReportCountsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.post(t, f.account(t))
	reporter := f.account(t)

	_, err := f.reports.FileReport(ctx, reporter.ID, models.KindPost, post.Ref.ID, "Spam")
	require.NoError(t, err)
	_, err = f.reports.FileReport(ctx, reporter.ID, models.KindPost, post.Ref.ID, "Different reason")
	assert.ErrorIs(t, err, ErrDuplicateReport)

	assert.Equal(t, 1, f.content(t, post.Ref).ReportCount)
}

func TestReportMissingTargetLeavesNoRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reporter := f.account(t)

	_, err := f.reports.FileReport(ctx, reporter.ID, models.KindComment, 999, "Spam")
	assert.ErrorIs(t, err, ErrTargetNotFound)

	reported, err := f.store.ViewerReported(ctx, models.KindComment, []int64{999}, reporter.ID)
	require.NoError(t, err)
	assert.False(t, reported[999])
}

func TestReportValidation(t *testing.T) {
	f := newFixture(t)
	reporter := f.account(t)

	var tests = []struct {
		name   string
		kind   models.ContentKind
		id     int64
		reason string
		field  string
	}{
		{"missing type", "", 1, "Spam", "type"},
		{"unknown type", "user", 1, "Spam", "type"},
		{"missing target", models.KindPost, 0, "Spam", "targetId"},
		{"blank reason", models.KindPost, 1, "   ", "reason"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.reports.FileReport(context.Background(), reporter.ID, tc.kind, tc.id, tc.reason)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestCommentsFollowTheSameThreshold(t *testing.T) {
	f := newFixture(t)
	author := f.account(t)
	comment := f.comment(t, author, f.post(t, f.account(t)))

	f.hide(t, comment.Ref)

	assert.Equal(t, models.Hidden, f.content(t, comment.Ref).Visibility)
	assert.Equal(t, 1, f.reload(t, author).StrikeCount)
	notes := f.notificationsFor(t, author)
	require.Len(t, notes, 1)
	assert.Equal(t, "One of your comments violated guidelines and received a strike.", notes[0].Message)
}

func TestRestoreStartsANewReportCycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)
	post := f.post(t, author)
	first := f.account(t)

	_, err := f.reports.FileReport(ctx, first.ID, models.KindPost, post.Ref.ID, "Spam")
	require.NoError(t, err)
	f.hide(t, post.Ref)
	require.NoError(t, f.admin.Restore(ctx, post.Ref))

	c := f.content(t, post.Ref)
	assert.Equal(t, models.Visible, c.Visibility)
	assert.Equal(t, 0, c.ReportCount)

	// Reports were cleared, so the same reporter may report again.
	out, err := f.reports.FileReport(ctx, first.ID, models.KindPost, post.Ref.ID, "Spam")
	require.NoError(t, err)
	assert.Equal(t, 1, out.ReportCount)

	f.hide(t, post.Ref)
	assert.Equal(t, 2, f.reload(t, author).StrikeCount)
	assert.Len(t, f.notificationsFor(t, author), 2)
}

type failingEscalator struct{ calls int }

func (e *failingEscalator) Escalate(context.Context, ContentHidden) error {
	e.calls++
	return errors.New("notification store down")
}

func TestEscalationFailureDoesNotFailReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	esc := &failingEscalator{}
	ledger := NewReportLedger(f.store, esc, 1)
	post := f.post(t, f.account(t))

	out, err := ledger.FileReport(ctx, f.account(t).ID, models.KindPost, post.Ref.ID, "Spam")
	require.NoError(t, err)
	assert.True(t, out.Hidden)
	assert.Equal(t, 1, esc.calls)
	assert.Equal(t, models.Hidden, f.content(t, post.Ref).Visibility)
}

func TestConcurrentReportsEscalateExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)
	post := f.post(t, author)

	const reporters = 25
	var wg sync.WaitGroup
	errs := make(chan error, reporters)
	for i := 0; i < reporters; i++ {
		reporter := f.account(t)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.reports.FileReport(ctx, reporter.ID, models.KindPost, post.Ref.ID, "Spam")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	c := f.content(t, post.Ref)
	assert.Equal(t, reporters, c.ReportCount)
	assert.Equal(t, models.Hidden, c.Visibility)
	assert.Equal(t, 1, f.reload(t, author).StrikeCount)
	assert.Len(t, f.notificationsFor(t, author), 1)
}

func TestConcurrentDuplicateReportsStoreOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.post(t, f.account(t))
	reporter := f.account(t)

	const attempts = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, dupes  int
		unexpected []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.reports.FileReport(ctx, reporter.ID, models.KindPost, post.Ref.ID, "Spam")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicateReport):
				dupes++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, dupes)
	assert.Equal(t, 1, f.content(t, post.Ref).ReportCount)
}
