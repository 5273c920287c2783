package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

func TestThreeStrikesIssueTemporaryBan(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.escalator.now = func() time.Time { return now }
	author := f.account(t)

	for i := 0; i < 3; i++ {
		f.hide(t, f.post(t, author).Ref)
	}

	got := f.reload(t, author)
	assert.Equal(t, 0, got.StrikeCount)
	require.NotNil(t, got.BanExpiresAt)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), *got.BanExpiresAt, time.Second)

	notes := f.notificationsFor(t, author)
	require.Len(t, notes, 3)
	assert.True(t, strings.Contains(notes[0].Message, "temporarily banned"), notes[0].Message)
	assert.False(t, strings.Contains(notes[1].Message, "temporarily banned"))

	assert.Len(t, f.violations.byType(models.ViolationStrike), 3)
	assert.Len(t, f.violations.byType(models.ViolationTempBan), 1)
}

func TestTwoStrikesLeaveBanUntouched(t *testing.T) {
	f := newFixture(t)
	author := f.account(t)

	for i := 0; i < 2; i++ {
		f.hide(t, f.post(t, author).Ref)
	}

	got := f.reload(t, author)
	assert.Equal(t, 2, got.StrikeCount)
	assert.Nil(t, got.BanExpiresAt)
	assert.Len(t, f.notificationsFor(t, author), 2)
}

func TestStrikesRestartAfterBan(t *testing.T) {
	f := newFixture(t)
	author := f.account(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, f.escalator.Escalate(ctx, ContentHidden{AuthorID: author.ID, Content: models.ContentRef{Kind: models.KindPost, ID: int64(i + 1)}}))
	}
	assert.Equal(t, 1, f.reload(t, author).StrikeCount)
}

func TestEscalateMissingAuthorIsSkipped(t *testing.T) {
	f := newFixture(t)
	ghost := uuid.New()

	err := f.escalator.Escalate(context.Background(), ContentHidden{AuthorID: ghost, Content: models.ContentRef{Kind: models.KindPost, ID: 1}})
	assert.NoError(t, err)

	list, err := f.notifications.List(context.Background(), ghost)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.violations.byType(models.ViolationStrike))
}

func TestEscalationPushesRealtimeNotification(t *testing.T) {
	f := newFixture(t)
	author := f.account(t)
	events, unsubscribe := f.hub.Subscribe(author.ID)
	defer unsubscribe()

	require.NoError(t, f.escalator.Escalate(context.Background(), ContentHidden{AuthorID: author.ID, Content: models.ContentRef{Kind: models.KindComment, ID: 7}}))

	select {
	case ev := <-events:
		assert.Equal(t, EventTypeNotification, ev.Type)
		assert.Equal(t, author.ID, ev.AccountID)
		assert.Equal(t, "One of your comments violated guidelines and received a strike.", ev.Notification.Message)
	case <-time.After(time.Second):
		t.Fatal("no realtime notification")
	}
}
