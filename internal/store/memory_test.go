package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

func seedAccount(t *testing.T, m *Memory) *models.Account {
	t.Helper()
	a := &models.Account{AnonID: uuid.NewString(), Username: "QuietRiver7", Role: models.RoleUser}
	require.NoError(t, m.CreateAccount(context.Background(), a))
	return a
}

func seedPost(t *testing.T, m *Memory, author uuid.UUID) *models.Post {
	t.Helper()
	p := &models.Post{Content: models.Content{AuthorID: author, Body: "rough day"}, MoodTag: "sad", Mode: models.ModeVent}
	require.NoError(t, m.CreatePost(context.Background(), p))
	return p
}

func TestMemoryReportUniqueness(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	author := seedAccount(t, m)
	reporter := seedAccount(t, m)
	post := seedPost(t, m, author.ID)

	r := &models.Report{Target: post.Ref, ReporterID: reporter.ID, Reason: "Spam"}
	require.NoError(t, m.InsertReport(ctx, r))
	assert.NotZero(t, r.ID)

	err := m.InsertReport(ctx, &models.Report{Target: post.Ref, ReporterID: reporter.ID, Reason: "Again"})
	assert.ErrorIs(t, err, ErrConflict)

	// Same reporter, other kind with the same id is a different target.
	err = m.InsertReport(ctx, &models.Report{Target: models.ContentRef{Kind: models.KindComment, ID: post.Ref.ID}, ReporterID: reporter.ID})
	assert.NoError(t, err)
}

func TestMemoryReactionUniqueness(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := seedAccount(t, m)
	post := seedPost(t, m, a.ID)

	require.NoError(t, m.InsertReaction(ctx, &models.Reaction{Target: post.Ref, AccountID: a.ID, Type: models.ReactionRelate}))
	err := m.InsertReaction(ctx, &models.Reaction{Target: post.Ref, AccountID: a.ID, Type: models.ReactionAlone})
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, m.UpdateReactionType(ctx, post.Ref, a.ID, models.ReactionAlone))
	got, err := m.GetReaction(ctx, post.Ref, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionAlone, got.Type)

	require.NoError(t, m.DeleteReaction(ctx, post.Ref, a.ID))
	_, err = m.GetReaction(ctx, post.Ref, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteReaction(ctx, post.Ref, a.ID), ErrNotFound)
}

func TestMemoryWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := seedAccount(t, m)
	post := seedPost(t, m, a.ID)

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(q Queries) error {
		if err := q.InsertReport(ctx, &models.Report{Target: post.Ref, ReporterID: a.ID}); err != nil {
			return err
		}
		if _, err := q.IncrementReportCount(ctx, post.Ref); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := m.GetContent(ctx, post.Ref)
	require.NoError(t, err)
	assert.Equal(t, 0, c.ReportCount)
	reported, err := m.ViewerReported(ctx, models.KindPost, []int64{post.Ref.ID}, a.ID)
	require.NoError(t, err)
	assert.False(t, reported[post.Ref.ID])
}

func TestMemoryDeletePostCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := seedAccount(t, m)
	post := seedPost(t, m, a.ID)
	comment := &models.Comment{Content: models.Content{AuthorID: a.ID, Body: "hang in there"}, PostID: post.Ref.ID}
	require.NoError(t, m.CreateComment(ctx, comment))
	require.NoError(t, m.InsertReport(ctx, &models.Report{Target: comment.Ref, ReporterID: a.ID}))
	require.NoError(t, m.InsertReaction(ctx, &models.Reaction{Target: comment.Ref, AccountID: a.ID, Type: models.ReactionSupport}))
	require.NoError(t, m.InsertReport(ctx, &models.Report{Target: post.Ref, ReporterID: a.ID}))

	require.NoError(t, m.DeleteContent(ctx, post.Ref))

	_, err := m.GetPost(ctx, post.Ref.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetComment(ctx, comment.Ref.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, m.data.reports)
	assert.Empty(t, m.data.reactions)
	assert.ErrorIs(t, m.DeleteContent(ctx, post.Ref), ErrNotFound)
}

func TestMemoryListPostsCursor(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := seedAccount(t, m)
	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, seedPost(t, m, a.ID).Ref.ID)
	}
	require.NoError(t, m.SetVisibility(ctx, models.ContentRef{Kind: models.KindPost, ID: ids[3]}, models.Hidden, false))

	first, err := m.ListPosts(ctx, models.PostFilter{Cursor: models.Cursor{Limit: 2}, Visibility: models.Visible})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, ids[4], first[0].Ref.ID)
	assert.Equal(t, ids[2], first[1].Ref.ID)

	second, err := m.ListPosts(ctx, models.PostFilter{Cursor: models.Cursor{LastSeenID: first[1].Ref.ID, Limit: 2}, Visibility: models.Visible})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, ids[1], second[0].Ref.ID)
	assert.Equal(t, ids[0], second[1].Ref.ID)

	hidden, err := m.ListPosts(ctx, models.PostFilter{Visibility: models.Hidden})
	require.NoError(t, err)
	require.Len(t, hidden, 1)
	assert.Equal(t, ids[3], hidden[0].Ref.ID)
}

func TestMemoryNotificationsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := seedAccount(t, m)
	other := seedAccount(t, m)

	n := &models.Notification{AccountID: owner.ID, Message: "hello"}
	require.NoError(t, m.CreateNotification(ctx, n))

	assert.ErrorIs(t, m.MarkNotificationRead(ctx, n.ID, other.ID), ErrNotFound)
	assert.ErrorIs(t, m.DeleteNotification(ctx, n.ID, other.ID), ErrNotFound)
	require.NoError(t, m.MarkNotificationRead(ctx, n.ID, owner.ID))

	list, err := m.ListNotifications(ctx, owner.ID, 30)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)

	require.NoError(t, m.DeleteNotification(ctx, n.ID, owner.ID))
	list, err = m.ListNotifications(ctx, owner.ID, 30)
	require.NoError(t, err)
	assert.Empty(t, list)
}
