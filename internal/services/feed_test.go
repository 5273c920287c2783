package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

type countingQueries struct {
	store.Queries
	enrichCalls int
}

func (q *countingQueries) ReactionCounts(ctx context.Context, kind models.ContentKind, ids []int64) (map[int64]models.ReactionCounts, error) {
	q.enrichCalls++
	return q.Queries.ReactionCounts(ctx, kind, ids)
}

func (q *countingQueries) ViewerReactions(ctx context.Context, kind models.ContentKind, ids []int64, viewer uuid.UUID) (map[int64]models.ReactionType, error) {
	q.enrichCalls++
	return q.Queries.ViewerReactions(ctx, kind, ids, viewer)
}

func TestFeedEmptySkipsEnrichment(t *testing.T) {
	spy := &countingQueries{Queries: store.NewMemory()}
	feed := NewFeedAssembler(spy, 20, 50)

	page, err := feed.Posts(context.Background(), &models.Account{ID: uuid.New()}, models.Cursor{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Zero(t, spy.enrichCalls)
}

func TestFeedExcludesHiddenPosts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)
	kept := f.post(t, author)
	hidden := f.post(t, author)
	f.hide(t, hidden.Ref)

	page, err := f.feed.Posts(ctx, nil, models.Cursor{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.Ref.ID, page.Items[0].ID)
}

func TestFeedViewerEnrichment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)
	viewer := f.account(t)
	post := f.post(t, author)
	visible := f.comment(t, author, post)
	hidden := f.comment(t, author, post)
	f.hide(t, hidden.Ref)

	_, err := f.reactions.ApplyReaction(ctx, post.Ref, viewer.ID, models.ReactionSupport)
	require.NoError(t, err)
	_, err = f.reactions.ApplyReaction(ctx, post.Ref, author.ID, models.ReactionSupport)
	require.NoError(t, err)
	_, err = f.reports.FileReport(ctx, viewer.ID, models.KindPost, post.Ref.ID, "Spam")
	require.NoError(t, err)

	page, err := f.feed.Posts(ctx, viewer, models.Cursor{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	item := page.Items[0]

	assert.Equal(t, models.ReactionCounts{
		models.ReactionRelate:  0,
		models.ReactionAlone:   0,
		models.ReactionHelpful: 0,
		models.ReactionSupport: 2,
	}, item.Reactions)
	assert.Equal(t, models.ReactionSupport, item.ViewerReaction)
	assert.True(t, item.ViewerReported)
	require.NotNil(t, item.CommentCount)
	assert.Equal(t, 1, *item.CommentCount)

	comments, err := f.feed.Comments(ctx, viewer, post.Ref.ID, models.Cursor{})
	require.NoError(t, err)
	require.Len(t, comments.Items, 1)
	assert.Equal(t, visible.Ref.ID, comments.Items[0].ID)
	assert.Equal(t, post.Ref.ID, comments.Items[0].PostID)
}

func TestFeedAnonymousViewer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)
	post := f.post(t, author)
	_, err := f.reactions.ApplyReaction(ctx, post.Ref, author.ID, models.ReactionRelate)
	require.NoError(t, err)

	page, err := f.feed.Posts(ctx, nil, models.Cursor{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Items[0].Reactions[models.ReactionRelate])
	assert.Empty(t, page.Items[0].ViewerReaction)
	assert.False(t, page.Items[0].ViewerReported)
}

func TestFeedPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)
	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, f.post(t, author).Ref.ID)
	}

	first, err := f.feed.Posts(ctx, nil, models.Cursor{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, ids[4], first.Items[0].ID)
	assert.Equal(t, ids[3], first.Items[1].ID)

	second, err := f.feed.Posts(ctx, nil, models.Cursor{LastSeenID: first.Items[1].ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Equal(t, ids[2], second.Items[0].ID)

	last, err := f.feed.Posts(ctx, nil, models.Cursor{LastSeenID: second.Items[1].ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.False(t, last.HasMore)
}

func TestNormalizeCursor(t *testing.T) {
	feed := NewFeedAssembler(store.NewMemory(), 20, 50)

	assert.Equal(t, models.Cursor{Limit: 20}, feed.NormalizeCursor(models.Cursor{}))
	assert.Equal(t, models.Cursor{Limit: 50}, feed.NormalizeCursor(models.Cursor{Limit: 500}))
	assert.Equal(t, models.Cursor{Limit: 7}, feed.NormalizeCursor(models.Cursor{LastSeenID: -3, Limit: 7}))
}

func TestCommentsOfHiddenOrMissingPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.post(t, f.account(t))
	f.hide(t, post.Ref)

	_, err := f.feed.Comments(ctx, nil, post.Ref.ID, models.Cursor{})
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = f.feed.Comments(ctx, nil, 12345, models.Cursor{})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestAuthoredShowsHiddenWithNotice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)
	visible := f.post(t, author)
	hidden := f.post(t, author)
	f.post(t, f.account(t))
	f.hide(t, hidden.Ref)

	page, err := f.feed.Authored(ctx, author, models.Cursor{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	assert.Equal(t, hidden.Ref.ID, page.Items[0].ID)
	assert.True(t, page.Items[0].IsHidden)
	assert.Equal(t, models.ReviewNotice, page.Items[0].Content)

	assert.Equal(t, visible.Ref.ID, page.Items[1].ID)
	assert.False(t, page.Items[1].IsHidden)
	assert.Equal(t, visible.Body, page.Items[1].Content)
}
