package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)

	res, err := f.posts.Create(ctx, author, CreatePostInput{Content: "  rough week  ", MoodTag: "tired", Mode: "Vent"})
	require.NoError(t, err)
	require.NotNil(t, res.Item)
	assert.False(t, res.Crisis)
	assert.Equal(t, "rough week", res.Item.Body)
	assert.Equal(t, models.ModeVent, res.Item.Mode)
	assert.Equal(t, models.Visible, res.Item.Visibility)

	stored := f.content(t, res.Item.Ref)
	assert.Equal(t, author.ID, stored.AuthorID)
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	author := f.account(t)

	var tests = []struct {
		name  string
		in    CreatePostInput
		field string
	}{
		{"no content", CreatePostInput{MoodTag: "ok", Mode: "vent"}, "content"},
		{"no mood", CreatePostInput{Content: "hi", Mode: "vent"}, "moodTag"},
		{"no mode", CreatePostInput{Content: "hi", MoodTag: "ok"}, "mode"},
		{"bad mode", CreatePostInput{Content: "hi", MoodTag: "ok", Mode: "rant"}, "mode"},
		{"long content", CreatePostInput{Content: strings.Repeat("a", 2001), MoodTag: "ok", Mode: "vent"}, "content"},
		{"long mood", CreatePostInput{Content: "hi", MoodTag: strings.Repeat("m", 51), Mode: "vent"}, "moodTag"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.posts.Create(context.Background(), author, tc.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestReadOnlyAuthorCannotPost(t *testing.T) {
	f := newFixture(t)
	author := f.account(t)
	author.IsReadOnly = true

	_, err := f.posts.Create(context.Background(), author, CreatePostInput{Content: "hi", MoodTag: "ok", Mode: "vent"})
	assert.ErrorIs(t, err, ErrReadOnlyAccount)
}

func TestProhibitedPostIsRejectedAndAudited(t *testing.T) {
	ctx := WithClientIP(context.Background(), "203.0.113.9")
	f := newFixture(t)
	author := f.account(t)

	_, err := f.posts.Create(ctx, author, CreatePostInput{Content: "what the fuck", MoodTag: "angry", Mode: "vent"})
	assert.ErrorIs(t, err, ErrProhibitedContent)

	page, err := f.feed.Authored(ctx, author, models.Cursor{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	recorded := f.violations.byType(models.ViolationProhibitedContent)
	require.Len(t, recorded, 1)
	assert.Equal(t, "203.0.113.9", recorded[0].IPAddress)
	assert.Equal(t, "what the fuck", recorded[0].Message)
}

func TestCrisisPostIsNotStored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.account(t)

	res, err := f.posts.Create(ctx, author, CreatePostInput{Content: "I want to die", MoodTag: "low", Mode: "vent"})
	require.NoError(t, err)
	assert.True(t, res.Crisis)
	assert.Nil(t, res.Item)
	assert.NotEmpty(t, res.SupportMessage)

	page, err := f.feed.Authored(ctx, author, models.Cursor{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	recorded := f.violations.byType(models.ViolationCrisis)
	require.Len(t, recorded, 1)
	assert.Empty(t, recorded[0].Message)
}

func TestProhibitedWinsOverCrisis(t *testing.T) {
	f := newFixture(t)
	_, err := f.posts.Create(context.Background(), f.account(t), CreatePostInput{Content: "shit, I want to die", MoodTag: "low", Mode: "vent"})
	assert.ErrorIs(t, err, ErrProhibitedContent)
	assert.Empty(t, f.violations.byType(models.ViolationCrisis))
}

func TestCreateComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.post(t, f.account(t))

	res, err := f.comments.Create(ctx, f.account(t), CreateCommentInput{PostID: post.Ref.ID, Content: "sending support"})
	require.NoError(t, err)
	require.NotNil(t, res.Item)
	assert.Equal(t, post.Ref.ID, res.Item.PostID)
	assert.Equal(t, models.KindComment, res.Item.Ref.Kind)
}

func TestCommentOnHiddenOrMissingPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.post(t, f.account(t))
	f.hide(t, post.Ref)
	author := f.account(t)

	_, err := f.comments.Create(ctx, author, CreateCommentInput{PostID: post.Ref.ID, Content: "hey"})
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = f.comments.Create(ctx, author, CreateCommentInput{PostID: 9999, Content: "hey"})
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = f.comments.Create(ctx, author, CreateCommentInput{Content: "hey"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "postId", ve.Field)
}

func TestCrisisCommentGetsCommentMessage(t *testing.T) {
	f := newFixture(t)
	post := f.post(t, f.account(t))

	res, err := f.comments.Create(context.Background(), f.account(t), CreateCommentInput{PostID: post.Ref.ID, Content: "I don't want to live anymore"})
	require.NoError(t, err)
	assert.True(t, res.Crisis)
	assert.Nil(t, res.Item)
	assert.Equal(t, commentSupportMessage, res.SupportMessage)
}
