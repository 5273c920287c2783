package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

// FeedAssembler builds viewer-enriched pages of visible content.
type FeedAssembler struct {
	store        store.Queries
	defaultLimit int
	maxLimit     int
}

func NewFeedAssembler(q store.Queries, defaultLimit, maxLimit int) *FeedAssembler {
	return &FeedAssembler{store: q, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// NormalizeCursor applies the default and maximum page size.
func (f *FeedAssembler) NormalizeCursor(c models.Cursor) models.Cursor {
	if c.Limit <= 0 {
		c.Limit = f.defaultLimit
	}
	if c.Limit > f.maxLimit {
		c.Limit = f.maxLimit
	}
	if c.LastSeenID < 0 {
		c.LastSeenID = 0
	}
	return c
}

// Posts returns visible posts newer-first. viewer may be nil for anonymous reads.
// HasMore is true iff the page is full, so an exactly-full last page reports
// one extra empty page.
func (f *FeedAssembler) Posts(ctx context.Context, viewer *models.Account, c models.Cursor) (*models.FeedPage, error) {
	c = f.NormalizeCursor(c)

	posts, err := f.store.ListPosts(ctx, models.PostFilter{Cursor: c, Visibility: models.Visible})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if len(posts) == 0 {
		return emptyPage(), nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.Ref.ID
	}

	e, err := f.enrich(ctx, models.KindPost, ids, viewer)
	if err != nil {
		return nil, err
	}
	commentCounts, err := f.store.CountVisibleComments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	items := make([]models.FeedItem, 0, len(posts))
	for _, p := range posts {
		item := e.item(p.Content)
		item.MoodTag = p.MoodTag
		item.Mode = p.Mode
		count := commentCounts[p.Ref.ID]
		item.CommentCount = &count
		items = append(items, item)
	}
	return &models.FeedPage{Items: items, HasMore: len(items) == c.Limit}, nil
}

// Comments returns the visible comments of a visible post.
func (f *FeedAssembler) Comments(ctx context.Context, viewer *models.Account, postID int64, c models.Cursor) (*models.FeedPage, error) {
	post, err := f.store.GetPost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post.Visibility.IsHidden() {
		return nil, ErrTargetNotFound
	}

	c = f.NormalizeCursor(c)
	comments, err := f.store.ListComments(ctx, models.CommentFilter{Cursor: c, PostID: postID, Visibility: models.Visible})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if len(comments) == 0 {
		return emptyPage(), nil
	}

	ids := make([]int64, len(comments))
	for i, cm := range comments {
		ids[i] = cm.Ref.ID
	}
	e, err := f.enrich(ctx, models.KindComment, ids, viewer)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(comments))
	for _, cm := range comments {
		item := e.item(cm.Content)
		item.PostID = cm.PostID
		items = append(items, item)
	}
	return &models.FeedPage{Items: items, HasMore: len(items) == c.Limit}, nil
}

func emptyPage() *models.FeedPage {
	return &models.FeedPage{Items: []models.FeedItem{}, HasMore: false}
}

type enrichment struct {
	counts   map[int64]models.ReactionCounts
	reacted  map[int64]models.ReactionType
	reported map[int64]bool
}

func (e enrichment) item(c models.Content) models.FeedItem {
	return models.FeedItem{
		ID:             c.Ref.ID,
		Kind:           c.Ref.Kind,
		Content:        c.Body,
		CreatedAt:      c.CreatedAt,
		Reactions:      e.counts[c.Ref.ID].Zeroed(),
		ViewerReaction: e.reacted[c.Ref.ID],
		ViewerReported: e.reported[c.Ref.ID],
	}
}

func (f *FeedAssembler) enrich(ctx context.Context, kind models.ContentKind, ids []int64, viewer *models.Account) (enrichment, error) {
	var e enrichment
	var err error

	e.counts, err = f.store.ReactionCounts(ctx, kind, ids)
	if err != nil {
		return e, fmt.Errorf("reaction counts: %w", err)
	}
	if viewer == nil || viewer.ID == uuid.Nil {
		return e, nil
	}

	e.reacted, err = f.store.ViewerReactions(ctx, kind, ids, viewer.ID)
	if err != nil {
		return e, fmt.Errorf("viewer reactions: %w", err)
	}
	e.reported, err = f.store.ViewerReported(ctx, kind, ids, viewer.ID)
	if err != nil {
		return e, fmt.Errorf("viewer reports: %w", err)
	}
	return e, nil
}

// Authored lists the author's own posts, hidden ones included. Hidden posts are
// flagged and their body replaced with the review notice.
func (f *FeedAssembler) Authored(ctx context.Context, author *models.Account, c models.Cursor) (*models.FeedPage, error) {
	c = f.NormalizeCursor(c)

	posts, err := f.store.ListPostsByAuthor(ctx, author.ID, c)
	if err != nil {
		return nil, fmt.Errorf("list own posts: %w", err)
	}
	if len(posts) == 0 {
		return emptyPage(), nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.Ref.ID
	}
	e, err := f.enrich(ctx, models.KindPost, ids, author)
	if err != nil {
		return nil, err
	}
	commentCounts, err := f.store.CountVisibleComments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	items := make([]models.FeedItem, 0, len(posts))
	for _, p := range posts {
		item := e.item(p.Content)
		item.MoodTag = p.MoodTag
		item.Mode = p.Mode
		count := commentCounts[p.Ref.ID]
		item.CommentCount = &count
		if p.Visibility.IsHidden() {
			item.IsHidden = true
			item.Content = models.ReviewNotice
		}
		items = append(items, item)
	}
	return &models.FeedPage{Items: items, HasMore: len(items) == c.Limit}, nil
}
