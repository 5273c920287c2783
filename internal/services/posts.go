package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

const (
	maxContentLength = 2000
	maxMoodTagLength = 50
)

type ctxKey string

const clientIPKey ctxKey = "client_ip"

// WithClientIP stores the caller's address for the audit log.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// CreatePostInput is the body of a new post.
type CreatePostInput struct {
	Content string `json:"content"`
	MoodTag string `json:"moodTag"`
	Mode    string `json:"mode"`
}

// CreateResult is either the stored content or a crisis response. Crisis
// content is never stored.
type CreateResult[T any] struct {
	Item           *T
	Crisis         bool
	SupportMessage string
}

// screen runs the write gate shared by posts and comments: read-only check,
// then the content guard. Rejections and crisis hits go to the audit log.
func screen(ctx context.Context, guard *ContentGuard, violations ViolationRecorder, author *models.Account, kind models.ContentKind, text string) (GuardResult, error) {
	if err := RequireWritable(author); err != nil {
		return GuardResult{}, err
	}

	verdict, err := guard.Check(kind, text)
	if errors.Is(err, ErrProhibitedContent) {
		recordViolation(ctx, violations, models.Violation{
			AccountID:   author.ID.String(),
			IPAddress:   clientIP(ctx),
			Type:        models.ViolationProhibitedContent,
			ContentKind: kind,
			Message:     text,
			ActionTaken: "rejected",
		})
		log.Info().Str("account_id", author.ID.String()).Str("kind", string(kind)).Msg("🚫 prohibited content rejected")
		return GuardResult{}, err
	}
	if verdict.Crisis {
		// The text itself is not kept.
		recordViolation(ctx, violations, models.Violation{
			AccountID:   author.ID.String(),
			IPAddress:   clientIP(ctx),
			Type:        models.ViolationCrisis,
			ContentKind: kind,
			ActionTaken: "support_shown",
		})
	}
	return verdict, err
}

// PostService publishes posts.
type PostService struct {
	store      store.Store
	guard      *ContentGuard
	violations ViolationRecorder
}

func NewPostService(s store.Store, guard *ContentGuard, violations ViolationRecorder) *PostService {
	if violations == nil {
		violations = NopViolationRecorder{}
	}
	return &PostService{store: s, guard: guard, violations: violations}
}

// Create validates, screens and stores a post.
func (s *PostService) Create(ctx context.Context, author *models.Account, in CreatePostInput) (*CreateResult[models.Post], error) {
	in.Content = strings.TrimSpace(in.Content)
	in.MoodTag = strings.TrimSpace(in.MoodTag)
	mode := models.PostMode(strings.ToLower(strings.TrimSpace(in.Mode)))

	switch {
	case in.Content == "":
		return nil, missingField("content")
	case in.MoodTag == "":
		return nil, missingField("moodTag")
	case mode == "":
		return nil, missingField("mode")
	case !mode.Valid():
		return nil, invalidField("mode", "Mode must be vent or advice")
	case len([]rune(in.Content)) > maxContentLength:
		return nil, invalidField("content", fmt.Sprintf("Content must be at most %d characters", maxContentLength))
	case len([]rune(in.MoodTag)) > maxMoodTagLength:
		return nil, invalidField("moodTag", fmt.Sprintf("Mood tag must be at most %d characters", maxMoodTagLength))
	}

	verdict, err := screen(ctx, s.guard, s.violations, author, models.KindPost, in.Content)
	if err != nil {
		return nil, err
	}
	if verdict.Crisis {
		return &CreateResult[models.Post]{Crisis: true, SupportMessage: verdict.SupportMessage}, nil
	}

	post := &models.Post{
		Content: models.Content{AuthorID: author.ID, Body: in.Content},
		MoodTag: in.MoodTag,
		Mode:    mode,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &CreateResult[models.Post]{Item: post}, nil
}

// CreateCommentInput is the body of a new comment.
type CreateCommentInput struct {
	PostID  int64  `json:"postId"`
	Content string `json:"content"`
}

// CommentService publishes comments on visible posts.
type CommentService struct {
	store      store.Store
	guard      *ContentGuard
	violations ViolationRecorder
}

func NewCommentService(s store.Store, guard *ContentGuard, violations ViolationRecorder) *CommentService {
	if violations == nil {
		violations = NopViolationRecorder{}
	}
	return &CommentService{store: s, guard: guard, violations: violations}
}

// Create validates, screens and stores a comment.
func (s *CommentService) Create(ctx context.Context, author *models.Account, in CreateCommentInput) (*CreateResult[models.Comment], error) {
	in.Content = strings.TrimSpace(in.Content)
	switch {
	case in.PostID <= 0:
		return nil, missingField("postId")
	case in.Content == "":
		return nil, missingField("content")
	case len([]rune(in.Content)) > maxContentLength:
		return nil, invalidField("content", fmt.Sprintf("Content must be at most %d characters", maxContentLength))
	}

	verdict, err := screen(ctx, s.guard, s.violations, author, models.KindComment, in.Content)
	if err != nil {
		return nil, err
	}
	if verdict.Crisis {
		return &CreateResult[models.Comment]{Crisis: true, SupportMessage: verdict.SupportMessage}, nil
	}

	post, err := s.store.GetPost(ctx, in.PostID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post.Visibility.IsHidden() {
		return nil, ErrTargetNotFound
	}

	comment := &models.Comment{
		Content: models.Content{AuthorID: author.ID, Body: in.Content},
		PostID:  in.PostID,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &CreateResult[models.Comment]{Item: comment}, nil
}
