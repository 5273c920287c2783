// Package store persists accounts, content and the moderation ledgers.
//
// Two implementations share the same semantics: Postgres for deployments and
// Memory for tests and single-process development. Uniqueness of reports and
// reactions is enforced by the store itself and surfaces as ErrConflict.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: unique constraint violated")
)

// Queries is every storage operation. Inside WithTx the same calls run in one transaction.
type Queries interface {
	// Accounts
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	// GetAccountForUpdate locks the row until the surrounding transaction ends.
	GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error)
	UpdateAccountModeration(ctx context.Context, a *models.Account) error
	CreateAdminCredential(ctx context.Context, c *models.AdminCredential) error
	GetAdminCredential(ctx context.Context, username string) (*models.AdminCredential, error)

	// Content
	CreatePost(ctx context.Context, p *models.Post) error
	CreateComment(ctx context.Context, c *models.Comment) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	GetContent(ctx context.Context, ref models.ContentRef) (*models.Content, error)
	// LockContent is GetContent holding a shared row lock until the surrounding
	// transaction ends, so the content cannot be deleted underneath it.
	LockContent(ctx context.Context, ref models.ContentRef) (*models.Content, error)
	// IncrementReportCount adds one to the counter and returns the row as it is
	// after the increment. The row stays locked until the transaction ends.
	IncrementReportCount(ctx context.Context, ref models.ContentRef) (*models.Content, error)
	// SetVisibility stores v; resetReports also zeroes the report counter.
	SetVisibility(ctx context.Context, ref models.ContentRef, v models.Visibility, resetReports bool) error
	// DeleteContent removes the content with its reports and reactions, and for a
	// post also its comments and their reports and reactions.
	DeleteContent(ctx context.Context, ref models.ContentRef) error
	ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error)
	ListComments(ctx context.Context, f models.CommentFilter) ([]models.Comment, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, c models.Cursor) ([]models.Post, error)
	CountVisibleComments(ctx context.Context, postIDs []int64) (map[int64]int, error)

	// Reactions
	GetReaction(ctx context.Context, target models.ContentRef, accountID uuid.UUID) (*models.Reaction, error)
	InsertReaction(ctx context.Context, r *models.Reaction) error
	UpdateReactionType(ctx context.Context, target models.ContentRef, accountID uuid.UUID, t models.ReactionType) error
	DeleteReaction(ctx context.Context, target models.ContentRef, accountID uuid.UUID) error
	ReactionCounts(ctx context.Context, kind models.ContentKind, ids []int64) (map[int64]models.ReactionCounts, error)
	ViewerReactions(ctx context.Context, kind models.ContentKind, ids []int64, accountID uuid.UUID) (map[int64]models.ReactionType, error)

	// Reports
	InsertReport(ctx context.Context, r *models.Report) error
	ViewerReported(ctx context.Context, kind models.ContentKind, ids []int64, accountID uuid.UUID) (map[int64]bool, error)
	DeleteReports(ctx context.Context, target models.ContentRef) error

	// Notifications
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, accountID uuid.UUID, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64, accountID uuid.UUID) error
	DeleteNotification(ctx context.Context, id int64, accountID uuid.UUID) error
}

// Store is Queries plus transactions.
type Store interface {
	Queries
	// WithTx runs fn in a transaction. A non-nil error from fn rolls everything back.
	WithTx(ctx context.Context, fn func(q Queries) error) error
	Close() error
}
