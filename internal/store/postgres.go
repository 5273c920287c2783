package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres is the lib/pq backed Store.
type Postgres struct {
	pgQueries
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{pgQueries: pgQueries{db: db}, db: db}
}

func (p *Postgres) WithTx(ctx context.Context, fn func(q Queries) error) (err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&pgQueries{db: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", mapErr(err))
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

type pgQueries struct {
	db DBTX
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) || sqlscan.NotFound(err) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrConflict
		case "23503": // foreign_key_violation: the referenced row is gone
			return ErrNotFound
		}
	}
	return err
}

func (q *pgQueries) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

// execOne is exec for statements that must touch exactly one row.
func (q *pgQueries) execOne(ctx context.Context, b sq.Sqlizer) error {
	n, err := q.exec(ctx, b)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *pgQueries) get(ctx context.Context, dst any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return mapErr(sqlscan.Get(ctx, q.db, dst, query, args...))
}

func (q *pgQueries) selectAll(ctx context.Context, dst any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return mapErr(sqlscan.Select(ctx, q.db, dst, query, args...))
}

// ---------- accounts ----------

var accountColumns = []string{
	"id", "anon_id", "username", "role", "is_banned", "ban_expires_at",
	"is_read_only", "strike_count", "created_at", "updated_at",
}

type accountRow struct {
	ID           uuid.UUID  `db:"id"`
	AnonID       string     `db:"anon_id"`
	Username     string     `db:"username"`
	Role         string     `db:"role"`
	IsBanned     bool       `db:"is_banned"`
	BanExpiresAt *time.Time `db:"ban_expires_at"`
	IsReadOnly   bool       `db:"is_read_only"`
	StrikeCount  int        `db:"strike_count"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r accountRow) model() *models.Account {
	return &models.Account{
		ID:           r.ID,
		AnonID:       r.AnonID,
		Username:     r.Username,
		Role:         models.Role(r.Role),
		IsBanned:     r.IsBanned,
		BanExpiresAt: r.BanExpiresAt,
		IsReadOnly:   r.IsReadOnly,
		StrikeCount:  r.StrikeCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (q *pgQueries) CreateAccount(ctx context.Context, a *models.Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	_, err := q.exec(ctx, psql.Insert("accounts").
		Columns(accountColumns...).
		Values(a.ID, a.AnonID, a.Username, string(a.Role), a.IsBanned, a.BanExpiresAt,
			a.IsReadOnly, a.StrikeCount, a.CreatedAt, a.UpdatedAt))
	return err
}

func (q *pgQueries) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var row accountRow
	if err := q.get(ctx, &row, psql.Select(accountColumns...).From("accounts").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return row.model(), nil
}

func (q *pgQueries) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var row accountRow
	b := psql.Select(accountColumns...).From("accounts").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE")
	if err := q.get(ctx, &row, b); err != nil {
		return nil, err
	}
	return row.model(), nil
}

func (q *pgQueries) UpdateAccountModeration(ctx context.Context, a *models.Account) error {
	a.UpdatedAt = time.Now().UTC()
	return q.execOne(ctx, psql.Update("accounts").
		Set("is_banned", a.IsBanned).
		Set("ban_expires_at", a.BanExpiresAt).
		Set("is_read_only", a.IsReadOnly).
		Set("strike_count", a.StrikeCount).
		Set("updated_at", a.UpdatedAt).
		Where(sq.Eq{"id": a.ID}))
}

type adminCredentialRow struct {
	AccountID    uuid.UUID `db:"account_id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (q *pgQueries) CreateAdminCredential(ctx context.Context, c *models.AdminCredential) error {
	c.CreatedAt = time.Now().UTC()
	_, err := q.exec(ctx, psql.Insert("admin_credentials").
		Columns("account_id", "username", "password_hash", "created_at").
		Values(c.AccountID, c.Username, c.PasswordHash, c.CreatedAt))
	return err
}

func (q *pgQueries) GetAdminCredential(ctx context.Context, username string) (*models.AdminCredential, error) {
	var row adminCredentialRow
	b := psql.Select("account_id", "username", "password_hash", "created_at").
		From("admin_credentials").
		Where(sq.Eq{"LOWER(username)": strings.ToLower(username)})
	if err := q.get(ctx, &row, b); err != nil {
		return nil, err
	}
	return &models.AdminCredential{
		AccountID:    row.AccountID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// ---------- content ----------

var contentColumns = []string{"id", "author_id", "content", "report_count", "is_hidden", "created_at", "updated_at"}

var (
	postColumns    = append(append([]string{}, contentColumns...), "mood_tag", "mode")
	commentColumns = append(append([]string{}, contentColumns...), "post_id")
)

type contentRow struct {
	ID          int64     `db:"id"`
	AuthorID    uuid.UUID `db:"author_id"`
	Body        string    `db:"content"`
	ReportCount int       `db:"report_count"`
	IsHidden    bool      `db:"is_hidden"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r contentRow) model(kind models.ContentKind) models.Content {
	return models.Content{
		Ref:         models.ContentRef{Kind: kind, ID: r.ID},
		AuthorID:    r.AuthorID,
		Body:        r.Body,
		ReportCount: r.ReportCount,
		Visibility:  models.VisibilityFromHidden(r.IsHidden),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type postRow struct {
	contentRow
	MoodTag string `db:"mood_tag"`
	Mode    string `db:"mode"`
}

func (r postRow) model() models.Post {
	return models.Post{Content: r.contentRow.model(models.KindPost), MoodTag: r.MoodTag, Mode: models.PostMode(r.Mode)}
}

type commentRow struct {
	contentRow
	PostID int64 `db:"post_id"`
}

func (r commentRow) model() models.Comment {
	return models.Comment{Content: r.contentRow.model(models.KindComment), PostID: r.PostID}
}

func contentTable(kind models.ContentKind) (string, error) {
	switch kind {
	case models.KindPost:
		return "posts", nil
	case models.KindComment:
		return "comments", nil
	}
	return "", fmt.Errorf("unknown content kind %q", kind)
}

func (q *pgQueries) CreatePost(ctx context.Context, p *models.Post) error {
	b := psql.Insert("posts").
		Columns("author_id", "content", "mood_tag", "mode").
		Values(p.AuthorID, p.Body, p.MoodTag, string(p.Mode)).
		Suffix("RETURNING id, created_at, updated_at")
	var out struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := q.get(ctx, &out, b); err != nil {
		return err
	}
	p.Ref = models.ContentRef{Kind: models.KindPost, ID: out.ID}
	p.Visibility = models.Visible
	p.CreatedAt, p.UpdatedAt = out.CreatedAt, out.UpdatedAt
	return nil
}

func (q *pgQueries) CreateComment(ctx context.Context, c *models.Comment) error {
	b := psql.Insert("comments").
		Columns("post_id", "author_id", "content").
		Values(c.PostID, c.AuthorID, c.Body).
		Suffix("RETURNING id, created_at, updated_at")
	var out struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := q.get(ctx, &out, b); err != nil {
		return err
	}
	c.Ref = models.ContentRef{Kind: models.KindComment, ID: out.ID}
	c.Visibility = models.Visible
	c.CreatedAt, c.UpdatedAt = out.CreatedAt, out.UpdatedAt
	return nil
}

func (q *pgQueries) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var row postRow
	if err := q.get(ctx, &row, psql.Select(postColumns...).From("posts").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	p := row.model()
	return &p, nil
}

func (q *pgQueries) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	var row commentRow
	if err := q.get(ctx, &row, psql.Select(commentColumns...).From("comments").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	c := row.model()
	return &c, nil
}

func (q *pgQueries) GetContent(ctx context.Context, ref models.ContentRef) (*models.Content, error) {
	table, err := contentTable(ref.Kind)
	if err != nil {
		return nil, err
	}
	var row contentRow
	if err := q.get(ctx, &row, psql.Select(contentColumns...).From(table).Where(sq.Eq{"id": ref.ID})); err != nil {
		return nil, err
	}
	c := row.model(ref.Kind)
	return &c, nil
}

func (q *pgQueries) LockContent(ctx context.Context, ref models.ContentRef) (*models.Content, error) {
	table, err := contentTable(ref.Kind)
	if err != nil {
		return nil, err
	}
	var row contentRow
	b := psql.Select(contentColumns...).From(table).Where(sq.Eq{"id": ref.ID}).Suffix("FOR SHARE")
	if err := q.get(ctx, &row, b); err != nil {
		return nil, err
	}
	c := row.model(ref.Kind)
	return &c, nil
}

func (q *pgQueries) IncrementReportCount(ctx context.Context, ref models.ContentRef) (*models.Content, error) {
	table, err := contentTable(ref.Kind)
	if err != nil {
		return nil, err
	}
	b := psql.Update(table).
		Set("report_count", sq.Expr("report_count + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": ref.ID}).
		Suffix("RETURNING " + strings.Join(contentColumns, ", "))
	var row contentRow
	if err := q.get(ctx, &row, b); err != nil {
		return nil, err
	}
	c := row.model(ref.Kind)
	return &c, nil
}

func (q *pgQueries) SetVisibility(ctx context.Context, ref models.ContentRef, v models.Visibility, resetReports bool) error {
	table, err := contentTable(ref.Kind)
	if err != nil {
		return err
	}
	b := psql.Update(table).
		Set("is_hidden", v.IsHidden()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": ref.ID})
	if resetReports {
		b = b.Set("report_count", 0)
	}
	return q.execOne(ctx, b)
}

func (q *pgQueries) DeleteContent(ctx context.Context, ref models.ContentRef) error {
	table, err := contentTable(ref.Kind)
	if err != nil {
		return err
	}

	if ref.Kind == models.KindPost {
		childIDs := "target_type = ? AND target_id IN (SELECT id FROM comments WHERE post_id = ?)"
		for _, t := range []string{"reports", "reactions"} {
			if _, err := q.exec(ctx, psql.Delete(t).Where(childIDs, string(models.KindComment), ref.ID)); err != nil {
				return fmt.Errorf("delete comment %s: %w", t, err)
			}
		}
		if _, err := q.exec(ctx, psql.Delete("comments").Where(sq.Eq{"post_id": ref.ID})); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
	}

	for _, t := range []string{"reports", "reactions"} {
		if _, err := q.exec(ctx, psql.Delete(t).Where(sq.Eq{"target_type": string(ref.Kind), "target_id": ref.ID})); err != nil {
			return fmt.Errorf("delete %s: %w", t, err)
		}
	}
	return q.execOne(ctx, psql.Delete(table).Where(sq.Eq{"id": ref.ID}))
}

func withCursor(b sq.SelectBuilder, c models.Cursor) sq.SelectBuilder {
	if c.LastSeenID > 0 {
		b = b.Where(sq.Lt{"id": c.LastSeenID})
	}
	b = b.OrderBy("id DESC")
	if c.Limit > 0 {
		b = b.Limit(uint64(c.Limit))
	}
	return b
}

func withVisibility(b sq.SelectBuilder, v models.Visibility) sq.SelectBuilder {
	if v == "" {
		return b
	}
	return b.Where(sq.Eq{"is_hidden": v.IsHidden()})
}

func (q *pgQueries) ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	b := withVisibility(psql.Select(postColumns...).From("posts"), f.Visibility)
	var rows []postRow
	if err := q.selectAll(ctx, &rows, withCursor(b, f.Cursor)); err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (q *pgQueries) ListComments(ctx context.Context, f models.CommentFilter) ([]models.Comment, error) {
	b := psql.Select(commentColumns...).From("comments")
	if f.PostID > 0 {
		b = b.Where(sq.Eq{"post_id": f.PostID})
	}
	b = withVisibility(b, f.Visibility)
	var rows []commentRow
	if err := q.selectAll(ctx, &rows, withCursor(b, f.Cursor)); err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (q *pgQueries) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, c models.Cursor) ([]models.Post, error) {
	b := psql.Select(postColumns...).From("posts").Where(sq.Eq{"author_id": authorID})
	var rows []postRow
	if err := q.selectAll(ctx, &rows, withCursor(b, c)); err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (q *pgQueries) CountVisibleComments(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	b := psql.Select("post_id", "COUNT(*) AS count").
		From("comments").
		Where(sq.Eq{"post_id": postIDs, "is_hidden": false}).
		GroupBy("post_id")
	var rows []struct {
		PostID int64 `db:"post_id"`
		Count  int   `db:"count"`
	}
	if err := q.selectAll(ctx, &rows, b); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PostID] = r.Count
	}
	return out, nil
}

// ---------- reactions ----------

type reactionRow struct {
	TargetType string    `db:"target_type"`
	TargetID   int64     `db:"target_id"`
	AccountID  uuid.UUID `db:"account_id"`
	Type       string    `db:"type"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func targetEq(ref models.ContentRef, accountID uuid.UUID) sq.Eq {
	return sq.Eq{"target_type": string(ref.Kind), "target_id": ref.ID, "account_id": accountID}
}

func (q *pgQueries) GetReaction(ctx context.Context, target models.ContentRef, accountID uuid.UUID) (*models.Reaction, error) {
	var row reactionRow
	b := psql.Select("target_type", "target_id", "account_id", "type", "created_at", "updated_at").
		From("reactions").
		Where(targetEq(target, accountID))
	if err := q.get(ctx, &row, b); err != nil {
		return nil, err
	}
	return &models.Reaction{
		Target:    models.ContentRef{Kind: models.ContentKind(row.TargetType), ID: row.TargetID},
		AccountID: row.AccountID,
		Type:      models.ReactionType(row.Type),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (q *pgQueries) InsertReaction(ctx context.Context, r *models.Reaction) error {
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	_, err := q.exec(ctx, psql.Insert("reactions").
		Columns("target_type", "target_id", "account_id", "type", "created_at", "updated_at").
		Values(string(r.Target.Kind), r.Target.ID, r.AccountID, string(r.Type), r.CreatedAt, r.UpdatedAt))
	return err
}

func (q *pgQueries) UpdateReactionType(ctx context.Context, target models.ContentRef, accountID uuid.UUID, t models.ReactionType) error {
	return q.execOne(ctx, psql.Update("reactions").
		Set("type", string(t)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(targetEq(target, accountID)))
}

func (q *pgQueries) DeleteReaction(ctx context.Context, target models.ContentRef, accountID uuid.UUID) error {
	return q.execOne(ctx, psql.Delete("reactions").Where(targetEq(target, accountID)))
}

func (q *pgQueries) ReactionCounts(ctx context.Context, kind models.ContentKind, ids []int64) (map[int64]models.ReactionCounts, error) {
	out := make(map[int64]models.ReactionCounts, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	b := psql.Select("target_id", "type", "COUNT(*) AS count").
		From("reactions").
		Where(sq.Eq{"target_type": string(kind), "target_id": ids}).
		GroupBy("target_id", "type")
	var rows []struct {
		TargetID int64  `db:"target_id"`
		Type     string `db:"type"`
		Count    int    `db:"count"`
	}
	if err := q.selectAll(ctx, &rows, b); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if out[r.TargetID] == nil {
			out[r.TargetID] = models.ReactionCounts{}
		}
		out[r.TargetID][models.ReactionType(r.Type)] = r.Count
	}
	return out, nil
}

func (q *pgQueries) ViewerReactions(ctx context.Context, kind models.ContentKind, ids []int64, accountID uuid.UUID) (map[int64]models.ReactionType, error) {
	out := make(map[int64]models.ReactionType)
	if len(ids) == 0 {
		return out, nil
	}
	b := psql.Select("target_id", "type").
		From("reactions").
		Where(sq.Eq{"target_type": string(kind), "target_id": ids, "account_id": accountID})
	var rows []struct {
		TargetID int64  `db:"target_id"`
		Type     string `db:"type"`
	}
	if err := q.selectAll(ctx, &rows, b); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.TargetID] = models.ReactionType(r.Type)
	}
	return out, nil
}

// ---------- reports ----------

func (q *pgQueries) InsertReport(ctx context.Context, r *models.Report) error {
	b := psql.Insert("reports").
		Columns("target_type", "target_id", "reporter_id", "reason").
		Values(string(r.Target.Kind), r.Target.ID, r.ReporterID, r.Reason).
		Suffix("RETURNING id, created_at")
	var out struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := q.get(ctx, &out, b); err != nil {
		return err
	}
	r.ID, r.CreatedAt = out.ID, out.CreatedAt
	return nil
}

func (q *pgQueries) ViewerReported(ctx context.Context, kind models.ContentKind, ids []int64, accountID uuid.UUID) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if len(ids) == 0 {
		return out, nil
	}
	b := psql.Select("target_id").
		From("reports").
		Where(sq.Eq{"target_type": string(kind), "target_id": ids, "reporter_id": accountID})
	var reported []int64
	if err := q.selectAll(ctx, &reported, b); err != nil {
		return nil, err
	}
	for _, id := range reported {
		out[id] = true
	}
	return out, nil
}

func (q *pgQueries) DeleteReports(ctx context.Context, target models.ContentRef) error {
	_, err := q.exec(ctx, psql.Delete("reports").
		Where(sq.Eq{"target_type": string(target.Kind), "target_id": target.ID}))
	return err
}

// ---------- notifications ----------

var notificationColumns = []string{"id", "account_id", "message", "is_read", "created_at"}

type notificationRow struct {
	ID        int64     `db:"id"`
	AccountID uuid.UUID `db:"account_id"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

func (q *pgQueries) CreateNotification(ctx context.Context, n *models.Notification) error {
	b := psql.Insert("notifications").
		Columns("account_id", "message").
		Values(n.AccountID, n.Message).
		Suffix("RETURNING id, created_at")
	var out struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := q.get(ctx, &out, b); err != nil {
		return err
	}
	n.ID, n.CreatedAt = out.ID, out.CreatedAt
	return nil
}

func (q *pgQueries) ListNotifications(ctx context.Context, accountID uuid.UUID, limit int) ([]models.Notification, error) {
	b := psql.Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	var rows []notificationRow
	if err := q.selectAll(ctx, &rows, b); err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Notification(r))
	}
	return out, nil
}

func (q *pgQueries) MarkNotificationRead(ctx context.Context, id int64, accountID uuid.UUID) error {
	return q.execOne(ctx, psql.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": id, "account_id": accountID}))
}

func (q *pgQueries) DeleteNotification(ctx context.Context, id int64, accountID uuid.UUID) error {
	return q.execOne(ctx, psql.Delete("notifications").Where(sq.Eq{"id": id, "account_id": accountID}))
}
