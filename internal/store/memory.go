package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

type reactionKey struct {
	kind      models.ContentKind
	id        int64
	accountID uuid.UUID
}

type reportKey struct {
	kind       models.ContentKind
	id         int64
	reporterID uuid.UUID
}

// Memory is an in-process Store. Transactions are serialized behind one mutex
// and roll back by restoring a snapshot, so it keeps the same uniqueness and
// atomicity guarantees as Postgres within a single process.
type Memory struct {
	mu   sync.Mutex
	data *memData
}

func NewMemory() *Memory {
	return &Memory{data: newMemData()}
}

func (m *Memory) WithTx(ctx context.Context, fn func(q Queries) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	defer func() {
		if r := recover(); r != nil {
			m.data = snapshot
			panic(r)
		}
	}()
	if err := fn(m.data); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

func (m *Memory) Close() error { return nil }

type memData struct {
	accounts      map[uuid.UUID]models.Account
	adminCreds    map[string]models.AdminCredential
	posts         map[int64]models.Post
	comments      map[int64]models.Comment
	reactions     map[reactionKey]models.Reaction
	reports       map[reportKey]models.Report
	notifications map[int64]models.Notification

	nextPostID, nextCommentID, nextReportID, nextNotificationID int64
}

func newMemData() *memData {
	return &memData{
		accounts:      map[uuid.UUID]models.Account{},
		adminCreds:    map[string]models.AdminCredential{},
		posts:         map[int64]models.Post{},
		comments:      map[int64]models.Comment{},
		reactions:     map[reactionKey]models.Reaction{},
		reports:       map[reportKey]models.Report{},
		notifications: map[int64]models.Notification{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (d *memData) clone() *memData {
	c := *d
	c.accounts = cloneMap(d.accounts)
	c.adminCreds = cloneMap(d.adminCreds)
	c.posts = cloneMap(d.posts)
	c.comments = cloneMap(d.comments)
	c.reactions = cloneMap(d.reactions)
	c.reports = cloneMap(d.reports)
	c.notifications = cloneMap(d.notifications)
	return &c
}

// ---------- accounts ----------

func (d *memData) CreateAccount(_ context.Context, a *models.Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if _, ok := d.accounts[a.ID]; ok {
		return ErrConflict
	}
	for _, other := range d.accounts {
		if other.AnonID == a.AnonID {
			return ErrConflict
		}
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	d.accounts[a.ID] = *a
	return nil
}

func (d *memData) GetAccount(_ context.Context, id uuid.UUID) (*models.Account, error) {
	a, ok := d.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (d *memData) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return d.GetAccount(ctx, id)
}

func (d *memData) UpdateAccountModeration(_ context.Context, a *models.Account) error {
	cur, ok := d.accounts[a.ID]
	if !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	cur.IsBanned = a.IsBanned
	cur.BanExpiresAt = a.BanExpiresAt
	cur.IsReadOnly = a.IsReadOnly
	cur.StrikeCount = a.StrikeCount
	cur.UpdatedAt = a.UpdatedAt
	d.accounts[a.ID] = cur
	return nil
}

func (d *memData) CreateAdminCredential(_ context.Context, c *models.AdminCredential) error {
	key := strings.ToLower(c.Username)
	if _, ok := d.adminCreds[key]; ok {
		return ErrConflict
	}
	if _, ok := d.accounts[c.AccountID]; !ok {
		return ErrNotFound
	}
	c.CreatedAt = time.Now().UTC()
	d.adminCreds[key] = *c
	return nil
}

func (d *memData) GetAdminCredential(_ context.Context, username string) (*models.AdminCredential, error) {
	c, ok := d.adminCreds[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// ---------- content ----------

func (d *memData) CreatePost(_ context.Context, p *models.Post) error {
	d.nextPostID++
	now := time.Now().UTC()
	p.Ref = models.ContentRef{Kind: models.KindPost, ID: d.nextPostID}
	p.Visibility = models.Visible
	p.ReportCount = 0
	p.CreatedAt, p.UpdatedAt = now, now
	d.posts[p.Ref.ID] = *p
	return nil
}

func (d *memData) CreateComment(_ context.Context, c *models.Comment) error {
	if _, ok := d.posts[c.PostID]; !ok {
		return ErrNotFound
	}
	d.nextCommentID++
	now := time.Now().UTC()
	c.Ref = models.ContentRef{Kind: models.KindComment, ID: d.nextCommentID}
	c.Visibility = models.Visible
	c.ReportCount = 0
	c.CreatedAt, c.UpdatedAt = now, now
	d.comments[c.Ref.ID] = *c
	return nil
}

func (d *memData) GetPost(_ context.Context, id int64) (*models.Post, error) {
	p, ok := d.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (d *memData) GetComment(_ context.Context, id int64) (*models.Comment, error) {
	c, ok := d.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (d *memData) GetContent(_ context.Context, ref models.ContentRef) (*models.Content, error) {
	switch ref.Kind {
	case models.KindPost:
		if p, ok := d.posts[ref.ID]; ok {
			return &p.Content, nil
		}
	case models.KindComment:
		if c, ok := d.comments[ref.ID]; ok {
			return &c.Content, nil
		}
	}
	return nil, ErrNotFound
}

func (d *memData) LockContent(ctx context.Context, ref models.ContentRef) (*models.Content, error) {
	return d.GetContent(ctx, ref)
}

// updateContent applies fn to the stored content of ref.
func (d *memData) updateContent(ref models.ContentRef, fn func(c *models.Content)) (*models.Content, error) {
	now := time.Now().UTC()
	switch ref.Kind {
	case models.KindPost:
		p, ok := d.posts[ref.ID]
		if !ok {
			return nil, ErrNotFound
		}
		fn(&p.Content)
		p.UpdatedAt = now
		d.posts[ref.ID] = p
		return &p.Content, nil
	case models.KindComment:
		c, ok := d.comments[ref.ID]
		if !ok {
			return nil, ErrNotFound
		}
		fn(&c.Content)
		c.UpdatedAt = now
		d.comments[ref.ID] = c
		return &c.Content, nil
	}
	return nil, ErrNotFound
}

func (d *memData) IncrementReportCount(_ context.Context, ref models.ContentRef) (*models.Content, error) {
	return d.updateContent(ref, func(c *models.Content) { c.ReportCount++ })
}

func (d *memData) SetVisibility(_ context.Context, ref models.ContentRef, v models.Visibility, resetReports bool) error {
	_, err := d.updateContent(ref, func(c *models.Content) {
		c.Visibility = v
		if resetReports {
			c.ReportCount = 0
		}
	})
	return err
}

func (d *memData) deleteLedgers(ref models.ContentRef) {
	for k := range d.reports {
		if k.kind == ref.Kind && k.id == ref.ID {
			delete(d.reports, k)
		}
	}
	for k := range d.reactions {
		if k.kind == ref.Kind && k.id == ref.ID {
			delete(d.reactions, k)
		}
	}
}

func (d *memData) DeleteContent(_ context.Context, ref models.ContentRef) error {
	switch ref.Kind {
	case models.KindPost:
		if _, ok := d.posts[ref.ID]; !ok {
			return ErrNotFound
		}
		for id, c := range d.comments {
			if c.PostID == ref.ID {
				d.deleteLedgers(c.Ref)
				delete(d.comments, id)
			}
		}
		delete(d.posts, ref.ID)
	case models.KindComment:
		if _, ok := d.comments[ref.ID]; !ok {
			return ErrNotFound
		}
		delete(d.comments, ref.ID)
	default:
		return ErrNotFound
	}
	d.deleteLedgers(ref)
	return nil
}

// page sorts ids descending and applies the keyset cursor.
func page(ids []int64, c models.Cursor) []int64 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := ids[:0]
	for _, id := range ids {
		if c.LastSeenID > 0 && id >= c.LastSeenID {
			continue
		}
		out = append(out, id)
		if c.Limit > 0 && len(out) == c.Limit {
			break
		}
	}
	return out
}

func matchesVisibility(want, got models.Visibility) bool {
	return want == "" || want == got
}

func (d *memData) ListPosts(_ context.Context, f models.PostFilter) ([]models.Post, error) {
	var ids []int64
	for id, p := range d.posts {
		if matchesVisibility(f.Visibility, p.Visibility) {
			ids = append(ids, id)
		}
	}
	out := []models.Post{}
	for _, id := range page(ids, f.Cursor) {
		out = append(out, d.posts[id])
	}
	return out, nil
}

func (d *memData) ListComments(_ context.Context, f models.CommentFilter) ([]models.Comment, error) {
	var ids []int64
	for id, c := range d.comments {
		if (f.PostID == 0 || c.PostID == f.PostID) && matchesVisibility(f.Visibility, c.Visibility) {
			ids = append(ids, id)
		}
	}
	out := []models.Comment{}
	for _, id := range page(ids, f.Cursor) {
		out = append(out, d.comments[id])
	}
	return out, nil
}

func (d *memData) ListPostsByAuthor(_ context.Context, authorID uuid.UUID, c models.Cursor) ([]models.Post, error) {
	var ids []int64
	for id, p := range d.posts {
		if p.AuthorID == authorID {
			ids = append(ids, id)
		}
	}
	out := []models.Post{}
	for _, id := range page(ids, c) {
		out = append(out, d.posts[id])
	}
	return out, nil
}

func (d *memData) CountVisibleComments(_ context.Context, postIDs []int64) (map[int64]int, error) {
	want := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	out := make(map[int64]int, len(postIDs))
	for _, c := range d.comments {
		if want[c.PostID] && !c.Visibility.IsHidden() {
			out[c.PostID]++
		}
	}
	return out, nil
}

// ---------- reactions ----------

func (d *memData) GetReaction(_ context.Context, target models.ContentRef, accountID uuid.UUID) (*models.Reaction, error) {
	r, ok := d.reactions[reactionKey{target.Kind, target.ID, accountID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (d *memData) InsertReaction(_ context.Context, r *models.Reaction) error {
	key := reactionKey{r.Target.Kind, r.Target.ID, r.AccountID}
	if _, ok := d.reactions[key]; ok {
		return ErrConflict
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	d.reactions[key] = *r
	return nil
}

func (d *memData) UpdateReactionType(_ context.Context, target models.ContentRef, accountID uuid.UUID, t models.ReactionType) error {
	key := reactionKey{target.Kind, target.ID, accountID}
	r, ok := d.reactions[key]
	if !ok {
		return ErrNotFound
	}
	r.Type = t
	r.UpdatedAt = time.Now().UTC()
	d.reactions[key] = r
	return nil
}

func (d *memData) DeleteReaction(_ context.Context, target models.ContentRef, accountID uuid.UUID) error {
	key := reactionKey{target.Kind, target.ID, accountID}
	if _, ok := d.reactions[key]; !ok {
		return ErrNotFound
	}
	delete(d.reactions, key)
	return nil
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (d *memData) ReactionCounts(_ context.Context, kind models.ContentKind, ids []int64) (map[int64]models.ReactionCounts, error) {
	want := idSet(ids)
	out := make(map[int64]models.ReactionCounts, len(ids))
	for k, r := range d.reactions {
		if k.kind != kind || !want[k.id] {
			continue
		}
		if out[k.id] == nil {
			out[k.id] = models.ReactionCounts{}
		}
		out[k.id][r.Type]++
	}
	return out, nil
}

func (d *memData) ViewerReactions(_ context.Context, kind models.ContentKind, ids []int64, accountID uuid.UUID) (map[int64]models.ReactionType, error) {
	out := make(map[int64]models.ReactionType)
	for _, id := range ids {
		if r, ok := d.reactions[reactionKey{kind, id, accountID}]; ok {
			out[id] = r.Type
		}
	}
	return out, nil
}

// ---------- reports ----------

func (d *memData) InsertReport(_ context.Context, r *models.Report) error {
	key := reportKey{r.Target.Kind, r.Target.ID, r.ReporterID}
	if _, ok := d.reports[key]; ok {
		return ErrConflict
	}
	d.nextReportID++
	r.ID = d.nextReportID
	r.CreatedAt = time.Now().UTC()
	d.reports[key] = *r
	return nil
}

func (d *memData) ViewerReported(_ context.Context, kind models.ContentKind, ids []int64, accountID uuid.UUID) (map[int64]bool, error) {
	out := make(map[int64]bool)
	for _, id := range ids {
		if _, ok := d.reports[reportKey{kind, id, accountID}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (d *memData) DeleteReports(_ context.Context, target models.ContentRef) error {
	for k := range d.reports {
		if k.kind == target.Kind && k.id == target.ID {
			delete(d.reports, k)
		}
	}
	return nil
}

// ---------- notifications ----------

func (d *memData) CreateNotification(_ context.Context, n *models.Notification) error {
	d.nextNotificationID++
	n.ID = d.nextNotificationID
	n.CreatedAt = time.Now().UTC()
	d.notifications[n.ID] = *n
	return nil
}

func (d *memData) ListNotifications(_ context.Context, accountID uuid.UUID, limit int) ([]models.Notification, error) {
	var ids []int64
	for id, n := range d.notifications {
		if n.AccountID == accountID {
			ids = append(ids, id)
		}
	}
	out := []models.Notification{}
	for _, id := range page(ids, models.Cursor{Limit: limit}) {
		out = append(out, d.notifications[id])
	}
	return out, nil
}

func (d *memData) MarkNotificationRead(_ context.Context, id int64, accountID uuid.UUID) error {
	n, ok := d.notifications[id]
	if !ok || n.AccountID != accountID {
		return ErrNotFound
	}
	n.IsRead = true
	d.notifications[id] = n
	return nil
}

func (d *memData) DeleteNotification(_ context.Context, id int64, accountID uuid.UUID) error {
	n, ok := d.notifications[id]
	if !ok || n.AccountID != accountID {
		return ErrNotFound
	}
	delete(d.notifications, id)
	return nil
}

// ---------- locked entry points ----------

func lockedGet[T any](m *Memory, fn func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}

func (m *Memory) locked(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}

func (m *Memory) CreateAccount(ctx context.Context, a *models.Account) error {
	return m.locked(func() error { return m.data.CreateAccount(ctx, a) })
}

func (m *Memory) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return lockedGet(m, func() (*models.Account, error) { return m.data.GetAccount(ctx, id) })
}

func (m *Memory) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return lockedGet(m, func() (*models.Account, error) { return m.data.GetAccountForUpdate(ctx, id) })
}

func (m *Memory) UpdateAccountModeration(ctx context.Context, a *models.Account) error {
	return m.locked(func() error { return m.data.UpdateAccountModeration(ctx, a) })
}

func (m *Memory) CreateAdminCredential(ctx context.Context, c *models.AdminCredential) error {
	return m.locked(func() error { return m.data.CreateAdminCredential(ctx, c) })
}

func (m *Memory) GetAdminCredential(ctx context.Context, username string) (*models.AdminCredential, error) {
	return lockedGet(m, func() (*models.AdminCredential, error) { return m.data.GetAdminCredential(ctx, username) })
}

func (m *Memory) CreatePost(ctx context.Context, p *models.Post) error {
	return m.locked(func() error { return m.data.CreatePost(ctx, p) })
}

func (m *Memory) CreateComment(ctx context.Context, c *models.Comment) error {
	return m.locked(func() error { return m.data.CreateComment(ctx, c) })
}

func (m *Memory) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return lockedGet(m, func() (*models.Post, error) { return m.data.GetPost(ctx, id) })
}

func (m *Memory) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	return lockedGet(m, func() (*models.Comment, error) { return m.data.GetComment(ctx, id) })
}

func (m *Memory) GetContent(ctx context.Context, ref models.ContentRef) (*models.Content, error) {
	return lockedGet(m, func() (*models.Content, error) { return m.data.GetContent(ctx, ref) })
}

func (m *Memory) LockContent(ctx context.Context, ref models.ContentRef) (*models.Content, error) {
	return lockedGet(m, func() (*models.Content, error) { return m.data.LockContent(ctx, ref) })
}

func (m *Memory) IncrementReportCount(ctx context.Context, ref models.ContentRef) (*models.Content, error) {
	return lockedGet(m, func() (*models.Content, error) { return m.data.IncrementReportCount(ctx, ref) })
}

func (m *Memory) SetVisibility(ctx context.Context, ref models.ContentRef, v models.Visibility, resetReports bool) error {
	return m.locked(func() error { return m.data.SetVisibility(ctx, ref, v, resetReports) })
}

func (m *Memory) DeleteContent(ctx context.Context, ref models.ContentRef) error {
	return m.locked(func() error { return m.data.DeleteContent(ctx, ref) })
}

func (m *Memory) ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	return lockedGet(m, func() ([]models.Post, error) { return m.data.ListPosts(ctx, f) })
}

func (m *Memory) ListComments(ctx context.Context, f models.CommentFilter) ([]models.Comment, error) {
	return lockedGet(m, func() ([]models.Comment, error) { return m.data.ListComments(ctx, f) })
}

func (m *Memory) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, c models.Cursor) ([]models.Post, error) {
	return lockedGet(m, func() ([]models.Post, error) { return m.data.ListPostsByAuthor(ctx, authorID, c) })
}

func (m *Memory) CountVisibleComments(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	return lockedGet(m, func() (map[int64]int, error) { return m.data.CountVisibleComments(ctx, postIDs) })
}

func (m *Memory) GetReaction(ctx context.Context, target models.ContentRef, accountID uuid.UUID) (*models.Reaction, error) {
	return lockedGet(m, func() (*models.Reaction, error) { return m.data.GetReaction(ctx, target, accountID) })
}

func (m *Memory) InsertReaction(ctx context.Context, r *models.Reaction) error {
	return m.locked(func() error { return m.data.InsertReaction(ctx, r) })
}

func (m *Memory) UpdateReactionType(ctx context.Context, target models.ContentRef, accountID uuid.UUID, t models.ReactionType) error {
	return m.locked(func() error { return m.data.UpdateReactionType(ctx, target, accountID, t) })
}

func (m *Memory) DeleteReaction(ctx context.Context, target models.ContentRef, accountID uuid.UUID) error {
	return m.locked(func() error { return m.data.DeleteReaction(ctx, target, accountID) })
}

func (m *Memory) ReactionCounts(ctx context.Context, kind models.ContentKind, ids []int64) (map[int64]models.ReactionCounts, error) {
	return lockedGet(m, func() (map[int64]models.ReactionCounts, error) { return m.data.ReactionCounts(ctx, kind, ids) })
}

func (m *Memory) ViewerReactions(ctx context.Context, kind models.ContentKind, ids []int64, accountID uuid.UUID) (map[int64]models.ReactionType, error) {
	return lockedGet(m, func() (map[int64]models.ReactionType, error) {
		return m.data.ViewerReactions(ctx, kind, ids, accountID)
	})
}

func (m *Memory) InsertReport(ctx context.Context, r *models.Report) error {
	return m.locked(func() error { return m.data.InsertReport(ctx, r) })
}

func (m *Memory) ViewerReported(ctx context.Context, kind models.ContentKind, ids []int64, accountID uuid.UUID) (map[int64]bool, error) {
	return lockedGet(m, func() (map[int64]bool, error) { return m.data.ViewerReported(ctx, kind, ids, accountID) })
}

func (m *Memory) DeleteReports(ctx context.Context, target models.ContentRef) error {
	return m.locked(func() error { return m.data.DeleteReports(ctx, target) })
}

func (m *Memory) CreateNotification(ctx context.Context, n *models.Notification) error {
	return m.locked(func() error { return m.data.CreateNotification(ctx, n) })
}

func (m *Memory) ListNotifications(ctx context.Context, accountID uuid.UUID, limit int) ([]models.Notification, error) {
	return lockedGet(m, func() ([]models.Notification, error) { return m.data.ListNotifications(ctx, accountID, limit) })
}

func (m *Memory) MarkNotificationRead(ctx context.Context, id int64, accountID uuid.UUID) error {
	return m.locked(func() error { return m.data.MarkNotificationRead(ctx, id, accountID) })
}

func (m *Memory) DeleteNotification(ctx context.Context, id int64, accountID uuid.UUID) error {
	return m.locked(func() error { return m.data.DeleteNotification(ctx, id, accountID) })
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Postgres)(nil)
)
