package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

type memViolations struct {
	mu   sync.Mutex
	list []models.Violation
}

func (m *memViolations) Record(_ context.Context, v models.Violation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, v)
	return nil
}

func (m *memViolations) Recent(_ context.Context, limit int) ([]models.Violation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Violation{}
	for i := len(m.list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.list[i])
	}
	return out, nil
}

func (m *memViolations) byType(t models.ViolationType) []models.Violation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Violation
	for _, v := range m.list {
		if v.Type == t {
			out = append(out, v)
		}
	}
	return out
}

type fixture struct {
	store         *store.Memory
	hub           *NotificationHub
	violations    *memViolations
	tokens        *TokenIssuer
	gate          *IdentityGate
	guard         *ContentGuard
	notifications *NotificationService
	escalator     *ModerationEscalator
	reports       *ReportLedger
	reactions     *ReactionLedger
	feed          *FeedAssembler
	posts         *PostService
	comments      *CommentService
	admin         *AdminService
	accounts      *AccountService
}

const (
	testHideThreshold = 5
	testStrikeLimit   = 3
	testBanDuration   = 7 * 24 * time.Hour
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:      store.NewMemory(),
		hub:        NewNotificationHub(),
		violations: &memViolations{},
		tokens:     NewTokenIssuer("test-secret", time.Hour),
		guard:      NewContentGuard(DefaultDenyList, DefaultCrisisPhrases),
	}
	f.gate = NewIdentityGate(f.tokens, f.store)
	f.notifications = NewNotificationService(f.store, f.hub)
	f.escalator = NewModerationEscalator(f.store, f.notifications, f.violations, testStrikeLimit, testBanDuration)
	f.reports = NewReportLedger(f.store, f.escalator, testHideThreshold)
	f.reactions = NewReactionLedger(f.store)
	f.feed = NewFeedAssembler(f.store, 20, 50)
	f.posts = NewPostService(f.store, f.guard, f.violations)
	f.comments = NewCommentService(f.store, f.guard, f.violations)
	f.admin = NewAdminService(f.store, f.violations)
	f.accounts = NewAccountService(f.store, f.tokens)
	return f
}

func (f *fixture) account(t *testing.T) *models.Account {
	t.Helper()
	a := &models.Account{AnonID: uuid.NewString(), Username: "SoftLeaf3", Role: models.RoleUser}
	require.NoError(t, f.store.CreateAccount(context.Background(), a))
	return a
}

func (f *fixture) reload(t *testing.T, a *models.Account) *models.Account {
	t.Helper()
	got, err := f.store.GetAccount(context.Background(), a.ID)
	require.NoError(t, err)
	return got
}

func (f *fixture) post(t *testing.T, author *models.Account) *models.Post {
	t.Helper()
	p := &models.Post{Content: models.Content{AuthorID: author.ID, Body: "today was heavy"}, MoodTag: "tired", Mode: models.ModeVent}
	require.NoError(t, f.store.CreatePost(context.Background(), p))
	return p
}

func (f *fixture) comment(t *testing.T, author *models.Account, post *models.Post) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: models.Content{AuthorID: author.ID, Body: "you are not alone"}, PostID: post.Ref.ID}
	require.NoError(t, f.store.CreateComment(context.Background(), c))
	return c
}

// hide files threshold reports from fresh accounts against ref.
func (f *fixture) hide(t *testing.T, ref models.ContentRef) {
	t.Helper()
	for i := 0; i < testHideThreshold; i++ {
		_, err := f.reports.FileReport(context.Background(), f.account(t).ID, ref.Kind, ref.ID, "Spam")
		require.NoError(t, err)
	}
}

func (f *fixture) content(t *testing.T, ref models.ContentRef) *models.Content {
	t.Helper()
	c, err := f.store.GetContent(context.Background(), ref)
	require.NoError(t, err)
	return c
}

func (f *fixture) notificationsFor(t *testing.T, a *models.Account) []models.Notification {
	t.Helper()
	list, err := f.notifications.List(context.Background(), a.ID)
	require.NoError(t, err)
	return list
}
