package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/config"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/storage"
)

type memUsers struct {
	mu     sync.Mutex
	byName map[string]*models.User
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{byName: make(map[string]*models.User)}
}

func (m *memUsers) add(t *testing.T, name, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u := &models.User{UserName: name, Email: name + "@example.com", FirstName: "F", LastName: "L", PasswordHash: hash}
	require.NoError(t, m.CreateUser(context.Background(), u))
	return u
}

func (m *memUsers) GetUserByUserName(_ context.Context, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) CountUsers(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byName), nil
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.byName {
		if other.UserName == u.UserName || other.Email == u.Email {
			return storage.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.byName[u.UserName] = &cp
	return nil
}

func (m *memUsers) UpdateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldName string
	for name, other := range m.byName {
		if other.ID == u.ID {
			oldName = name
			continue
		}
		if other.UserName == u.UserName || other.Email == u.Email {
			return storage.ErrConflict
		}
	}
	if oldName == "" {
		return storage.ErrNotFound
	}
	delete(m.byName, oldName)
	cp := *u
	m.byName[u.UserName] = &cp
	return nil
}

func (m *memUsers) remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byName, name)
}

func newTestService(t *testing.T) (*Service, *memUsers) {
	t.Helper()
	tokens, err := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	log, _ := test.NewNullLogger()
	users := newMemUsers()
	return NewService(users, tokens, log), users
}

func TestLoginThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	alice := users.add(t, "alice", "s3cret-pass")

	pair, err := svc.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	got, err := svc.AuthenticateRequest(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "alice", got.UserName)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	users.add(t, "alice", "s3cret-pass")

	_, unknownErr := svc.Login(ctx, "nobody", "s3cret-pass")
	_, wrongErr := svc.Login(ctx, "alice", "wrong-pass")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Same(t, unknownErr, wrongErr)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(unknownErr))
	var m dto.Metric
	require.NoError(t, svc.failures.WithLabelValues("login").Write(&m))
	assert.Equal(t, 2.0, m.GetCounter().GetValue())
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	users.add(t, "alice", "s3cret-pass")

	svc.tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := svc.tokens.Issue("alice", KindAccess)
	require.NoError(t, err)
	svc.tokens.now = time.Now

	_, err = svc.AuthenticateRequest(ctx, stale)
	assert.Same(t, apperr.ErrUnauthorized, err)
}

func TestTokenKindIsolation(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	users.add(t, "alice", "s3cret-pass")

	pair, err := svc.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.AuthenticateRequest(ctx, pair.RefreshToken)
	assert.Same(t, apperr.ErrUnauthorized, err)

	_, err = svc.RefreshAccessToken(ctx, pair.AccessToken)
	assert.Same(t, apperr.ErrUnauthorized, err)
}

func TestRefreshIssuesUsableAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	users.add(t, "alice", "s3cret-pass")

	pair, err := svc.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)

	access, err := svc.RefreshAccessToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, access)

	got, err := svc.AuthenticateRequest(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)
}

func TestRefreshRejectsMissingAndGarbage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.RefreshAccessToken(ctx, "")
	assert.Same(t, apperr.ErrUnauthorized, err)
	_, err = svc.RefreshAccessToken(ctx, "not.a.jwt")
	assert.Same(t, apperr.ErrUnauthorized, err)
}

func TestAuthenticateDeletedSubject(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	users.add(t, "alice", "s3cret-pass")

	pair, err := svc.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	users.remove("alice")

	_, err = svc.AuthenticateRequest(ctx, pair.AccessToken)
	assert.Same(t, apperr.ErrUnauthorized, err)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	alice := users.add(t, "alice", "old-password")

	err := svc.ChangePassword(ctx, alice, "not-it", "new-password")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, alice, "old-password", "new-password"))

	_, err = svc.Login(ctx, "alice", "old-password")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = svc.Login(ctx, "alice", "new-password")
	assert.NoError(t, err)
}

func TestChangePasswordOverBcryptByteLimit(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	alice := users.add(t, "alice", "old-password")

	// 40 characters, 80 bytes
	err := svc.ChangePassword(ctx, alice, "old-password", strings.Repeat("é", 40))
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Equal(t, "password must be at most 72 bytes", apperr.PublicMessage(err))

	_, err = svc.Login(ctx, "alice", "old-password")
	assert.NoError(t, err)
}

func TestUpdateProfilePartial(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	alice := users.add(t, "alice", "s3cret-pass")
	users.add(t, "bob", "s3cret-pass")

	first := "Alicia"
	updated, err := svc.UpdateProfile(ctx, alice, models.UpdateUserInput{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, alice.LastName, updated.LastName)
	assert.Equal(t, alice.Email, updated.Email)

	taken := "bob@example.com"
	_, err = svc.UpdateProfile(ctx, updated, models.UpdateUserInput{Email: &taken})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestEnsureDefaultUser(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)
	opts := config.DefaultUserOptions{
		UserName: "admin", Email: "admin@example.com", Password: "changeme",
		FirstName: "Default", LastName: "Admin",
	}

	created, err := svc.EnsureDefaultUser(ctx, opts)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureDefaultUser(ctx, opts)
	require.NoError(t, err)
	assert.False(t, created)

	n, _ := users.CountUsers(ctx)
	assert.Equal(t, 1, n)
	_, err = svc.Login(ctx, "admin", "changeme")
	assert.NoError(t, err)
}

func TestEnsureDefaultUserWarnsOnce(t *testing.T) {
	ctx := context.Background()
	tokens, err := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	log, hook := test.NewNullLogger()
	svc := NewService(newMemUsers(), tokens, log)
	opts := config.DefaultUserOptions{
		UserName: "admin", Email: "admin@example.com", Password: "changeme",
		FirstName: "Default", LastName: "Admin",
	}

	for i := 0; i < 2; i++ {
		_, err := svc.EnsureDefaultUser(ctx, opts)
		require.NoError(t, err)
	}

	var warnings []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings = append(warnings, e)
		}
	}
	require.Len(t, warnings, 1)
	assert.Equal(t, "admin", warnings[0].Data["user_name"])
	assert.Equal(t, "admin@example.com", warnings[0].Data["email"])
}

type failingUsers struct{ *memUsers }

func (failingUsers) GetUserByUserName(context.Context, string) (*models.User, error) {
	return nil, errors.New("db down")
}

func TestLoginStoreFailureIsInternal(t *testing.T) {
	tokens, err := NewTokenIssuer("s", time.Hour, time.Hour)
	require.NoError(t, err)
	svc := NewService(failingUsers{newMemUsers()}, tokens, logrus.New())

	_, err = svc.Login(context.Background(), "alice", "pw")
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
