package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/config"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/storage"
)

// ErrBadCredentials is returned by Login for unknown users and wrong
// passwords alike.
var ErrBadCredentials = &apperr.Error{Kind: apperr.KindUnauthorized, Message: "Incorrect username or password"}

type UserStore interface {
	GetUserByUserName(ctx context.Context, userName string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	users    UserStore
	tokens   *TokenIssuer
	log      logrus.FieldLogger
	failures *prometheus.CounterVec

	dummyOnce sync.Once
	dummyHash string
}

func NewService(users UserStore, tokens *TokenIssuer, log logrus.FieldLogger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		log:    log,
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Rejected authentication attempts by operation.",
		}, []string{"op"}),
	}
}

// Collectors exposes the service metrics for registration.
func (s *Service) Collectors() []prometheus.Collector {
	return []prometheus.Collector{s.failures}
}

func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

func (s *Service) reject(op string) {
	s.failures.WithLabelValues(op).Inc()
}

// burnComparison spends one bcrypt comparison so an unknown user name takes
// as long as a wrong password.
func (s *Service) burnComparison(plain string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = HashPassword("not-a-real-password")
	})
	CheckPassword(s.dummyHash, plain)
}

func (s *Service) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByUserName(ctx, userName)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.burnComparison(password)
		s.reject("login")
		return nil, ErrBadCredentials
	case err != nil:
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.reject("login")
		return nil, ErrBadCredentials
	}

	access, err := s.tokens.Issue(user.UserName, KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(user.UserName, KindRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccessToken trades a refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		s.reject("refresh")
		return "", apperr.ErrUnauthorized
	}
	claims, err := s.tokens.Parse(refreshToken, KindRefresh)
	if err != nil {
		s.log.WithError(err).Debug("refresh token rejected")
		s.reject("refresh")
		return "", apperr.ErrUnauthorized
	}
	return s.tokens.Issue(claims.Subject, KindAccess)
}

func (s *Service) AuthenticateRequest(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		s.reject("authenticate")
		return nil, apperr.ErrUnauthorized
	}
	claims, err := s.tokens.Parse(accessToken, KindAccess)
	if err != nil {
		s.log.WithError(err).Debug("access token rejected")
		s.reject("authenticate")
		return nil, apperr.ErrUnauthorized
	}

	user, err := s.users.GetUserByUserName(ctx, claims.Subject)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.reject("authenticate")
		return nil, apperr.ErrUnauthorized
	case err != nil:
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the stored hash. Tokens issued before the change
// stay valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	if !CheckPassword(user.PasswordHash, current) {
		s.reject("change_password")
		return apperr.BadRequest("Incorrect current password")
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}

	updated := *user
	updated.PasswordHash = hash
	if err := s.saveUser(ctx, &updated); err != nil {
		return err
	}
	*user = updated
	return nil
}

// UpdateProfile applies the fields present in in and persists the result.
func (s *Service) UpdateProfile(ctx context.Context, user *models.User, in models.UpdateUserInput) (*models.User, error) {
	updated := *user
	updated.Apply(in)
	if err := s.saveUser(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) saveUser(ctx context.Context, u *models.User) error {
	err := s.users.UpdateUser(ctx, u)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound("User not found")
	case errors.Is(err, storage.ErrConflict):
		return apperr.Conflict("User name or email already registered")
	default:
		return fmt.Errorf("save user: %w", err)
	}
}

// EnsureDefaultUser creates the bootstrap identity when no user exists yet.
func (s *Service) EnsureDefaultUser(ctx context.Context, opts config.DefaultUserOptions) (bool, error) {
	n, err := s.users.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := HashPassword(opts.Password)
	if err != nil {
		return false, err
	}
	user := &models.User{
		UserName:     opts.UserName,
		FirstName:    opts.FirstName,
		LastName:     opts.LastName,
		Email:        opts.Email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return false, fmt.Errorf("create default user: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"user_name": user.UserName,
		"email":     user.Email,
	}).Warn("created default user, change its password")
	return true, nil
}
