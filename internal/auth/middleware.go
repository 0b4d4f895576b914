package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/respond"
)

type contextKey string

const userKey contextKey = "lambda_user"

type Authenticator interface {
	AuthenticateRequest(ctx context.Context, accessToken string) (*models.User, error)
}

// Middleware resolves the bearer token to a user and stores it in the request
// context. Requests without a valid token stop here with 401.
func Middleware(authn Authenticator, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authn.AuthenticateRequest(r.Context(), bearerToken(r))
			if err != nil {
				if apperr.KindOf(err) == apperr.KindInternal {
					log.WithError(err).Error("authenticate request")
				}
				respond.AppError(w, err)
				return
			}

			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// currentUser is used by handlers mounted behind Middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respond.AppError(w, apperr.ErrUnauthorized)
	}
	return user, ok
}
