package auth

import (
	"encoding/json"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/respond"
)

const (
	RefreshCookieName = "refresh_token"
	maxBodyBytes      = 1 << 20
)

type Handler struct {
	svc          *Service
	validate     *validator.Validate
	log          logrus.FieldLogger
	cookiePath   string
	cookieSecure bool
}

// NewHandler builds the OAuth handlers. apiPrefix scopes the refresh cookie
// to the oauth routes.
func NewHandler(svc *Service, log logrus.FieldLogger, apiPrefix string, cookieSecure bool) *Handler {
	return &Handler{
		svc:          svc,
		validate:     apperr.NewValidator(),
		log:          log,
		cookiePath:   apiPrefix + "/oauth",
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes mounts the oauth routes. loginLimit may be nil.
func (h *Handler) RegisterRoutes(r chi.Router, loginLimit func(http.Handler) http.Handler) {
	r.Route("/oauth", func(r chi.Router) {
		if loginLimit != nil {
			r.With(loginLimit).Post("/token", h.Login)
		} else {
			r.Post("/token", h.Login)
		}
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(Middleware(h.svc, h.log))
			r.Get("/me", h.Me)
			r.Patch("/me", h.UpdateMe)
			r.Post("/me/change-password", h.ChangePassword)
		})
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token
// @Summary Obtain access token
// @Description Accepts the OAuth2 password form or JSON; the refresh token is set as an http-only cookie
// @Tags OAuth2
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Success 200 {object} tokenResponse
// @Failure 400 {object} map[string]string "Missing credentials"
// @Failure 401 {object} map[string]string "Incorrect username or password"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /oauth/token [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	pair, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken, h.svc.Tokens().RefreshTTL())
	respond.JSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, TokenType: "bearer"})
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (loginRequest, error) {
	var req loginRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	return req, nil
}

// Refresh issues a new access token from the refresh cookie
// @Summary Refresh access token
// @Tags OAuth2
// @Produce json
// @Success 200 {object} tokenResponse
// @Failure 401 {object} map[string]string "Could not validate credentials"
// @Router /oauth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		token = c.Value
	}

	access, err := h.svc.RefreshAccessToken(r.Context(), token)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, tokenResponse{AccessToken: access, TokenType: "bearer"})
}

// Logout clears the refresh cookie
// @Summary Log out
// @Tags OAuth2
// @Produce json
// @Success 200 {object} map[string]string
// @Router /oauth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.setRefreshCookie(w, "", -1)
	respond.JSON(w, http.StatusOK, map[string]string{"detail": "Logged out"})
}

// Me returns the authenticated user
// @Summary Get current user info
// @Tags OAuth2
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /oauth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// UpdateMe applies a partial profile update
// @Summary Update current user profile
// @Tags OAuth2
// @Accept json
// @Produce json
// @Param profile body models.UpdateUserInput true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "User name or email already registered"
// @Security BearerAuth
// @Router /oauth/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in models.UpdateUserInput
	if !h.decode(w, r, &in) {
		return
	}
	if in.Password != nil {
		respond.Error(w, http.StatusBadRequest, "Use the change-password endpoint to update the password")
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), user, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// ChangePassword replaces the current user's password
// @Summary Change password
// @Tags OAuth2
// @Accept json
// @Produce json
// @Param body body models.ChangePasswordInput true "Current and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Incorrect current password"
// @Security BearerAuth
// @Router /oauth/me/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in models.ChangePasswordInput
	if !h.decode(w, r, &in) {
		return
	}

	if err := h.svc.ChangePassword(r.Context(), user, in.CurrentPassword, in.NewPassword); err != nil {
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"detail": "Password updated successfully"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respond.AppError(w, apperr.Invalid(err))
		return false
	}
	return true
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     h.cookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.log.WithError(err).Error("oauth request failed")
	}
	respond.AppError(w, err)
}
