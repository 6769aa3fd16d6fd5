// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session value keys.
const (
	isAuthKey  = "is_authenticated"
	userIDKey  = "user_id"
	userName   = "user_name"
	userEmail  = "user_email"
	userRole   = "user_role"
	userOrgKey = "user_org_id"
)

// SessionUser is what we cache in the session & inject into r.Context().
//
// Identity issuance (login, OAuth, whatever) is an external collaborator
// that shares the session signing key; this package only reads the cookie.
type SessionUser struct {
	ID             string
	Name           string
	Email          string
	Role           string
	OrganizationID string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user into the request context, bypassing the session
// middleware. For tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// SessionManager wraps the cookie store and exposes the auth middleware.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a SessionManager from the configured signing key.
// An empty key generates a random one (sessions then die with the process,
// which is only acceptable in dev and tests).
func NewSessionManager(key, name, domain string, secure bool, log *zap.Logger) (*SessionManager, error) {
	if name == "" {
		return nil, errors.New("auth: session name must not be empty")
	}

	keyBytes := []byte(key)
	if key == "" {
		keyBytes = securecookie.GenerateRandomKey(64)
		if keyBytes == nil {
			return nil, errors.New("auth: could not generate a session key")
		}
		log.Warn("no session key configured; generated an ephemeral one")
	} else if len(keyBytes) < 32 {
		return nil, errors.New("auth: session key must be at least 32 bytes")
	}

	store := sessions.NewCookieStore(keyBytes)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store, name: name, log: log}, nil
}

// LoadSessionUser injects the user into context if they are logged in.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, m.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:             getString(sess, userIDKey),
				Name:           getString(sess, userName),
				Email:          getString(sess, userEmail),
				Role:           strings.ToLower(getString(sess, userRole)),
				OrganizationID: getString(sess, userOrgKey),
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// This service is API-only, so the unauthenticated answer is always a JSON 401.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	})
}

func getString(sess *sessions.Session, key string) string {
	if v, ok := sess.Values[key].(string); ok {
		return v
	}
	return ""
}
