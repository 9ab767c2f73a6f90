// Package session manages login state through signed session cookies.
// The manager is constructed once at startup and passed explicitly into
// the handlers and middleware that need it; nothing reads ambient state.
package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName   = "bookswap_session"
	accountIDKey = "account_id"

	// Session lifetime in seconds (7 days)
	maxAge = 7 * 24 * 60 * 60
)

// Manager wraps a cookie store and exposes the login-state operations
// the API layer needs.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a session manager. The secret signs session cookies;
// secure controls the cookie Secure flag and should be true outside
// development.
func NewManager(secret string, secure bool) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// AccountID returns the authenticated account id bound to the request's
// session, or false when no valid session exists.
func (m *Manager) AccountID(r *http.Request) (uint, bool) {
	sess, err := m.store.Get(r, cookieName)
	if err != nil {
		return 0, false
	}

	raw, ok := sess.Values[accountIDKey]
	if !ok {
		return 0, false
	}

	id, ok := raw.(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Login binds the account id to a fresh session cookie.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, accountID uint) error {
	sess, err := m.store.New(r, cookieName)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	sess.Values[accountIDKey] = accountID
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Logout expires the request's session cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.Get(r, cookieName)
	if err != nil {
		// An undecodable cookie still gets expired below
		sess, _ = m.store.New(r, cookieName)
	}

	sess.Options.MaxAge = -1
	delete(sess.Values, accountIDKey)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to expire session: %w", err)
	}
	return nil
}
