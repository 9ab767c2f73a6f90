package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookswap/bookswap-backend/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loginCookies runs a login through the manager and returns the cookies
// a browser would send back
func loginCookies(t *testing.T, m *session.Manager, accountID uint) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, m.Login(rec, req, accountID))
	return rec.Result().Cookies()
}

func authTestServer(m *session.Manager) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		id, ok := AccountID(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]uint{"account_id": id})
	}, RequireSession(m))
	return e
}

func TestRequireSession_ValidSession(t *testing.T) {
	manager := session.NewManager("test-secret-key-for-auth-tests-1234", false)
	e := authTestServer(manager)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, cookie := range loginCookies(t, manager, 42) {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"account_id":42`)
}

func TestRequireSession_NoCookie(t *testing.T) {
	manager := session.NewManager("test-secret-key-for-auth-tests-1234", false)
	e := authTestServer(manager)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSession_TamperedCookie(t *testing.T) {
	manager := session.NewManager("test-secret-key-for-auth-tests-1234", false)
	e := authTestServer(manager)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "bookswap_session", Value: "forged-value"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSession_DifferentSecretRejected(t *testing.T) {
	issuer := session.NewManager("secret-one-that-signed-the-cookie-x", false)
	verifier := session.NewManager("secret-two-that-never-signed-it-yy", false)
	e := authTestServer(verifier)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, cookie := range loginCookies(t, issuer, 42) {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSession_LoggedOutSession(t *testing.T) {
	manager := session.NewManager("test-secret-key-for-auth-tests-1234", false)
	e := authTestServer(manager)

	// Log in, then log out carrying the same cookie jar
	loginResp := loginCookies(t, manager, 42)

	logoutReq := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, cookie := range loginResp {
		logoutReq.AddCookie(cookie)
	}
	logoutRec := httptest.NewRecorder()
	require.NoError(t, manager.Logout(logoutRec, logoutReq))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, cookie := range logoutRec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
