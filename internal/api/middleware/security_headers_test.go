package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func secureHeadersResponse(t *testing.T, tls bool) http.Header {
	t.Helper()

	e := echo.New()
	e.Use(SecureHeaders())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if tls {
		req.Header.Set("X-Forwarded-Proto", "https")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Header()
}

func TestSecureHeaders_SetsBaselineHeaders(t *testing.T) {
	h := secureHeadersResponse(t, false)

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Contains(t, h.Get("Permissions-Policy"), "geolocation=()")
}

func TestSecureHeaders_CSPAllowsImagesOnly(t *testing.T) {
	h := secureHeadersResponse(t, false)

	csp := h.Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'none'")
	assert.Contains(t, csp, "img-src 'self' data:")
	assert.Contains(t, csp, "frame-ancestors 'none'")
}

func TestSecureHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	plain := secureHeadersResponse(t, false)
	assert.Empty(t, plain.Get("Strict-Transport-Security"))

	tls := secureHeadersResponse(t, true)
	assert.Contains(t, tls.Get("Strict-Transport-Security"), "max-age=31536000")
}
