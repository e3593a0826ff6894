package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cspdemo/internal/csp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardedScheme(t *testing.T) {
	mw := ForwardedScheme([]string{"127.0.0.1", "10.0.0.0/8", "not-an-ip"})

	cases := []struct {
		name   string
		remote string
		proto  string
		want   string
	}{
		{"trusted ip", "127.0.0.1:5000", "https", "https"},
		{"trusted cidr", "10.1.2.3:5000", "HTTPS", "https"},
		{"untrusted", "203.0.113.9:5000", "https", "http"},
		{"trusted plain", "127.0.0.1:5000", "http", "http"},
		{"no header", "10.1.2.3:5000", "", "http"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got string
			h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Scheme
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = c.remote
			if c.proto != "" {
				req.Header.Set("X-Forwarded-Proto", c.proto)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestNonceStoredPerRequest(t *testing.T) {
	var nonces []string
	h := Nonce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonces = append(nonces, NonceFrom(r.Context()))
	}))
	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	require.Len(t, nonces, 2)
	assert.Len(t, nonces[0], 24)
	assert.NotEqual(t, nonces[0], nonces[1])
	assert.Empty(t, NonceFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestHelmetNonceSetsHeader(t *testing.T) {
	var fromCtx string
	h := HelmetNonce(csp.Basic())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = HelmetNonceFrom(r.Context())
	}))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	nonce, ok := csp.ExtractNonce(res.Header().Get(csp.HeaderName))
	require.True(t, ok)
	assert.Equal(t, fromCtx, nonce)
}

func TestBaselineHeaders(t *testing.T) {
	h := BaselineHeaders(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
	assert.Empty(t, res.Header().Get(csp.HeaderName))
	assert.Empty(t, res.Header().Get("Strict-Transport-Security"))
}

func TestNonceGeneratorFailureIs500(t *testing.T) {
	called := false
	h := NonceWith(func() (string, error) {
		return "", errors.New("entropy unavailable")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	res := httptest.NewRecorder()
	res.Header().Set(csp.HeaderName, "default-src *;")
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/nonce-nginx", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Empty(t, res.Header().Get(csp.HeaderName))
	assert.False(t, called)
}
