package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cspdemo/internal/core"
	"cspdemo/internal/csp"
	"cspdemo/internal/http/middleware"

	"github.com/stretchr/testify/assert"
)

func TestNonceNginxWithoutNonceFails(t *testing.T) {
	d := Deps{NginxMode: core.NginxModeStandalone, BaseDomain: "example.com"}

	res := httptest.NewRecorder()
	NonceNginx(d).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/nonce-nginx", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Empty(t, res.Header().Get(csp.HeaderName))
}

func TestNonceNginxGeneratorFailure(t *testing.T) {
	d := Deps{NginxMode: core.NginxModeStandalone, BaseDomain: "example.com"}
	h := middleware.NonceWith(func() (string, error) {
		return "", errors.New("rand: read failed")
	})(NonceNginx(d))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/nonce-nginx", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Empty(t, res.Header().Get(csp.HeaderName))
	assert.Contains(t, res.Header().Get("Content-Type"), "application/problem+json")
}

func TestNonceHelmetWithoutMiddlewareFails(t *testing.T) {
	res := httptest.NewRecorder()
	NonceHelmet(Deps{}).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/nonce-helmet", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Empty(t, res.Header().Get(csp.HeaderName))
}
