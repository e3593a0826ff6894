package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailWritesProblem(t *testing.T) {
	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/comments", nil)
	Fail(res, req, Validation(map[string]string{"author": "Укажите имя"}))

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "application/problem+json; charset=utf-8", res.Header().Get("Content-Type"))

	var p ProblemDetail
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &p))
	assert.Equal(t, "validation", p.Code)
	assert.Equal(t, "Укажите имя", p.Fields["author"])
}

func TestFailUnknownErrorIsInternal(t *testing.T) {
	res := httptest.NewRecorder()
	Fail(res, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.NotContains(t, res.Body.String(), "boom")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("rand")
	err := error(Internal("nonce", cause))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusForbidden, From(Forbidden("csrf")).Status)
}

func TestLoggerWritesDailyFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitLogger(Config{Env: "prod", LogDir: dir}))
	t.Cleanup(Close)

	LogInfo("hello", map[string]interface{}{"k": "v"})
	LogError("bad", map[string]interface{}{"error": errors.New("x")})

	mains, err := filepath.Glob(filepath.Join(dir, "[0-9]*.log"))
	require.NoError(t, err)
	require.Len(t, mains, 1)
	data, err := os.ReadFile(mains[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"message":"bad"`)

	errs, err := filepath.Glob(filepath.Join(dir, "errors-*.log"))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	data, err = os.ReadFile(errs[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hello")
	assert.Contains(t, string(data), `"error":"x"`)
}
