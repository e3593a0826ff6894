package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cspdemo/internal/comments"
	"cspdemo/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderScenarioPage(t *testing.T) {
	tpl, err := New(web.Files)
	require.NoError(t, err)

	page := PageData{
		Title:    "Basic CSP Demo",
		Domain:   "basic-csp.example.com",
		Scenario: "basic-csp",
		Policy:   "default-src 'self';",
		ReturnTo: "/basic-csp",
		Comments: []comments.Comment{{Author: "a", Body: "<i>raw</i>", Safe: "<i>raw</i>"}},
	}
	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/basic-csp", nil)
	require.NoError(t, tpl.Render(res, req, "basic-csp", http.StatusCreated, page))

	assert.Equal(t, http.StatusCreated, res.Code)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, "Basic CSP Demo", doc.Find("title").Text())
	assert.Contains(t, doc.Find("#csp-header").Text(), "default-src 'self';")
	assert.Equal(t, 1, doc.Find("#comments i").Length())
	val, _ := doc.Find(`input[name="return_to"]`).Attr("value")
	assert.Equal(t, "/basic-csp", val)
}

func TestRenderUnknownTemplate(t *testing.T) {
	tpl, err := New(web.Files)
	require.NoError(t, err)

	res := httptest.NewRecorder()
	err = tpl.Render(res, httptest.NewRequest(http.MethodGet, "/", nil), "missing", http.StatusOK, PageData{})
	assert.Error(t, err)
	assert.Equal(t, 0, res.Body.Len())
}
