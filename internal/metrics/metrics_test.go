package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.PolicyServed("basic")
	m.PolicyServed("basic")
	m.ExfilReceived("json")
	m.CommentAdded()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.policies.WithLabelValues("basic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exfil.WithLabelValues("json")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.comments))
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := New()
	m.PolicyServed("hash")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cspdemo_policy_headers_total{scenario="hash"} 1`)
}

func TestGathererSeesOnlyDemoSeries(t *testing.T) {
	m := New()
	m.PolicyServed("basic")
	m.PolicyServed("nonce")
	m.ExfilReceived("form")

	n, err := testutil.GatherAndCount(m.Gatherer(), "cspdemo_policy_headers_total", "cspdemo_exfil_entries_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// второй экземпляр не делит реестр с первым
	other, err := testutil.GatherAndCount(New().Gatherer(), "cspdemo_policy_headers_total")
	require.NoError(t, err)
	assert.Equal(t, 0, other)
}
