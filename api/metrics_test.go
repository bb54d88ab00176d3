package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versalles/versalles/session"
	"github.com/versalles/versalles/store/memory"
)

func newMetricsAPI(t *testing.T) (*API, *metricsCollector, *session.Codec) {
	t.Helper()
	codec, err := session.NewCodec([]byte(strings.Repeat("k", 32)), false)
	require.NoError(t, err)
	m := NewMetrics(prometheus.NewRegistry())
	return New(memory.New(), codec, nil, nil, WithMetrics(m)), m, codec
}

func TestAuditEventsIncrementCounters(t *testing.T) {
	a, m, _ := newMetricsAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	a.audit.logEvent(AuditLoginSuccess, req, "u1")
	a.audit.logFailure(AuditLoginFailure, req, "bad password")
	a.audit.logFailure(AuditLoginFailure, req, "bad password")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authEvents.WithLabelValues(string(AuditLoginSuccess))))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authEvents.WithLabelValues(string(AuditLoginFailure))))
}

func TestGuardDenialsIncrementCounter(t *testing.T) {
	a, m, _ := newMetricsAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	rec := httptest.NewRecorder()
	guardedHandler(a).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guardDenied.WithLabelValues("login_required")))
}
