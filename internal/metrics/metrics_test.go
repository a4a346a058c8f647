package metrics

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/schedule"
)

var _ schedule.Observer = (*Recorder)(nil)

func TestRecorderCounts(t *testing.T) {
	r := New()

	r.Applied("move")
	r.Applied("move")
	r.Reconciled("move", 20*time.Millisecond)
	r.RolledBack("move", fmt.Errorf("wrap: %w", booking.ErrNetworkFailure))
	r.RolledBack("swap", booking.ErrMutationRejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.applied.WithLabelValues("move")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reconciled.WithLabelValues("move")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rolledBack.WithLabelValues("move", "network")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rolledBack.WithLabelValues("swap", "rejected")))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "none", Reason(nil))
	assert.Equal(t, "network", Reason(booking.ErrNetworkFailure))
	assert.Equal(t, "rejected", Reason(fmt.Errorf("x: %w", booking.ErrMutationRejected)))
	assert.Equal(t, "other", Reason(booking.ErrSwapBlocked))
}

func TestHandlerExposesCounters(t *testing.T) {
	r := New()
	r.Applied("resize")
	r.LayoutStats(3, 1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `venuegrid_mutation_applied_total{kind="resize"} 1`), body)
	assert.True(t, strings.Contains(body, `venuegrid_layout_total{result="hit"} 3`), body)
}
