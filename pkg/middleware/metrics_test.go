package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/store"
)

func newTestMetrics() *Metrics {
	return NewMetrics(WithRegistry(prometheus.NewRegistry()))
}

func TestMetricsMiddleware(t *testing.T) {
	m := newTestMetrics()
	mw := m.Middleware()

	ok := NewEvent(nil, "s", "h1", "input")
	_ = mw.Handle(ok, func() error {
		ok.AddPatches(2)
		return nil
	})

	failed := NewEvent(nil, "s", "h9", "input")
	_ = mw.Handle(failed, func() error { return lerrors.New("L022") })

	plain := NewEvent(nil, "s", "h1", "")
	_ = mw.Handle(plain, func() error { return errors.New("boom") })

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"input success", m.eventsTotal.WithLabelValues("input", "success"), 1},
		{"input error", m.eventsTotal.WithLabelValues("input", "error"), 1},
		{"unknown type", m.eventsTotal.WithLabelValues("unknown", "error"), 1},
		{"coded error", m.eventErrors.WithLabelValues("input", "L022"), 1},
		{"uncoded error", m.eventErrors.WithLabelValues("unknown", "internal"), 1},
		{"patches", m.patchesSent, 2},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(m.eventDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestMetricsSessions(t *testing.T) {
	m := newTestMetrics()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.RecordPatches(5)
	m.RecordWebSocketError("read")

	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v", got)
	}
	if got := testutil.ToFloat64(m.sessionsTotal); got != 2 {
		t.Errorf("sessions_total = %v", got)
	}
	if got := testutil.ToFloat64(m.patchesSent); got != 5 {
		t.Errorf("patches_sent_total = %v", got)
	}
	if got := testutil.ToFloat64(m.wsErrors.WithLabelValues("read")); got != 1 {
		t.Errorf("websocket_errors_total = %v", got)
	}
}

func TestMetricsObserveStore(t *testing.T) {
	m := newTestMetrics()
	st := store.New(store.LessonSchema())
	m.ObserveStore(st)

	_ = st.Set(store.SineValue, 0.1)
	_ = st.Set(store.SineValue, 0.1)
	_ = st.Set(store.SineValue, 0.2)
	_ = st.Set(store.AngleValue, 1)

	if got := testutil.ToFloat64(m.variableWrites.WithLabelValues(store.SineValue)); got != 2 {
		t.Errorf("sineValue writes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.variableWrites.WithLabelValues(store.AngleValue)); got != 1 {
		t.Errorf("angleValue writes = %v, want 1", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(WithNamespace("demo"))
	m.SessionOpened()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{"demo_active_sessions 1", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsAreIndependent(t *testing.T) {
	a, b := newTestMetrics(), newTestMetrics()
	a.SessionOpened()
	if got := testutil.ToFloat64(b.activeSessions); got != 0 {
		t.Errorf("metrics leaked between instances: %v", got)
	}
}

func TestMetricsOptions(t *testing.T) {
	m := NewMetrics(
		WithRegistry(prometheus.NewRegistry()),
		WithConstLabels(prometheus.Labels{"lesson": "inverse-trig"}),
		WithBuckets([]float64{0.25, 1}),
	)
	ev := NewEvent(nil, "s", "h1", "input")
	_ = m.Middleware().Handle(ev, func() error { return nil })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`lesson_event_duration_seconds_bucket{lesson="inverse-trig",type="input",le="0.25"} 1`,
		`lesson_events_total{lesson="inverse-trig",status="success",type="input"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
