package observability

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.RecordRequest("/queries", "POST", 201, 5*time.Millisecond)
	m.RecordRequest("/queries", "POST", 201, 7*time.Millisecond)
	m.RecordRequest("/queries/abc", "GET", 404, time.Millisecond)
	m.RecordError("/queries/abc", "GET", "NOT_FOUND")

	requests := m.RequestCounts()
	if got := requests["/queries|POST|201"]; got != 2 {
		t.Errorf("request count = %d, want 2", got)
	}
	if got := requests["/queries/abc|GET|404"]; got != 1 {
		t.Errorf("request count = %d, want 1", got)
	}

	errors := m.ErrorCounts()
	if got := errors["/queries/abc|GET|NOT_FOUND"]; got != 1 {
		t.Errorf("error count = %d, want 1", got)
	}

	// Accessors return copies; mutating them must not affect the counters.
	requests["/queries|POST|201"] = 99
	if got := m.RequestCounts()["/queries|POST|201"]; got != 2 {
		t.Errorf("request count after external mutation = %d, want 2", got)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.RecordRequest("/queries", "GET", 200, time.Millisecond)
	m.RecordError("/queries", "GET", "INTERNAL_ERROR")
	if m.RequestCounts() != nil || m.ErrorCounts() != nil {
		t.Error("nil metrics should report nil counters")
	}
}
