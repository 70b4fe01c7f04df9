package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSwipe(t *testing.T) {
	before := testutil.ToFloat64(SwipesTotal.WithLabelValues("like", "true"))
	RecordSwipe("like", true)
	if got := testutil.ToFloat64(SwipesTotal.WithLabelValues("like", "true")); got != before+1 {
		t.Errorf("like/true = %v, want %v", got, before+1)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))
	RecordHTTPRequest("GET", "/health", 200, 3*time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}
