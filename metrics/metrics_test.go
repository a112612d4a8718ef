package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommend(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		err    error
		status string
	}{
		{name: "successful user request", kind: "user", status: "ok"},
		{name: "failed similar request", kind: "similar", err: errors.New("mongo down"), status: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.kind, tt.status))
			RecordRecommend(tt.kind, 10*time.Millisecond, 3, tt.err)
			after := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.kind, tt.status))
			if after-before != 1 {
				t.Errorf("counter delta = %v, want 1", after-before)
			}
		})
	}
}

func TestRecordTrain(t *testing.T) {
	before := testutil.ToFloat64(TrainFailures.WithLabelValues("content"))
	RecordTrain("content", time.Millisecond, true)
	RecordTrain("content", time.Millisecond, false)
	after := testutil.ToFloat64(TrainFailures.WithLabelValues("content"))
	if after-before != 1 {
		t.Errorf("failures delta = %v, want 1", after-before)
	}
}

func TestMetricGathering(t *testing.T) {
	RecordDatasetLoad("static", time.Millisecond)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint problem: %s: %s", p.Metric, p.Text)
	}
}
