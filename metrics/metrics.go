// Package metrics 定义推荐链路的 Prometheus 指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmsrec_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"kind", "status"}, // kind: user / similar / popular
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lmsrec_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lmsrec_recommend_results",
			Help:    "Number of courses returned per recommendation request",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
		[]string{"kind"},
	)

	TrainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lmsrec_train_duration_seconds",
			Help:    "Duration of model training (similarity matrix construction) in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"}, // user_cf / item_cf / content
	)

	TrainFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmsrec_train_failures_total",
			Help: "Total number of failed training attempts",
		},
		[]string{"model"},
	)

	DatasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lmsrec_dataset_load_duration_seconds",
			Help:    "Duration of dataset loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)

// RecordRecommend 记录一次推荐请求
func RecordRecommend(kind string, duration time.Duration, results int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	RecommendRequests.WithLabelValues(kind, status).Inc()
	RecommendDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err == nil {
		RecommendResults.WithLabelValues(kind).Observe(float64(results))
	}
}

// RecordTrain 记录一次训练
func RecordTrain(model string, duration time.Duration, ok bool) {
	TrainDuration.WithLabelValues(model).Observe(duration.Seconds())
	if !ok {
		TrainFailures.WithLabelValues(model).Inc()
	}
}

// RecordDatasetLoad 记录一次数据集加载
func RecordDatasetLoad(source string, duration time.Duration) {
	DatasetLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
}
