// Package metrics 处理流水线的 Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livestats_files_processed_total",
			Help: "Total number of processed files by detected format and final status",
		},
		[]string{"format", "status"},
	)

	RowsNormalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livestats_rows_normalized_total",
			Help: "Total number of source rows written to clean data",
		},
		[]string{"format"},
	)

	ProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "livestats_processing_duration_seconds",
			Help:    "Duration of single-file processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	ActiveJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "livestats_active_jobs",
			Help: "Number of files currently being processed",
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "livestats_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordProcessing 记录一次文件处理的结果
func RecordProcessing(format, status string, rows int, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	FilesProcessed.WithLabelValues(format, status).Inc()
	if rows > 0 {
		RowsNormalized.WithLabelValues(format).Add(float64(rows))
	}
	ProcessingDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// TrackActiveJob 进行中任务数 +1 / -1
func TrackActiveJob(inc bool) {
	if inc {
		ActiveJobs.Inc()
	} else {
		ActiveJobs.Dec()
	}
}

// RecordAPIRequest 记录 API 请求耗时
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}
