package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	quizSubmissionsTotal  prometheus.Counter
	gradeImportRowsTotal  *prometheus.CounterVec
	gradeImportBatchTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the grading API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grading_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		quizSubmissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of quiz responses graded automatically.",
		})

		gradeImportRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grade_import_rows_total",
			Help: "Spreadsheet rows processed during grade imports, by outcome.",
		}, []string{"outcome"})

		gradeImportBatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grade_import_batches_total",
			Help: "Grade import batches applied or reverted.",
		}, []string{"action"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			quizSubmissionsTotal,
			gradeImportRowsTotal,
			gradeImportBatchTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// QuizSubmissions exposes the counter for auto-graded quiz responses.
func QuizSubmissions() prometheus.Counter {
	RegisterMetrics()
	return quizSubmissionsTotal
}

// GradeImportRows exposes the per-outcome row counter for grade imports.
func GradeImportRows() *prometheus.CounterVec {
	RegisterMetrics()
	return gradeImportRowsTotal
}

// GradeImportBatches exposes the batch lifecycle counter for grade imports.
func GradeImportBatches() *prometheus.CounterVec {
	RegisterMetrics()
	return gradeImportBatchTotal
}
