package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Routing metrics
	QueriesRouted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoadvisor_queries_routed_total",
			Help: "Total number of queries by route",
		},
		[]string{"route"}, // route: knowledge_base|tool_call|direct
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptoadvisor_query_duration_seconds",
			Help:    "End-to-end query handling duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"route"},
	)

	// Model metrics
	ModelCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoadvisor_model_calls_total",
			Help: "Total number of chat model calls",
		},
		[]string{"model", "status"}, // status: success|error
	)

	ModelTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoadvisor_model_tokens_total",
			Help: "Total tokens used by model calls",
		},
		[]string{"model", "type"}, // type: input|output
	)

	// Tool metrics
	ToolExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoadvisor_tool_executions_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool", "status"}, // status: success|error
	)

	ToolLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptoadvisor_tool_latency_seconds",
			Help:    "Tool execution latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"tool"},
	)

	// Retrieval metrics
	RetrievalSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoadvisor_retrieval_searches_total",
			Help: "Total number of vector searches",
		},
		[]string{"status"}, // status: success|error
	)

	RetrievalDocuments = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cryptoadvisor_retrieval_documents_returned",
			Help:    "Number of documents returned per retrieval",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
	)

	// External API metrics
	ExternalAPICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoadvisor_external_api_calls_total",
			Help: "Total number of external API calls",
		},
		[]string{"provider", "endpoint", "status"}, // provider: coingecko|newsapi
	)

	ExternalAPILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptoadvisor_external_api_latency_seconds",
			Help:    "External API latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "endpoint"},
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoadvisor_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|redis
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(QueriesRouted)
	prometheus.MustRegister(QueryDuration)

	prometheus.MustRegister(ModelCalls)
	prometheus.MustRegister(ModelTokens)

	prometheus.MustRegister(ToolExecutions)
	prometheus.MustRegister(ToolLatency)

	prometheus.MustRegister(RetrievalSearches)
	prometheus.MustRegister(RetrievalDocuments)

	prometheus.MustRegister(ExternalAPICalls)
	prometheus.MustRegister(ExternalAPILatency)

	prometheus.MustRegister(DBQueries)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordQuery records one routed query and its duration
func RecordQuery(route string, duration time.Duration) {
	QueriesRouted.WithLabelValues(route).Inc()
	QueryDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordModelCall records a chat model invocation
func RecordModelCall(model string, inputTokens, outputTokens int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ModelCalls.WithLabelValues(model, status).Inc()
	if err == nil {
		ModelTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
		ModelTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

// RecordToolExecution records a tool invocation
func RecordToolExecution(tool string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ToolExecutions.WithLabelValues(tool, status).Inc()
	ToolLatency.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordRetrieval records a vector search and its result size
func RecordRetrieval(returned int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RetrievalSearches.WithLabelValues(status).Inc()
	if err == nil {
		RetrievalDocuments.Observe(float64(returned))
	}
}

// RecordExternalAPICall records an external provider request
func RecordExternalAPICall(provider, endpoint string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ExternalAPICalls.WithLabelValues(provider, endpoint, status).Inc()
	ExternalAPILatency.WithLabelValues(provider, endpoint).Observe(duration.Seconds())
}
