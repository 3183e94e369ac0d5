package metrics

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"cryptoadvisor/pkg/logger"
)

// CustomCollector collects gauge metrics from the backing stores on
// each scrape.
type CustomCollector struct {
	postgres *sqlx.DB
	redis    *redis.Client

	totalDocuments *prometheus.Desc
	postgresUp     *prometheus.Desc
	redisUp        *prometheus.Desc
}

// NewCustomCollector creates a new custom metrics collector
func NewCustomCollector(postgres *sqlx.DB, rdb *redis.Client) *CustomCollector {
	return &CustomCollector{
		postgres: postgres,
		redis:    rdb,

		totalDocuments: prometheus.NewDesc(
			"cryptoadvisor_knowledge_documents_total",
			"Total number of documents in the knowledge base",
			nil, nil,
		),
		postgresUp: prometheus.NewDesc(
			"cryptoadvisor_postgres_up",
			"Whether PostgreSQL is reachable (0 or 1)",
			nil, nil,
		),
		redisUp: prometheus.NewDesc(
			"cryptoadvisor_redis_up",
			"Whether Redis is reachable (0 or 1)",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalDocuments
	ch <- c.postgresUp
	ch <- c.redisUp
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pgUp := 0.0
	if c.postgres != nil {
		var count int64
		if err := c.postgres.GetContext(ctx, &count, `SELECT COUNT(*) FROM documents`); err != nil {
			logger.Get().Warnw("failed to collect document count", "error", err)
		} else {
			pgUp = 1.0
			ch <- prometheus.MustNewConstMetric(c.totalDocuments, prometheus.GaugeValue, float64(count))
		}
	}
	ch <- prometheus.MustNewConstMetric(c.postgresUp, prometheus.GaugeValue, pgUp)

	redisUp := 0.0
	if c.redis != nil {
		if err := c.redis.Ping(ctx).Err(); err == nil {
			redisUp = 1.0
		}
	}
	ch <- prometheus.MustNewConstMetric(c.redisUp, prometheus.GaugeValue, redisUp)
}
