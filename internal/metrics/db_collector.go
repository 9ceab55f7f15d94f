package metrics

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// DBStatsCollector exports connection pool statistics for both database
// handles: the pgx pool used by the user repository and the sql.DB
// underneath sqlx used by the reminder repository.
type DBStatsCollector struct {
	pgxPool *pgxpool.Pool
	sqlDB   *sql.DB

	pgxTotalConns    *prometheus.Desc
	pgxIdleConns     *prometheus.Desc
	pgxAcquiredConns *prometheus.Desc
	pgxMaxConns      *prometheus.Desc

	sqlOpenConns  *prometheus.Desc
	sqlInUseConns *prometheus.Desc
	sqlIdleConns  *prometheus.Desc
}

// NewDBStatsCollector creates a collector over the given handles.
// Either handle may be nil.
func NewDBStatsCollector(pgxPool *pgxpool.Pool, sqlDB *sql.DB) *DBStatsCollector {
	return &DBStatsCollector{
		pgxPool: pgxPool,
		sqlDB:   sqlDB,
		pgxTotalConns: prometheus.NewDesc(
			"footyclub_db_pgx_total_conns",
			"Total connections in the pgx pool",
			nil, nil,
		),
		pgxIdleConns: prometheus.NewDesc(
			"footyclub_db_pgx_idle_conns",
			"Idle connections in the pgx pool",
			nil, nil,
		),
		pgxAcquiredConns: prometheus.NewDesc(
			"footyclub_db_pgx_acquired_conns",
			"Acquired connections in the pgx pool",
			nil, nil,
		),
		pgxMaxConns: prometheus.NewDesc(
			"footyclub_db_pgx_max_conns",
			"Maximum connections allowed in the pgx pool",
			nil, nil,
		),
		sqlOpenConns: prometheus.NewDesc(
			"footyclub_db_sql_open_conns",
			"Open connections in the sql.DB handle",
			nil, nil,
		),
		sqlInUseConns: prometheus.NewDesc(
			"footyclub_db_sql_in_use_conns",
			"In-use connections in the sql.DB handle",
			nil, nil,
		),
		sqlIdleConns: prometheus.NewDesc(
			"footyclub_db_sql_idle_conns",
			"Idle connections in the sql.DB handle",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *DBStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pgxTotalConns
	ch <- c.pgxIdleConns
	ch <- c.pgxAcquiredConns
	ch <- c.pgxMaxConns
	ch <- c.sqlOpenConns
	ch <- c.sqlInUseConns
	ch <- c.sqlIdleConns
}

// Collect implements prometheus.Collector
func (c *DBStatsCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pgxPool != nil {
		stat := c.pgxPool.Stat()
		ch <- prometheus.MustNewConstMetric(c.pgxTotalConns, prometheus.GaugeValue, float64(stat.TotalConns()))
		ch <- prometheus.MustNewConstMetric(c.pgxIdleConns, prometheus.GaugeValue, float64(stat.IdleConns()))
		ch <- prometheus.MustNewConstMetric(c.pgxAcquiredConns, prometheus.GaugeValue, float64(stat.AcquiredConns()))
		ch <- prometheus.MustNewConstMetric(c.pgxMaxConns, prometheus.GaugeValue, float64(stat.MaxConns()))
	}

	if c.sqlDB != nil {
		stats := c.sqlDB.Stats()
		ch <- prometheus.MustNewConstMetric(c.sqlOpenConns, prometheus.GaugeValue, float64(stats.OpenConnections))
		ch <- prometheus.MustNewConstMetric(c.sqlInUseConns, prometheus.GaugeValue, float64(stats.InUse))
		ch <- prometheus.MustNewConstMetric(c.sqlIdleConns, prometheus.GaugeValue, float64(stats.Idle))
	}
}
