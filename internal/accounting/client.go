// Package accounting provides connectivity to the company's SQL Server
// accounting system. Paid payment phases are exported into a ledger
// table there so the bookkeeper works from one source.
package accounting

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"github.com/sainam-co/jobtrack-api/internal/config"
	"go.uber.org/zap"
)

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	defaultHealthCheckTimeout = 5 * time.Second
)

// Client wraps the SQL Server connection used for ledger export
type Client struct {
	db           *sql.DB
	ledgerTable  string
	logger       *zap.Logger
	queryTimeout time.Duration
}

// HealthStatus is the accounting connection health check result
type HealthStatus struct {
	Status  string        `json:"status"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
	MaxOpen int           `json:"max_open_connections"`
	Open    int           `json:"open_connections"`
	InUse   int           `json:"in_use"`
	Idle    int           `json:"idle"`
}

// NewClient connects to the accounting SQL Server. Returns nil when the
// export is disabled or not configured; callers treat a nil client as
// "no accounting".
func NewClient(cfg *config.AccountingConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("accounting export disabled")
		return nil, nil
	}
	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("accounting export enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""))
		return nil, nil
	}

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		logger.Info("connecting to accounting database",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries))

		db, err = sql.Open("sqlserver", connStr)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

			pingCtx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				logger.Info("accounting connection established", zap.Int("attempts_taken", attempt))
				return &Client{
					db:           db,
					ledgerTable:  cfg.LedgerTable,
					logger:       logger,
					queryTimeout: cfg.QueryTimeoutDuration(),
				}, nil
			}
			_ = db.Close()
		}

		logger.Warn("accounting connection attempt failed", zap.Error(err), zap.Int("attempt", attempt))
		if attempt < defaultMaxRetries {
			time.Sleep(backoff)
			backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
		}
	}

	return nil, fmt.Errorf("failed to connect to accounting database after %d attempts: %w", defaultMaxRetries, err)
}

// buildConnectionString constructs a sqlserver DSN.
// URL format: host:port/database or host:port.
func buildConnectionString(cfg *config.AccountingConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433"
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}

// Close shuts down the connection pool
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	c.logger.Info("closing accounting connection")
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close accounting connection: %w", err)
	}
	return nil
}

// IsEnabled reports whether the client is connected and usable
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// HealthCheck pings the accounting database and reports pool stats
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{Status: "disabled"}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	start := time.Now()
	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency: latency,
		MaxOpen: stats.MaxOpenConnections,
		Open:    stats.OpenConnections,
		InUse:   stats.InUse,
		Idle:    stats.Idle,
	}
	if err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}
	return status
}

// LedgerEntry is one exported payment row
type LedgerEntry struct {
	JobCode      string
	CustomerName string
	Phase        int
	Amount       float64
	PaidDate     time.Time
}

// UpsertLedgerEntries writes paid phases into the ledger table. Rows
// are keyed by job code and phase so a re-export is idempotent.
func (c *Client) UpsertLedgerEntries(ctx context.Context, entries []LedgerEntry) (int, error) {
	if c == nil || c.db == nil {
		return 0, fmt.Errorf("accounting client not initialized")
	}
	if len(entries) == 0 {
		return 0, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	// MERGE keeps the export idempotent across overlapping runs
	query := fmt.Sprintf(`
MERGE %s AS target
USING (SELECT @p1 AS job_code, @p2 AS customer_name, @p3 AS phase, @p4 AS amount, @p5 AS paid_date) AS source
ON target.job_code = source.job_code AND target.phase = source.phase
WHEN MATCHED THEN
    UPDATE SET amount = source.amount, paid_date = source.paid_date, customer_name = source.customer_name
WHEN NOT MATCHED THEN
    INSERT (job_code, customer_name, phase, amount, paid_date)
    VALUES (source.job_code, source.customer_name, source.phase, source.amount, source.paid_date);`,
		c.ledgerTable)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin export transaction: %w", err)
	}
	defer tx.Rollback()

	written := 0
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query,
			entry.JobCode, entry.CustomerName, entry.Phase, entry.Amount, entry.PaidDate); err != nil {
			return written, fmt.Errorf("failed to export ledger entry %s phase %d: %w", entry.JobCode, entry.Phase, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit export transaction: %w", err)
	}

	c.logger.Debug("ledger entries exported", zap.Int("count", written))
	return written, nil
}
