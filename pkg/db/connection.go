package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"geneailogy/tree-service/pkg/logger"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute

	connectAttempts = 5
	pingTimeout     = 3 * time.Second
)

// Config holds database configuration
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the MySQL connection string. parseTime is required: the
// repositories scan created_at/updated_at straight into time.Time.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// withDefaults fills unset pool settings
func (c Config) withDefaults() Config {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = defaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = defaultConnMaxLifetime
	}
	return c
}

// Connection wraps sql.DB
type Connection struct {
	DB *sql.DB
}

// NewConnection opens the tree database, retrying with linear backoff while the
// database container comes up.
func NewConnection(ctx context.Context, cfg Config, log *logger.Logger) (*Connection, error) {
	cfg = cfg.withDefaults()

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	for attempt := 1; ; attempt++ {
		err = pingWithTimeout(ctx, db)
		if err == nil {
			return &Connection{DB: db}, nil
		}
		if attempt == connectAttempts {
			db.Close()
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", connectAttempts, err)
		}

		log.WithField("attempt", attempt).WithField("error", err.Error()).Warn("Database not reachable, retrying")

		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("database connection aborted: %w", ctx.Err())
		case <-time.After(time.Second * time.Duration(attempt)):
		}
	}
}

func pingWithTimeout(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(pingCtx)
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}

// Ping verifies connection is alive
func (c *Connection) Ping(ctx context.Context) error {
	return pingWithTimeout(ctx, c.DB)
}

// Stats returns the connection pool statistics
func (c *Connection) Stats() sql.DBStats {
	return c.DB.Stats()
}
