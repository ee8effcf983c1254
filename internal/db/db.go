package db

import (
	"context"
	"fmt"
	"time"

	"github.com/team-divops/backend/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const DuplicateEntry = 1062

func New(cfg config.Database) (*sqlx.DB, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time load location failed: %w", err)
	}
	conf := mysql.NewConfig()
	conf.Net = cfg.Net
	conf.Addr = cfg.Server
	conf.User = cfg.User
	conf.Passwd = cfg.Password
	conf.DBName = cfg.DBName
	conf.Timeout = cfg.Timeout
	conf.ReadTimeout = cfg.QueryTimeout
	conf.WriteTimeout = cfg.QueryTimeout
	conf.Loc = location
	conf.ParseTime = true

	dbConn, err := sqlx.Connect("mysql", conf.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("db connection failed: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConnections)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConnections)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}

	return dbConn, nil
}

// Migrate creates the tables the gateway needs when they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema failed: %w", err)
		}
	}

	return nil
}

var schema = []string{
	`
	CREATE TABLE IF NOT EXISTS sessions (
		id            VARCHAR(64)  NOT NULL PRIMARY KEY,
		email         VARCHAR(320) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		refresh_token VARCHAR(255) NOT NULL,
		user_agent    VARCHAR(512) NOT NULL DEFAULT '',
		ip            VARCHAR(64)  NOT NULL DEFAULT '',
		expires_at    DATETIME(6)  NOT NULL,
		created_at    DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_sessions_refresh_token (refresh_token),
		KEY idx_sessions_email (email),
		KEY idx_sessions_expires_at (expires_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`,
}
