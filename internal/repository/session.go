package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/team-divops/backend/internal/db"
	"github.com/team-divops/backend/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type sessionRepository struct {
	db *sqlx.DB
	// isDuplicate reports a unique key violation of the underlying driver.
	isDuplicate func(err error) bool
}

func newSessionRepository(db *sqlx.DB) *sessionRepository {
	return &sessionRepository{
		db:          db,
		isDuplicate: isMySQLDuplicate,
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	const query = `
	INSERT INTO sessions (id, email, refresh_token, user_agent, ip, expires_at, created_at)
	VALUES (:id, :email, :refresh_token, :user_agent, :ip, :expires_at, :created_at);
	`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		if r.isDuplicate(err) {
			return domain.ErrDuplicateEntry
		}
		return storeError("insert session", err)
	}

	return nil
}

func (r *sessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	const query = `
	SELECT id, email, refresh_token, user_agent, ip, expires_at, created_at FROM sessions WHERE refresh_token = ?;
	`
	var session domain.Session
	if err := r.db.GetContext(ctx, &session, query, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("select session by refresh token", err)
	}

	return &session, nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	const query = `
	SELECT id, email, refresh_token, user_agent, ip, expires_at, created_at FROM sessions WHERE id = ?;
	`
	var session domain.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("select session by id", err)
	}

	return &session, nil
}

func (r *sessionRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	const query = `DELETE FROM sessions WHERE email = ?;`

	return r.exec(ctx, "delete sessions by email", query, email)
}

func (r *sessionRepository) DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error) {
	const query = `DELETE FROM sessions WHERE refresh_token = ?;`

	return r.exec(ctx, "delete session by refresh token", query, refreshToken)
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < ?;`

	return r.exec(ctx, "delete expired sessions", query, before.UTC())
}

func (r *sessionRepository) exec(ctx context.Context, op string, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storeError(op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, storeError(op+" rows affected", err)
	}

	return rowsAffected, nil
}

func isMySQLDuplicate(err error) bool {
	var mysqlError *mysql.MySQLError
	return errors.As(err, &mysqlError) && mysqlError.Number == db.DuplicateEntry
}
