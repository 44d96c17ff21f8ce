package memory

import (
	"context"
	"database/sql"
	"errors"

	"user-service/pkg/db"
)

var errNoSQL = errors.New("memory: session does not execute SQL")

// Session stands in for a database transaction when the in-memory store is
// used. It satisfies db.TxController and repository.DBExecutor so services
// run unchanged; SQL methods always fail and QueryRowContext returns nil.
type Session struct {
	done bool
}

// BeginTx opens a Session. It matches db.BeginTxFunc; dbConn is ignored.
func BeginTx(ctx context.Context, _ db.DBTxBeginner) (db.TxController, error) {
	return &Session{}, nil
}

func (s *Session) Commit() error {
	if s.done {
		return sql.ErrTxDone
	}
	s.done = true
	return nil
}

func (s *Session) Rollback() error {
	if s.done {
		return sql.ErrTxDone
	}
	s.done = true
	return nil
}

func (s *Session) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errNoSQL
}

func (s *Session) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errNoSQL
}

func (s *Session) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}

// QueryRowContext cannot build a *sql.Row outside database/sql and returns nil.
// A Session must not be handed to a SQL repository.
func (s *Session) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (s *Session) Rebind(query string) string { return query }
