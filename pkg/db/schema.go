// pkg/db/schema.go
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var usersTable = map[string]string{
	DriverPostgres: `CREATE TABLE IF NOT EXISTS users (
		id   BIGSERIAL PRIMARY KEY,
		name VARCHAR(32) NOT NULL,
		age  BIGINT NULL
	)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS users (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(32) NOT NULL,
		age  INTEGER NULL
	)`,
}

// CreateSchema creates the users table if it does not exist yet.
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	ddl, ok := usersTable[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}
