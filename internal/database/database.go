// Package database is the raw SQL access layer. One Queries value wraps a
// *sql.DB (or a transaction) and exposes a method per query, with Params
// structs for multi-argument writes. Nullable columns use sql.Null* types;
// converting to app models happens in the services layer.
package database

import (
	"context"
	"database/sql"
)

// DBTX lets Queries run against either *sql.DB or *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the database handle all query methods run against
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given handle
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
