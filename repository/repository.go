// Package repository holds the PostgreSQL repositories of users and accounts.
//
// Both repositories implement the validator's uniqueness contract, so the
// "unique:userRepository,telephone" rule can reach them through the container.
package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrations holds the goose migrations under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

var (
	ErrNotFound     = errors.New("repository: not found")
	ErrUnknownField = errors.New("repository: field cannot be checked for uniqueness")
)

// queryer is satisfied by *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// isUnique counts rows of table whose column equals value. Only whitelisted
// fields reach the query.
func isUnique(ctx context.Context, q queryer, table string, columns map[string]string, field, value string) (bool, error) {
	column, ok := columns[field]
	if !ok {
		return false, fmt.Errorf("%w: %s.%s", ErrUnknownField, table, field)
	}

	var taken bool
	query := "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE " + column + " = $1)"
	if err := q.GetContext(ctx, &taken, query, value); err != nil {
		return false, fmt.Errorf("repository: %s uniqueness: %w", table, err)
	}
	return !taken, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
