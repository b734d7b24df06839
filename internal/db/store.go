// Package db provides scoped access to a pints SQLite database file.
//
// Every public operation opens its own connection, runs to completion,
// and closes the connection before returning. No handle outlives a call.
package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store locates a database file. It holds no open connection; each
// operation acquires and releases its own via With.
type Store struct {
	path string
}

// New returns a Store for the database file at path. The file is created
// on first use.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// With opens a connection, invokes fn with it, and closes the connection
// on every exit path.
func (s *Store) With(fn func(db *gorm.DB) error) error {
	gdb, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open store %s: %w", s.path, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("open store %s: %w", s.path, err)
	}
	defer sqlDB.Close()

	return fn(gdb)
}

// Exec runs a single statement with optional positional arguments.
func (s *Store) Exec(stmt string, args ...any) error {
	return s.With(func(gdb *gorm.DB) error {
		if err := gdb.Exec(stmt, args...).Error; err != nil {
			return fmt.Errorf("execute statement: %w", err)
		}
		return nil
	})
}

// ExecScript runs a SQL text block that may contain multiple statements,
// such as a schema or migration file. No arguments are bound.
func (s *Store) ExecScript(script string) error {
	return s.With(func(gdb *gorm.DB) error {
		if err := gdb.Exec(script).Error; err != nil {
			return fmt.Errorf("execute script: %w", err)
		}
		return nil
	})
}

// Query runs a statement expected to produce rows and returns the full
// result set.
func (s *Store) Query(query string, args ...any) (*Result, error) {
	var res *Result
	err := s.With(func(gdb *gorm.DB) error {
		rows, err := gdb.Raw(query, args...).Rows()
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		defer rows.Close()

		res, err = collect(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RunSQL executes arbitrary SQL. Statements that produce a result set
// return it; all other statements return nil. Classification is by the
// statement's leading keyword.
func (s *Store) RunSQL(stmt string, args ...any) (*Result, error) {
	if producesRows(stmt) {
		return s.Query(stmt, args...)
	}
	return nil, s.Exec(stmt, args...)
}

// producesRows reports whether the statement's first keyword indicates a
// row-returning statement.
func producesRows(stmt string) bool {
	fields := strings.Fields(strings.TrimSpace(stmt))
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(strings.TrimLeft(fields[0], "(")) {
	case "SELECT", "WITH", "VALUES", "PRAGMA", "EXPLAIN":
		return true
	}
	return false
}
