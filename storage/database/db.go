// Package database implements the reporting repositories against MySQL.
//
// All queries are read-only; writes happen in the separate submission app.
package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// Open connects the process-wide pool. Init at startup, no per-request
// teardown.
func Open(conf *core.Config) (*sqlx.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = conf.Database.User
	cfg.Passwd = conf.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = conf.Database.Address()
	cfg.DBName = conf.Database.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	db.SetMaxOpenConns(conf.Database.MaxOpenConns)
	db.SetMaxIdleConns(conf.Database.MaxIdleConns)
	db.SetConnMaxLifetime(conf.Database.ConnMaxLifetime)

	if err = ping(db); err != nil {
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx so repositories can run
// against the pool or a snapshot transaction transparently.
type queryer interface {
	sqlx.QueryerContext
}

// badConn promotes lost-connection errors to shutdown errors so the server
// stops serving instead of failing every request.
func badConn(err error) error {
	switch errors.Cause(err) {
	case driver.ErrBadConn, mysql.ErrInvalidConn, sql.ErrConnDone:
		return core.NewShutdownError(err.Error())
	}
	return err
}

// snapshot runs fn inside a single read-only transaction, giving the several
// queries of one report a consistent view. Always rolls back.
func snapshot(ctx context.Context, db *sqlx.DB, fn func(q queryer) error) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return badConn(errors.Wrap(err, "beginning read-only tx"))
	}
	defer func() { _ = tx.Rollback() }()
	return fn(tx)
}
