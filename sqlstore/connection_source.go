// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"net"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/logging"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var ErrNoTransaction = errors.New("no transaction in context")

// Connection is the subset of the pgx API the stores rely on. It is satisfied
// by the ConnectionSource delegate which routes calls to the transaction held
// in the context, or to the pool.
type Connection interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

type ConnectionSource struct {
	Connection Connection
	pool       *pgxpool.Pool
	log        *logging.Logger
	retry      RetryConfig
}

func NewTransactionalConnectionSource(ctx context.Context, log *logging.Logger, config Config) (*ConnectionSource, error) {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	poolConfig, err := config.ConnectionConfig.GetPoolConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get pool config: %w", err)
	}

	var pool *pgxpool.Pool
	op := func() error {
		pool, err = pgxpool.ConnectConfig(ctx, poolConfig)
		if err != nil {
			log.Warn("failed to connect to the database, retrying", logging.Error(err))
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(newBackOff(config.Retry), ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return newConnectionSource(log, pool, config.Retry), nil
}

func newConnectionSource(log *logging.Logger, pool *pgxpool.Pool, retry RetryConfig) *ConnectionSource {
	cs := &ConnectionSource{
		pool:  pool,
		log:   log,
		retry: retry,
	}
	cs.Connection = &delegatingConnection{cs: cs}
	return cs
}

func (s *ConnectionSource) Pool() *pgxpool.Pool {
	return s.pool
}

// WithTransaction returns a context carrying a new transaction. When the
// context already holds one a nested transaction (savepoint) is started.
func (s *ConnectionSource) WithTransaction(ctx context.Context) (context.Context, error) {
	var (
		tx  pgx.Tx
		err error
	)
	if outer, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		tx, err = outer.Begin(ctx)
	} else {
		err = s.retryable(ctx, func() error {
			tx, err = s.pool.Begin(ctx)
			return err
		})
	}
	if err != nil {
		return ctx, fmt.Errorf("failed to start transaction: %w", err)
	}
	return context.WithValue(ctx, txKey{}, tx), nil
}

func (s *ConnectionSource) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return ErrNoTransaction
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// Rollback is a no-op once the transaction has been committed.
func (s *ConnectionSource) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return ErrNoTransaction
	}
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// InTransaction runs fn within a transaction, committing when fn succeeds
// and rolling back otherwise.
func (s *ConnectionSource) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, err := s.WithTransaction(ctx)
	if err != nil {
		return err
	}
	if err := fn(txCtx); err != nil {
		if rerr := s.Rollback(txCtx); rerr != nil {
			s.log.Error("failed to rollback transaction", logging.Error(rerr))
		}
		return err
	}
	return s.Commit(txCtx)
}

func (s *ConnectionSource) HasTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(pgx.Tx)
	return ok
}

func (s *ConnectionSource) Close() {
	s.pool.Close()
}

// retryable runs op with exponential backoff as long as it fails with a
// connection error. Other errors are returned straight away.
func (s *ConnectionSource) retryable(ctx context.Context, op func() error) error {
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !isConnectionError(err) {
			return backoff.Permanent(err)
		}
		s.log.Debug("connection error, retrying",
			logging.Int("attempt", attempt),
			logging.Error(err))
		return err
	}, backoff.WithContext(newBackOff(s.retry), ctx))
	return classify(err)
}

func newBackOff(conf RetryConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if conf.InitialInterval.Duration > 0 {
		b.InitialInterval = conf.InitialInterval.Duration
	}
	if conf.MaxInterval.Duration > 0 {
		b.MaxInterval = conf.MaxInterval.Duration
	}
	b.MaxElapsedTime = 0
	attempts := conf.MaxAttempts
	if attempts > 0 {
		attempts--
	}
	return backoff.WithMaxRetries(b, attempts)
}

// isConnectionError reports whether err is a failure to reach the database
// rather than a failure of the statement itself.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P03", pgErr.Code == "53300":
			return true
		}
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify wraps connection errors so callers can test them with
// entities.ErrTransientInfra.
func classify(err error) error {
	if err == nil || errors.Is(err, entities.ErrTransientInfra) {
		return err
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", entities.ErrTransientInfra, err)
	}
	return err
}

type delegatingConnection struct {
	cs *ConnectionSource
}

func (c *delegatingConnection) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		rows, err := tx.Query(ctx, sql, args...)
		return rows, classify(err)
	}
	var rows pgx.Rows
	err := c.cs.retryable(ctx, func() error {
		var err error
		rows, err = c.cs.pool.Query(ctx, sql, args...)
		return err
	})
	return rows, err
}

func (c *delegatingConnection) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return classifiedRow{row: tx.QueryRow(ctx, sql, args...)}
	}
	return &retryingRow{cs: c.cs, ctx: ctx, sql: sql, args: args}
}

func (c *delegatingConnection) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		tag, err := tx.Exec(ctx, sql, args...)
		return tag, classify(err)
	}
	var tag pgconn.CommandTag
	err := c.cs.retryable(ctx, func() error {
		var err error
		tag, err = c.cs.pool.Exec(ctx, sql, args...)
		return err
	})
	return tag, err
}

func (c *delegatingConnection) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx.SendBatch(ctx, b)
	}
	return c.cs.pool.SendBatch(ctx, b)
}

type classifiedRow struct {
	row pgx.Row
}

func (r classifiedRow) Scan(dest ...interface{}) error {
	return classify(r.row.Scan(dest...))
}

// retryingRow defers the query to Scan, where pgx reports its errors, so the
// whole round trip can be retried.
type retryingRow struct {
	cs   *ConnectionSource
	ctx  context.Context
	sql  string
	args []interface{}
}

func (r *retryingRow) Scan(dest ...interface{}) error {
	return r.cs.retryable(r.ctx, func() error {
		return r.cs.pool.QueryRow(r.ctx, r.sql, r.args...).Scan(dest...)
	})
}
