package escalation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicpulse/helpdesk/pkg/db"
)

// DefaultStatement triggers the escalation rules stored in the case database.
const DefaultStatement = "SELECT check_sla_escalations()"

// Sweeper is the case-management entry point that applies SLA escalation
// rules to open cases.
type Sweeper interface {
	CheckSLAEscalations(ctx context.Context) error
}

// SweeperFunc adapts a plain function to Sweeper.
type SweeperFunc func(ctx context.Context) error

// CheckSLAEscalations calls f.
func (f SweeperFunc) CheckSLAEscalations(ctx context.Context) error {
	return f(ctx)
}

// SweeperOption configures a PostgresSweeper.
type SweeperOption func(*PostgresSweeper)

// WithStatement overrides the SQL executed on every sweep.
// Empty values are ignored.
func WithStatement(statement string) SweeperOption {
	return func(s *PostgresSweeper) {
		if statement != "" {
			s.statement = statement
		}
	}
}

// PostgresSweeper runs the escalation statement against the case database.
type PostgresSweeper struct {
	db        db.TxBeginner
	statement string
}

// NewPostgresSweeper returns a sweeper bound to conn, normally a *pgxpool.Pool.
// A nil conn, including a nil *pgxpool.Pool or *pgx.Conn, yields a sweeper
// that always reports ErrUnavailable.
func NewPostgresSweeper(conn db.TxBeginner, opts ...SweeperOption) *PostgresSweeper {
	s := &PostgresSweeper{
		db:        nilIfTyped(conn),
		statement: DefaultStatement,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func nilIfTyped(conn db.TxBeginner) db.TxBeginner {
	switch c := conn.(type) {
	case *pgxpool.Pool:
		if c == nil {
			return nil
		}
	case *pgx.Conn:
		if c == nil {
			return nil
		}
	}
	return conn
}

// Statement returns the SQL executed on every sweep.
func (s *PostgresSweeper) Statement() string { return s.statement }

// CheckSLAEscalations runs the statement in its own transaction so a
// partially applied sweep is rolled back.
func (s *PostgresSweeper) CheckSLAEscalations(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrUnavailable
	}

	err := db.WithTx(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, s.statement)
		return err
	})
	if err != nil {
		return errors.Join(ErrSweepFailed, err)
	}
	return nil
}
