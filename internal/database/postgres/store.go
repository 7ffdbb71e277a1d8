package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so reads are shared
// between plain calls and transactions
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements repository.Store on PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a Store on an open pool. The pool is closed by Close.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) begin(ctx context.Context) (*tx, error) {
	pgTx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, mapError(err))
	}
	return &tx{tx: pgTx}, nil
}

func (s *Store) BeginQuestTx(ctx context.Context) (repository.QuestTx, error) {
	return s.begin(ctx)
}

func (s *Store) BeginProgressTx(ctx context.Context) (repository.ProgressTx, error) {
	return s.begin(ctx)
}

func (s *Store) BeginEconomyTx(ctx context.Context) (repository.EconomyTx, error) {
	return s.begin(ctx)
}

// mapError turns transient postgres failures into domain.ErrStorageConflict
// so callers can retry. Everything else passes through unchanged.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %s (%s)", domain.ErrStorageConflict, pgErr.Message, pgErr.Code)
	}
	return err
}

// queryErr wraps a failed statement, mapping no-rows to notFound
func queryErr(op string, err error, notFound error) error {
	if notFound != nil && errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf(ErrMsgQueryFailed, op, mapError(err))
}

// limitArg turns a non-positive limit into NULL, which LIMIT treats as unbounded
func limitArg(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
