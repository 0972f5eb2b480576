package repository

import (
	"context"
	"errors"
	"fmt"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Transaction runs fn inside a single database transaction. Any error or panic
// from fn rolls everything back.
type Transaction interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}

type transaction struct {
	db   *postgres.Connection
	otel otel.Otel
}

func NewTransaction(db *postgres.Connection, otl otel.Otel) Transaction {
	return &transaction{
		db:   db,
		otel: otl,
	}
}

func (t *transaction) Run(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Transaction.Run")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tx, err := t.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to begin transaction")

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit transaction")

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IsPgError reports whether err carries one of the given postgres error codes.
func IsPgError(err error, codes ...string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	for _, code := range codes {
		if string(pqErr.Code) == code {
			return true
		}
	}

	return false
}
