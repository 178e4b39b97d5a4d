package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Queryer は pgx.Tx と pgxpool.Pool の共通部分です。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type txKey struct{}

// 社員ストアは read committed で動作する。スナップショットの再読込は直前にコミットされた内容を読む。
var (
	readOnlyTx  = pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly}
	readWriteTx = pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}
)

// TransactionManager は社員ストアへの一連の操作を 1 つのトランザクションにまとめます。
// nil のままでも使え、その場合はトランザクションなしで fn を実行します。
type TransactionManager struct {
	starter txStarter
	logger  *zap.Logger
}

// NewTransactionManager は TransactionManager を生成します。starter が nil なら nil を返します。
func NewTransactionManager(starter txStarter, logger *zap.Logger) *TransactionManager {
	if starter == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionManager{starter: starter, logger: logger}
}

// WithinReadOnly は読み取り専用トランザクションで fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return m.run(ctx, readOnlyTx, fn)
}

// WithinReadWrite は読み書きトランザクションで fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return m.run(ctx, readWriteTx, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("postgres: transaction function is required")
	}
	// 外側のトランザクションがあればそれに参加する。
	if m == nil || hasTx(ctx) {
		return fn(ctx)
	}

	tx, err := m.starter.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin %s tx: %w", opts.AccessMode, err)
	}

	finished := false
	defer func() {
		if !finished {
			m.rollback(ctx, tx)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		finished = true
		m.rollback(ctx, tx)
		return err
	}

	// pgx は Commit に失敗した時点でトランザクションを閉じる。
	finished = true
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (m *TransactionManager) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		m.logger.Warn("rollback failed", zap.Error(err))
	}
}

func hasTx(ctx context.Context) bool {
	_, ok := txFrom(ctx)
	return ok
}

func txFrom(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// QueryerFromContext は実行中のトランザクションがあればそれを、なければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return fallback
}
