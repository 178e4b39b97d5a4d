package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestTransactionManager_ReadWriteCommit(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readWriteTx)
	mock.ExpectCommit()

	tm := NewTransactionManager(mock, nil)
	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		if !hasTx(ctx) {
			t.Fatalf("transaction not injected into context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinReadWrite error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_ReadOnlyUsesReadCommitted(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly})
	mock.ExpectCommit()

	if err := NewTransactionManager(mock, nil).WithinReadOnly(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("WithinReadOnly error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyTx)
	mock.ExpectRollback()

	refreshErr := errors.New("scan employees")
	err := NewTransactionManager(mock, nil).WithinReadOnly(context.Background(), func(context.Context) error {
		return refreshErr
	})
	if !errors.Is(err, refreshErr) {
		t.Fatalf("expected %v, got %v", refreshErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_RollbackFailureIsLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	mock := newMockPool(t)
	mock.ExpectBeginTx(readWriteTx)
	mock.ExpectRollback().WillReturnError(errors.New("connection reset"))

	insertErr := errors.New("insert employee")
	err := NewTransactionManager(mock, zap.New(core)).WithinReadWrite(context.Background(), func(context.Context) error {
		return insertErr
	})
	if !errors.Is(err, insertErr) {
		t.Fatalf("expected %v, got %v", insertErr, err)
	}
	if logs.FilterMessage("rollback failed").Len() != 1 {
		t.Fatalf("expected rollback failure to be logged, got %v", logs.All())
	}
}

func TestTransactionManager_CommitFailure(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readWriteTx)
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := NewTransactionManager(mock, nil).WithinReadWrite(context.Background(), func(context.Context) error { return nil })
	if err == nil {
		t.Fatalf("expected commit error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_NestedCallJoinsOuter(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readWriteTx)
	mock.ExpectCommit()

	tm := NewTransactionManager(mock, nil)
	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		return tm.WithinReadOnly(ctx, func(inner context.Context) error {
			if !hasTx(inner) {
				t.Fatalf("nested call lost the outer transaction")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("nested call error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_NilRunsDirectly(t *testing.T) {
	t.Parallel()

	tm := NewTransactionManager(nil, nil)
	if tm != nil {
		t.Fatalf("expected nil manager for nil starter")
	}

	called := false
	if err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		called = true
		if hasTx(ctx) {
			t.Fatalf("unexpected transaction in context")
		}
		return nil
	}); err != nil {
		t.Fatalf("WithinReadWrite error: %v", err)
	}
	if !called {
		t.Fatalf("fn was not called")
	}
}
