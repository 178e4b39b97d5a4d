// Package app は設定からアプリケーションの依存関係を組み立てます。
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ogurasousui/hrcore/internal/adapters/grpc/handler"
	"github.com/ogurasousui/hrcore/internal/adapters/referencedata"
	pgrepo "github.com/ogurasousui/hrcore/internal/adapters/repository/postgres"
	sqliterepo "github.com/ogurasousui/hrcore/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/ogurasousui/hrcore/internal/core/structure"
	"github.com/ogurasousui/hrcore/internal/core/training"
	"github.com/ogurasousui/hrcore/internal/platform/config"
	pg "github.com/ogurasousui/hrcore/internal/platform/db/postgres"
	sqlitedb "github.com/ogurasousui/hrcore/internal/platform/db/sqlite"
	"go.uber.org/zap"
)

// App は組み立て済みのサービス群を保持します。
type App struct {
	Structure *structure.Store
	Employees *employee.Service
	Trainings *training.Service

	logger  *zap.Logger
	closers []func() error
}

// New は設定に従って社員ストアと参照データを接続し App を生成します。
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{logger: logger}

	repo, tx, err := a.openEmployeeStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	a.Structure = structure.NewStore(referencedata.NewFileSource(cfg.Reference.Dir), logger.Named("structure"))
	a.Employees = employee.NewService(repo, tx, logger.Named("employee"))
	a.Trainings = training.NewService(a.Employees, a.Structure)

	logger.Info("application initialized",
		zap.String("driver", cfg.Database.Driver),
		zap.String("reference_dir", cfg.Reference.Dir),
	)
	return a, nil
}

func (a *App) openEmployeeStore(ctx context.Context, cfg config.DatabaseConfig) (employee.Repository, employee.TransactionManager, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlitedb.Open(ctx, cfg.SQLitePath, &sqliterepo.EmployeeRecord{})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error { return sqlitedb.Close(db) })
		return sqliterepo.NewEmployeeRepository(db), sqlitedb.NewTransactionManager(db), nil
	case config.DriverPostgres, "":
		pool, err := pg.NewPool(ctx, cfg, a.logger.Named("postgres"))
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		return pgrepo.NewEmployeeRepository(pool), pg.NewTransactionManager(pool, a.logger.Named("postgres")), nil
	default:
		return nil, nil, fmt.Errorf("app: unsupported database driver %q", cfg.Driver)
	}
}

// Handler は DirectoryService の gRPC ハンドラを返します。
func (a *App) Handler() *handler.DirectoryGrpcHandler {
	return handler.NewDirectoryGrpcHandler(a.Employees, a.Structure, a.Trainings)
}

// Close は開いている接続をすべて閉じます。
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
