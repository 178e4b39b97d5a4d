package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/hrcore/internal/platform/config"
	"github.com/ogurasousui/hrcore/internal/platform/logging"
	"go.uber.org/zap"
)

// command は employees スキーマに対するマイグレーション操作です。
type command struct {
	name string
	arg  int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{name: "up"}, nil
	}

	cmd := command{name: args[0]}
	switch cmd.name {
	case "up", "down", "drop", "version":
		if len(args) > 1 {
			return command{}, fmt.Errorf("%s takes no arguments", cmd.name)
		}
		return cmd, nil
	case "steps", "force":
		if len(args) != 2 {
			return command{}, fmt.Errorf("%s requires exactly one integer argument", cmd.name)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return command{}, fmt.Errorf("%s: %q is not an integer", cmd.name, args[1])
		}
		if cmd.name == "steps" && n == 0 {
			return command{}, errors.New("steps: count must not be zero")
		}
		cmd.arg = n
		return cmd, nil
	default:
		return command{}, fmt.Errorf("unsupported action %q", cmd.name)
	}
}

// migrateLogger は golang-migrate のログを zap に流します。
type migrateLogger struct {
	logger *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...any) { l.logger.Infof(format, v...) }

func (l migrateLogger) Verbose() bool { return false }

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Parse()

	cmd, err := parseCommand(flag.Args())
	if err != nil {
		log.Fatalf("invalid arguments: %v", err)
	}

	cfg, err := config.Load(config.EffectivePath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Database.Driver != config.DriverPostgres {
		logger.Info("schema is created on open, nothing to migrate", zap.String("driver", cfg.Database.Driver))
		return
	}

	if err := run(cmd, *migrationsDir, cfg.Database.DSN(), logger); err != nil {
		logger.Fatal("migration failed", zap.String("action", cmd.name), zap.Error(err))
	}
	logger.Info("migration completed", zap.String("action", cmd.name))
}

func run(cmd command, dir, dsn string, logger *zap.Logger) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{logger: logger.Sugar()}

	switch cmd.name {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(cmd.arg)
	case "force":
		return m.Force(cmd.arg)
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migration applied")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema already up to date")
		return nil
	}
	return err
}
