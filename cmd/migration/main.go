package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/riskibarqy/equipe-service/db/migrations"
	"github.com/riskibarqy/equipe-service/internal/config"
	"github.com/riskibarqy/equipe-service/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
)

const usage = `usage: migration <command> [arg]

commands:
  up              apply all pending migrations
  down [steps]    roll back steps migrations (default 1)
  version         print the applied version
  force <version> mark version as applied without running it
  goto <version>  migrate up or down to version
`

var errUsage = errors.New("invalid arguments")

// migrator is the subset of *migrate.Migrate the commands use.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewJSON(cfg.LogLevel).With("component", "migration")

	code := run(cfg, logger, os.Args[1:])
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg config.Config, logger *logging.Logger, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Error("DB_URL is required")
		return 1
	}

	m, source, err := newMigrator(postgres.NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		logger.Error("create migrator", "error", err)
		return 1
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator failed", "error", err)
		}
	}()

	logger = logger.With("source", source)
	if err := execute(m, logger, args[0], args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			logger.Error("bad migration arguments", "error", err)
			fmt.Fprint(os.Stderr, usage)
			return 2
		}
		logger.Error("migration failed", "command", args[0], "error", err)
		return 1
	}
	return 0
}

// newMigrator reads migrations from MIGRATIONS_DIR when set, otherwise from
// the files embedded in the binary.
func newMigrator(dbURL string) (*migrate.Migrate, string, error) {
	if dir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, "", fmt.Errorf("resolve MIGRATIONS_DIR: %w", err)
		}
		source := "file://" + filepath.ToSlash(abs)
		m, err := migrate.New(source, dbURL)
		return m, source, err
	}

	driver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, "", fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", driver, dbURL)
	return m, "embedded", err
}

func execute(m migrator, logger *logging.Logger, command string, args []string) error {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "up":
		return report(logger, m.Up(), "migrations applied")
	case "down":
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: down steps must be a positive integer, got %q", errUsage, args[0])
			}
			steps = n
		}
		return report(logger.With("steps", steps), m.Steps(-steps), "migrations rolled back")
	case "version":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			fmt.Println("version: none\ndirty: false")
		case err != nil:
			return err
		default:
			fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
		}
		return nil
	case "force":
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		if version > uint64(int(^uint(0)>>1)) {
			return fmt.Errorf("%w: version %d is too large", errUsage, version)
		}
		return report(logger.With("version", version), m.Force(int(version)), "forced migration version")
	case "goto", "migrate":
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		return report(logger.With("version", version), m.Migrate(uint(version)), "migrated to version")
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func versionArg(args []string) (uint64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: a version argument is required", errUsage)
	}
	version, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid version %q", errUsage, args[0])
	}
	return version, nil
}

func report(logger *logging.Logger, err error, done string) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(done)
	return nil
}
