package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

func main() {
	dir := flag.String("path", "migrations", "directory holding the SQL migrations")
	steps := flag.Int("steps", 0, "with 'down', roll back this many migrations (0 = all)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [flags] up|down|version\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot load config: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	defer appLogger.Sync()

	m, err := migrate.New("file://"+*dir, cfg.DB.DSN)
	if err != nil {
		appLogger.Fatal("Cannot create migrate instance", err, zap.String("path", *dir))
	}
	defer m.Close()

	switch cmd := flag.Arg(0); cmd {
	case "up", "":
		err = m.Up()
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			appLogger.Fatal("Cannot read migration version", verr)
		}
		appLogger.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		appLogger.Fatal("Migration failed", err)
	}
	version, _, _ := m.Version()
	appLogger.Info("Migrations applied", zap.Uint("version", version))
}
