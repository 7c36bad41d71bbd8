package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/db"
	"github.com/marketa-app/admin-backend/pkg/logger"
	"github.com/marketa-app/admin-backend/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// create and validate work on files only, no database or config needed
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return fmt.Errorf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return fmt.Errorf("creating migration: %w", err)
		}
		fmt.Println("created migration:", path)
		return nil

	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return fmt.Errorf("migration validation failed: %w", err)
		}
		fmt.Println("migration validation passed")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": opts.cmd,
		"dir": opts.dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	switch opts.cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, opts.dir, opts.cmd); err != nil {
			return fmt.Errorf("goose %s failed: %w", opts.cmd, err)
		}
	case "version":
		if opts.version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, opts.dir, opts.version); err != nil {
			return fmt.Errorf("goose version migrate failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown -cmd value: %s", opts.cmd)
	}

	logg.Info(ctx, "migration command completed")
	return nil
}
