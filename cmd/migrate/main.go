package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/pkg/config"
	"github.com/angelmondragon/babydeals-backend/pkg/db"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
	"github.com/angelmondragon/babydeals-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "babydeals-migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "command: up|down|status|version|create|validate|create-admin")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (version)")
	email := flag.String("email", "", "admin email (create-admin)")
	password := flag.String("password", os.Getenv("BABYDEALS_ADMIN_PASSWORD"), "admin password (create-admin)")
	flag.Parse()

	cfg, err := config.Load()
	exitOn(context.Background(), logg, "load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "babydeals-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	switch *cmd {
	case "create":
		if *name == "" {
			exitOn(ctx, logg, "create", fmt.Errorf("missing -name"))
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		exitOn(ctx, logg, "create migration", err)
		fmt.Println("created migration:", path)
		return
	case "validate":
		exitOn(ctx, logg, "validate migrations", migrate.ValidateDir(*dir))
		fmt.Println("migrations valid")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	exitOn(ctx, logg, "connect database", err)
	defer dbClient.Close()

	if *cmd == "create-admin" {
		user, err := createAdmin(ctx, users.NewRepository(dbClient.DB()), cfg.Password, *email, *password)
		exitOn(ctx, logg, "create admin", err)
		logg.Info(logg.WithField(ctx, "user_id", user.ID.String()), "admin created")
		return
	}

	sqlDB, err := dbClient.DB().DB()
	exitOn(ctx, logg, "open sql handle", err)
	exitOn(ctx, logg, *cmd, runGoose(ctx, sqlDB, *cmd, *dir, *version))
	logg.Info(ctx, "migrate finished")
}

func runGoose(ctx context.Context, sqlDB *sql.DB, cmd, dir, version string) error {
	switch cmd {
	case "up", "down", "status":
		return migrate.Run(ctx, sqlDB, dir, cmd)
	case "version":
		if version == "" {
			return fmt.Errorf("missing -version")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, dir, version)
	default:
		return fmt.Errorf("unknown -cmd %q", cmd)
	}
}

func exitOn(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, step+" failed", err)
	os.Exit(1)
}
