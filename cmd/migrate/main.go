package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"phonebook/pkg/config"
	"phonebook/pkg/logger"
	"phonebook/postgres"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the migration files")
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	slog.SetDefault(log)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		log.Error("cannot connecting to db", "error", err)
		os.Exit(1)
	}

	migrations := &migrate.FileMigrationSource{
		Dir: *dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("cannot get db instance", "error", err)
		os.Exit(1)
	}

	direction, limit := migrate.Up, 0
	if *down {
		direction, limit = migrate.Down, 1
	}

	total, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, limit)
	if err != nil {
		log.Error("cannot execute migration", "error", err)
		os.Exit(1)
	}

	log.Info("applied migrations", "total", total, "down", *down)
}
