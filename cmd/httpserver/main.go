package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phonebook/contact"
	"phonebook/dynamodb"
	"phonebook/errs"
	"phonebook/httpserver"
	"phonebook/memory"
	"phonebook/pkg/config"
	"phonebook/pkg/logger"
	"phonebook/pkg/sentry"
	"phonebook/postgres"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		sentry.Fatal(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	slog.SetDefault(log)

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("cannot init sentry: %w", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	repo, err := newContactRepository(context.Background(), cfg)
	if err != nil {
		return err
	}

	server := httpserver.Default(cfg)
	server.Logger = log
	server.ContactService = contact.NewUsecase(repo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newContactRepository(ctx context.Context, cfg *config.Config) (contact.Repository, error) {
	switch cfg.Store.Driver {
	case "", "memory":
		slog.Info("using in-memory contact store, contacts are lost on restart")
		return memory.NewContactRepository(), nil
	case "postgres":
		db, err := postgres.NewConnection(postgres.Options{
			DBName:   cfg.DB.Name,
			DBUser:   cfg.DB.User,
			Password: cfg.DB.Pass,
			Host:     cfg.DB.Host,
			Port:     fmt.Sprintf("%d", cfg.DB.Port),
			SSLMode:  cfg.DB.EnableSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot open postgres connection: %w", err)
		}
		return postgres.NewContactRepository(db), nil
	case "dynamodb":
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:    cfg.DynamoDB.Region,
			Endpoint:  cfg.DynamoDB.Endpoint,
			AccessKey: cfg.DynamoDB.AccessKey,
			SecretKey: cfg.DynamoDB.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		if err := dynamodb.EnsureContactTable(ctx, client, cfg.DynamoDB.Table); err != nil {
			return nil, err
		}
		return dynamodb.NewContactRepository(client, cfg.DynamoDB.Table), nil
	default:
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "unknown store driver %q", cfg.Store.Driver)
	}
}
