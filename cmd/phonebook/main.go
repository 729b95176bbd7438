package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"phonebook/httpclient"
	"phonebook/phonebook"
	"phonebook/pkg/config"
	"phonebook/pkg/logger"
	"phonebook/pkg/sentry"
	"phonebook/tui"

	tea "github.com/charmbracelet/bubbletea"
	sentrygo "github.com/getsentry/sentry-go"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs only go to a file when one is set
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = os.DevNull
	}
	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
	})

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		return fmt.Errorf("cannot init sentry: %w", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	client := httpclient.New(cfg.Client.APIURL, cfg.Client.Timeout)
	status := new(tui.StatusLine)
	ctrl := phonebook.NewController(client, status, log)

	log.Info("starting phonebook", "api_url", client.BaseURL)
	_, err = tea.NewProgram(tui.New(ctx, ctrl, status), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("phonebook: %w", err)
	}
	return nil
}
