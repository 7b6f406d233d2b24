package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"sheetstack/internal/config"
	"sheetstack/internal/db"
	httpapi "sheetstack/internal/http"
	"sheetstack/internal/logging"
	"sheetstack/internal/migrations"
	"sheetstack/internal/sheets"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, cleanupLogs, err := logging.New(logging.Options{
		Service:       "sheetstack",
		Level:         cfg.LogLevel,
		Console:       cfg.Env == "development",
		Dir:           cfg.LogDir,
		RetentionDays: cfg.LogRetentionDays,
	})
	if err != nil {
		log.Warn().Err(err).Msg("file logging disabled")
	}
	defer cleanupLogs()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	table, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store")
	}
	defer closeStore()

	server := httpapi.NewServer(cfg, sheets.Instrumented{Next: table}, log)
	if err := server.Users.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("users schema")
	}

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("backend", cfg.StoreBackend).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
	log.Info().Msg("shutdown complete")
}

// openStore builds the configured Table. For the Google backend the one-time
// authorization runs here so bad credentials stop the process before it serves.
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (sheets.Table, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		database, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Apply(database); err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		return sheets.NewPostgres(database), func() { _ = database.Close() }, nil
	case config.BackendMemory:
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return sheets.NewMemory(), func() {}, nil
	default:
		client := sheets.NewGoogle(sheets.GoogleConfig{
			SpreadsheetID: cfg.SpreadsheetID,
			ClientEmail:   cfg.ServiceAccountEmail,
			PrivateKey:    cfg.ServiceAccountKey,
			Tabs:          cfg.Sheets(),
		}, log)
		if err := client.Authorize(ctx); err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
}
